package reinforce

import (
	"reinforcebot/models"
)

// Targets holds the per-mode target levels.
type Targets struct {
	Farm      int `mapstructure:"farm" yaml:"farm"`
	Challenge int `mapstructure:"challenge" yaml:"challenge"`
}

// DefaultTargets returns the stock target levels.
func DefaultTargets() Targets {
	return Targets{Farm: 11, Challenge: 20}
}

// Reasons attached to a Decision.
const (
	ReasonGoldShortage    = "gold shortage"
	ReasonNotSuccess      = "not a success card"
	ReasonUnparsed        = "success without level/item"
	ReasonAlwaysReinforce = "always-reinforce item"
	ReasonTargetReached   = "target reached"
	ReasonBelowTarget     = "below target"
)

// Decision is the policy outcome for one observation.
type Decision struct {
	Action models.Action
	Result Result
	Info   *SuccessInfo
	Reason string
}

// Policy decides what to do with a card under a run mode.
type Policy struct {
	Mode    models.RunMode
	Targets Targets
	Items   ItemRules

	classifier *Classifier
}

// NewPolicy builds a Policy using the default classifier.
func NewPolicy(mode models.RunMode, targets Targets, items ItemRules) *Policy {
	return &Policy{Mode: mode, Targets: targets, Items: items, classifier: DefaultClassifier}
}

// Decide evaluates the rules in priority order; the first applicable one wins.
func (p *Policy) Decide(obs models.Observation) Decision {
	if IsGoldShortage(obs.Text) {
		d := Decision{Action: models.ActionSell, Reason: ReasonGoldShortage}
		if p.Mode == models.ModeChallenge {
			d.Action = models.ActionStop
		}
		return d
	}

	res := p.classify(obs.Text)
	if res != Success {
		// destroy, keep and unreadable cards never lead to a sale
		return Decision{Action: models.ActionReinforce, Result: res, Reason: ReasonNotSuccess}
	}

	info, err := ExtractSuccessInfo(obs.Text)
	if err != nil {
		return Decision{Action: models.ActionReinforce, Result: res, Reason: ReasonUnparsed}
	}
	d := Decision{Result: res, Info: &info}

	if p.Items.IsAlwaysReinforce(info.ItemName) {
		d.Action, d.Reason = models.ActionReinforce, ReasonAlwaysReinforce
		return d
	}

	if p.Mode == models.ModeChallenge {
		if info.Level >= p.Targets.Challenge {
			d.Action, d.Reason = models.ActionStop, ReasonTargetReached
		} else {
			d.Action, d.Reason = models.ActionReinforce, ReasonBelowTarget
		}
		return d
	}

	if info.Level >= p.farmThreshold(p.Items.IsPrimaryWeapon(info.ItemName)) {
		d.Action, d.Reason = models.ActionSell, ReasonTargetReached
	} else {
		d.Action, d.Reason = models.ActionReinforce, ReasonBelowTarget
	}
	return d
}

// farmThreshold is the sell level for primary weapons and for other items.
// Both currently use the farm target.
func (p *Policy) farmThreshold(primaryWeapon bool) int {
	if primaryWeapon {
		return p.Targets.Farm
	}
	return p.Targets.Farm
}

func (p *Policy) classify(raw string) Result {
	if p.classifier == nil {
		return Classify(raw)
	}
	return p.classifier.Classify(raw)
}
