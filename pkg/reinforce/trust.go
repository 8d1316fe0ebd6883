package reinforce

import "reinforcebot/models"

// DefaultMinConfidence is the lowest OCR confidence accepted as trustworthy.
const DefaultMinConfidence = 50.0

// Verdict says whether an observation can be acted on and, if not, why.
type Verdict int

const (
	Trusted Verdict = iota
	LowConfidence
	Unclassified
	Unparsed
)

func (v Verdict) String() string {
	switch v {
	case Trusted:
		return "trusted"
	case LowConfidence:
		return "low confidence"
	case Unclassified:
		return "unclassified"
	case Unparsed:
		return "success without level/item"
	default:
		return "unknown verdict"
	}
}

// Assessment is a verdict together with what was read.
type Assessment struct {
	Verdict Verdict
	Result  Result
	Info    *SuccessInfo
}

// Trusted reports whether the observation can be handed to the policy.
func (a Assessment) Trusted() bool { return a.Verdict == Trusted }

// TrustGate decides whether one OCR attempt is trustworthy.
type TrustGate struct {
	MinConfidence float64
}

// NewTrustGate returns a gate with the given threshold, or the default when zero.
func NewTrustGate(minConfidence float64) TrustGate {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return TrustGate{MinConfidence: minConfidence}
}

// Assess checks confidence, then classification, then field extraction. A
// gold-shortage banner is trusted even though it classifies as Unknown.
func (g TrustGate) Assess(obs models.Observation) Assessment {
	if obs.Confidence < g.MinConfidence {
		return Assessment{Verdict: LowConfidence}
	}
	res := Classify(obs.Text)
	switch res {
	case Destroy, Keep:
		return Assessment{Verdict: Trusted, Result: res}
	case Success:
		info, err := ExtractSuccessInfo(obs.Text)
		if err != nil {
			return Assessment{Verdict: Unparsed, Result: res}
		}
		return Assessment{Verdict: Trusted, Result: res, Info: &info}
	}
	if IsGoldShortage(obs.Text) {
		return Assessment{Verdict: Trusted, Result: res}
	}
	return Assessment{Verdict: Unclassified, Result: res}
}

// IsTrustworthy is Assess(obs).Trusted().
func (g TrustGate) IsTrustworthy(obs models.Observation) bool {
	return g.Assess(obs).Trusted()
}
