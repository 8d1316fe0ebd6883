package models

// Action is what the loop does after evaluating a tick.
type Action int

const (
	ActionNone Action = iota
	ActionReinforce
	ActionSell
	ActionStop
)

func (a Action) String() string {
	switch a {
	case ActionReinforce:
		return "reinforce"
	case ActionSell:
		return "sell"
	case ActionStop:
		return "stop"
	default:
		return "none"
	}
}
