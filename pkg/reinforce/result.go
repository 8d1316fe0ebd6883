// Package reinforce turns recognized chat-card text into reinforcement results
// and sell/reinforce/stop decisions.
package reinforce

// Result is the outcome a card describes.
type Result int

const (
	Unknown Result = iota
	Success
	Destroy
	Keep
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Destroy:
		return "destroy"
	case Keep:
		return "keep"
	default:
		return "unknown"
	}
}
