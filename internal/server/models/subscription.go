package models

// ToggleOutcome reports which way a subscription toggle went.
type ToggleOutcome int

const (
	Subscribed ToggleOutcome = iota + 1
	Unsubscribed
)

func (o ToggleOutcome) String() string {
	switch o {
	case Subscribed:
		return "subscribed"
	case Unsubscribed:
		return "unsubscribed"
	default:
		return "unknown"
	}
}
