package relation

import "fmt"

// Action is the closed set of mutations a user can request against the
// relationship they share with another user.
type Action string

const (
	ActionSend    Action = "send"
	ActionAccept  Action = "accept"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
	ActionRemove  Action = "remove"
	ActionBlock   Action = "block"
	ActionUnblock Action = "unblock"
)

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionSend, ActionAccept, ActionReject, ActionCancel,
		ActionRemove, ActionBlock, ActionUnblock:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown relationship action: %q", s)
}
