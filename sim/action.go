package sim

import (
	"fmt"
	"strings"
)

// Action is a bitset of logical input actions for a single frame.
// A world keeps two of them (current and previous poll) so consumers can
// detect press and release edges.
type Action uint32

const (
	ActionNone   Action = 0
	ActionCancel Action = 1 << (iota - 1)
	ActionMoveForward
	ActionMoveRight
	ActionMoveLeft
	ActionMoveBack
	ActionJump
	ActionCrouch
	ActionPrimary
	ActionSecondary
	ActionLookUp
	ActionLookLeft
	ActionLookRight
	ActionLookDown
)

var actionNames = []struct {
	action Action
	name   string
}{
	{ActionCancel, "cancel"},
	{ActionMoveForward, "move-forward"},
	{ActionMoveRight, "move-right"},
	{ActionMoveLeft, "move-left"},
	{ActionMoveBack, "move-back"},
	{ActionJump, "jump"},
	{ActionCrouch, "crouch"},
	{ActionPrimary, "primary"},
	{ActionSecondary, "secondary"},
	{ActionLookUp, "look-up"},
	{ActionLookLeft, "look-left"},
	{ActionLookRight, "look-right"},
	{ActionLookDown, "look-down"},
}

// Has reports whether every flag in other is set.
func (a Action) Has(other Action) bool {
	return other != 0 && a&other == other
}

// Pressed returns the flags set in a but not in old (rising edges).
func (a Action) Pressed(old Action) Action {
	return a &^ old
}

// Released returns the flags set in old but not in a (falling edges).
func (a Action) Released(old Action) Action {
	return old &^ a
}

func (a Action) String() string {
	if a == ActionNone {
		return "none"
	}

	parts := make([]string, 0, 4)
	rest := a
	for _, entry := range actionNames {
		if a&entry.action != 0 {
			parts = append(parts, entry.name)
			rest &^= entry.action
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%X", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseAction resolves a single action name such as "move-forward".
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, entry := range actionNames {
		if entry.name == name {
			return entry.action, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}
