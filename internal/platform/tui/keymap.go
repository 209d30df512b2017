package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tilefolio/tilefolio/internal/core"
)

// KeyMapper translates Bubble Tea key messages to explorer actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an explorer action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch key {
	case "up", "w":
		return core.ActionUp, false
	case "down", "s":
		return core.ActionDown, false
	case "left", "a":
		return core.ActionLeft, false
	case "right", "d":
		return core.ActionRight, false
	case "e", "enter", " ":
		return core.ActionInteract, false
	case "esc":
		return core.ActionCloseInfo, false
	case "t":
		return core.ActionCycleTheme, false
	case "v", "tab":
		return core.ActionToggleView, false
	case "h":
		return core.ActionToggleHUD, false
	case "o":
		return core.ActionOptimize, false
	case "c":
		return core.ActionCleanup, false
	case "x":
		return core.ActionDismiss, false
	case "?", "f1":
		return core.ActionHelp, false
	}

	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}
