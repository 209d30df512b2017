package core

// Action represents a semantic explorer action, abstracted from physical key
// presses. The world loop works with high-level intents rather than raw input.
type Action int

const (
	ActionNone       Action = iota
	ActionUp                // W, Up arrow - face/move north
	ActionDown              // S, Down arrow - face/move south
	ActionLeft              // A, Left arrow - face/move west
	ActionRight             // D, Right arrow - face/move east
	ActionInteract          // Space, Enter, E - interact with the node ahead
	ActionCloseInfo         // Escape - dismiss the open node panel or banner
	ActionCycleTheme        // T - switch to the next color theme
	ActionToggleView        // V, Tab - flip between terrain and survey views
	ActionToggleHUD         // H - show/hide the heads-up display
	ActionHelp              // ? - toggle the key reference
	ActionOptimize          // O - compact storage while the warning banner shows
	ActionCleanup           // C - evict low-priority entries while the banner shows
	ActionDismiss           // X - hide the storage warning banner
	ActionQuit              // Q, Ctrl+C - leave the session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionInteract:
		return "Interact"
	case ActionCloseInfo:
		return "CloseInfo"
	case ActionCycleTheme:
		return "CycleTheme"
	case ActionToggleView:
		return "ToggleView"
	case ActionToggleHUD:
		return "ToggleHUD"
	case ActionHelp:
		return "Help"
	case ActionOptimize:
		return "Optimize"
	case ActionCleanup:
		return "Cleanup"
	case ActionDismiss:
		return "Dismiss"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state for one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
