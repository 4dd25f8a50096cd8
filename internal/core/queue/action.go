package queue

// Action is the closed set of operations a caller can request.
type Action int

const (
	ActionUnknown Action = iota
	ActionStart
	ActionJoin
	ActionLeave
	ActionPosition
	ActionList
	ActionClear
	ActionRemove
	ActionExport
)

var actionNames = map[Action]string{
	ActionStart:    "start",
	ActionJoin:     "join",
	ActionLeave:    "leave",
	ActionPosition: "position",
	ActionList:     "list",
	ActionClear:    "clear",
	ActionRemove:   "remove",
	ActionExport:   "export",
}

// Button callback identifiers, kept stable so keyboards sent by earlier
// releases keep working.
var callbackData = map[Action]string{
	ActionJoin:     "add_to_queue",
	ActionLeave:    "remove_from_queue",
	ActionPosition: "position_in_queue",
	ActionList:     "list_queue",
	ActionClear:    "clear_queue",
	ActionExport:   "export_queue",
}

// String returns the command name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// CallbackData returns the button payload for the action ("" if the action
// has no button).
func (a Action) CallbackData() string {
	return callbackData[a]
}

// AdminOnly reports whether the action is restricted to administrators.
func (a Action) AdminOnly() bool {
	switch a {
	case ActionClear, ActionRemove, ActionExport:
		return true
	}
	return false
}

// ParseCommand maps a command name ("join", "/join") to an action.
func ParseCommand(name string) Action {
	if len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}
	for action, n := range actionNames {
		if n == name {
			return action
		}
	}
	return ActionUnknown
}

// ParseCallback maps a button payload to an action.
func ParseCallback(data string) Action {
	for action, d := range callbackData {
		if d == data {
			return action
		}
	}
	return ActionUnknown
}
