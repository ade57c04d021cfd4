package session

// ControlMode is the top-level interaction state of the session. Exactly one
// mode is active at any time.
type ControlMode int

const (
	ModeSearch ControlMode = iota
	ModeEdit
	ModeGptPrompt
	ModeKeyNotConfigured
)

func (m ControlMode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeEdit:
		return "edit"
	case ModeGptPrompt:
		return "gpt-prompt"
	case ModeKeyNotConfigured:
		return "key-not-configured"
	default:
		return "unknown"
	}
}

// EditField identifies which entry field the edit buffer is working on.
// Meaningful only while in ModeEdit.
type EditField int

const (
	FieldName EditField = iota
	FieldCommand
	FieldTags
	FieldDescription
)

// Next returns the field after f, cycling back to FieldName.
func (f EditField) Next() EditField {
	switch f {
	case FieldName:
		return FieldCommand
	case FieldCommand:
		return FieldTags
	case FieldTags:
		return FieldDescription
	default:
		return FieldName
	}
}

func (f EditField) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldCommand:
		return "command"
	case FieldTags:
		return "tags"
	case FieldDescription:
		return "description"
	default:
		return "unknown"
	}
}
