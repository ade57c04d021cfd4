package session

import (
	"strings"

	"github.com/seivan/hoard/internal/trove"
)

// EditBuffer holds the working copy of one entry field during edit mode.
// The committed entry is untouched until the buffer is committed into the
// draft on a field transition or confirm.
type EditBuffer struct {
	field EditField
	text  string
}

// Seed points the buffer at a field and loads its working copy.
func (b *EditBuffer) Seed(field EditField, text string) {
	b.field = field
	b.text = text
}

// Insert appends text to the working copy.
func (b *EditBuffer) Insert(text string) {
	b.text += text
}

// DeleteRuneBackward removes the final rune of the working copy and reports
// whether anything was removed.
func (b *EditBuffer) DeleteRuneBackward() bool {
	if b.text == "" {
		return false
	}
	runes := []rune(b.text)
	b.text = string(runes[:len(runes)-1])
	return true
}

// Text returns the current working copy.
func (b *EditBuffer) Text() string {
	return b.text
}

// Field returns the field the buffer is editing.
func (b *EditBuffer) Field() EditField {
	return b.field
}

// draft is an in-progress, uncommitted entry built during edit mode. For
// edits of an existing entry the original identity is retained so a rename
// can replace it.
type draft struct {
	entry             trove.CommandEntry
	originalNamespace string
	originalName      string
	fresh             bool
}

// apply commits one field's buffer text into the draft entry.
func (d *draft) apply(field EditField, text string) {
	switch field {
	case FieldName:
		d.entry.Name = strings.TrimSpace(text)
	case FieldCommand:
		d.entry.Command = text
	case FieldTags:
		d.entry.Tags = trove.ParseTags(text)
	case FieldDescription:
		d.entry.Description = text
	}
}

// seedText returns the draft's current value for the given field, in the
// shape the buffer edits it (tags as a comma-joined string).
func (d *draft) seedText(field EditField) string {
	switch field {
	case FieldName:
		return d.entry.Name
	case FieldCommand:
		return d.entry.Command
	case FieldTags:
		return d.entry.TagString()
	case FieldDescription:
		return d.entry.Description
	default:
		return ""
	}
}
