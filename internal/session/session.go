// Package session implements the interactive session controller: the state
// machine that owns the control mode, the query text, the filtered view,
// the selection, and the in-progress edit draft. The controller never
// renders; it emits an immutable Snapshot each cycle for a rendering
// collaborator to project.
package session

import (
	"fmt"

	"github.com/seivan/hoard/internal/logging/events"
	"github.com/seivan/hoard/internal/search"
	"github.com/seivan/hoard/internal/trove"
)

// Store is the entry persistence collaborator. Mutations operate on an
// in-memory list; SaveAll persists the whole list in one rewrite.
type Store interface {
	Entries() []trove.CommandEntry
	Upsert(trove.CommandEntry)
	Delete(namespace, name string) bool
	SaveAll() error
}

// Config carries the controller-relevant configuration.
type Config struct {
	DefaultNamespace string
	GptConfigured    bool
}

// Snapshot is the render-ready projection of the session state. It is a
// value copy; the rendering collaborator never mutates controller state.
type Snapshot struct {
	Mode           ControlMode
	Field          EditField
	Query          string
	GptInput       string
	Selection      int
	View           []trove.CommandEntry
	EditBuffer     string
	Draft          trove.CommandEntry
	NamespaceIndex int
	Namespaces     []string
	PopupVisible   bool
	Status         string
	GptConfigured  bool
}

// Controller is the single authoritative state machine for the interactive
// session. One input event is processed to completion before the next is
// accepted; no locking is needed.
type Controller struct {
	store         Store
	defaultNS     string
	gptConfigured bool

	mode       ControlMode
	field      EditField
	query      string
	gptInput   string
	selection  int
	view       []trove.CommandEntry
	namespaces []string
	nsIndex    int
	buffer     EditBuffer
	draft      *draft
	popup      bool
	status     string
}

// New builds a controller over the store, starting in search mode on the
// default namespace.
func New(store Store, cfg Config) *Controller {
	c := &Controller{
		store:         store,
		defaultNS:     cfg.DefaultNamespace,
		gptConfigured: cfg.GptConfigured,
		mode:          ModeSearch,
	}
	c.reloadNamespaces()
	c.refreshView()
	return c
}

// Snapshot returns the current render-ready state.
func (c *Controller) Snapshot() Snapshot {
	view := make([]trove.CommandEntry, len(c.view))
	copy(view, c.view)
	namespaces := make([]string, len(c.namespaces))
	copy(namespaces, c.namespaces)
	var draftEntry trove.CommandEntry
	if c.draft != nil {
		draftEntry = c.draft.entry
	}
	return Snapshot{
		Mode:           c.mode,
		Field:          c.field,
		Query:          c.query,
		GptInput:       c.gptInput,
		Selection:      c.selection,
		View:           view,
		EditBuffer:     c.buffer.Text(),
		Draft:          draftEntry,
		NamespaceIndex: c.nsIndex,
		Namespaces:     namespaces,
		PopupVisible:   c.popup,
		Status:         c.status,
		GptConfigured:  c.gptConfigured,
	}
}

// Mode returns the active control mode.
func (c *Controller) Mode() ControlMode {
	return c.mode
}

// CurrentNamespace returns the namespace of the selected tab.
func (c *Controller) CurrentNamespace() string {
	if len(c.namespaces) == 0 {
		return c.defaultNS
	}
	return c.namespaces[c.nsIndex]
}

// SelectedEntry returns the entry under the selection, if any.
func (c *Controller) SelectedEntry() (trove.CommandEntry, bool) {
	if len(c.view) == 0 || c.selection < 0 || c.selection >= len(c.view) {
		return trove.CommandEntry{}, false
	}
	return c.view[c.selection], true
}

func (c *Controller) setMode(mode ControlMode) {
	if c.mode == mode {
		return
	}
	events.Session.ModeChange(c.mode.String(), mode.String())
	c.mode = mode
}

// reloadNamespaces re-derives the namespace tabs from the store, keeping the
// selected index valid.
func (c *Controller) reloadNamespaces() {
	namespaces := []string{c.defaultNS}
	seen := map[string]struct{}{c.defaultNS: {}}
	for _, e := range c.store.Entries() {
		if e.Namespace == "" {
			continue
		}
		if _, ok := seen[e.Namespace]; ok {
			continue
		}
		seen[e.Namespace] = struct{}{}
		namespaces = append(namespaces, e.Namespace)
	}
	c.namespaces = namespaces
	if c.nsIndex >= len(namespaces) {
		c.nsIndex = len(namespaces) - 1
	}
	if c.nsIndex < 0 {
		c.nsIndex = 0
	}
}

// refreshView re-derives the filtered view from the store, the selected
// namespace, and the query. The caller decides the selection policy.
func (c *Controller) refreshView() {
	c.view = search.Filter(c.store.Entries(), c.CurrentNamespace(), c.query)
	c.clampSelection()
}

func (c *Controller) clampSelection() {
	if len(c.view) == 0 {
		c.selection = 0
		return
	}
	if c.selection < 0 {
		c.selection = 0
	}
	if c.selection >= len(c.view) {
		c.selection = len(c.view) - 1
	}
}

func identities(entries []trove.CommandEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.Namespace + "\x00" + e.Name
	}
	return ids
}

// sameMembership compares identity lists as sets: a query change that only
// reorders the view (an entry moving between match tiers) keeps the
// selection.
func sameMembership(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, id := range a {
		counts[id]++
	}
	for _, id := range b {
		if counts[id] == 0 {
			return false
		}
		counts[id]--
	}
	return true
}

// applyQuery re-filters after a query mutation, resetting the selection to 0
// when the result set changed membership and preserving it otherwise.
func (c *Controller) applyQuery() {
	before := identities(c.view)
	c.view = search.Filter(c.store.Entries(), c.CurrentNamespace(), c.query)
	if !sameMembership(before, identities(c.view)) {
		c.selection = 0
	}
	c.clampSelection()
}

// AppendQuery appends text to the query and re-filters.
func (c *Controller) AppendQuery(text string) {
	if text == "" {
		return
	}
	c.status = ""
	c.query += text
	c.applyQuery()
	events.Search.Append(c.query, len(c.view))
}

// BackspaceQuery removes the final query rune and re-filters.
func (c *Controller) BackspaceQuery() {
	if c.query == "" {
		return
	}
	runes := []rune(c.query)
	c.query = string(runes[:len(runes)-1])
	c.applyQuery()
	events.Search.Backspace(c.query, len(c.view))
}

// ClearQuery resets the query and restores the full namespace view.
func (c *Controller) ClearQuery() {
	if c.query == "" {
		return
	}
	c.query = ""
	c.applyQuery()
	events.Search.Cleared()
}

// MoveSelectionUp moves the selection up, wrapping at the top.
func (c *Controller) MoveSelectionUp() {
	if n := len(c.view); n > 0 {
		if c.selection > 0 {
			c.selection--
		} else {
			c.selection = n - 1
		}
		events.Session.Selection(c.selection)
	}
}

// MoveSelectionDown moves the selection down, wrapping at the bottom.
func (c *Controller) MoveSelectionDown() {
	if n := len(c.view); n > 0 {
		if c.selection < n-1 {
			c.selection++
		} else {
			c.selection = 0
		}
		events.Session.Selection(c.selection)
	}
}

// NextNamespace selects the following namespace tab, cycling.
func (c *Controller) NextNamespace() {
	if len(c.namespaces) == 0 {
		return
	}
	c.nsIndex = (c.nsIndex + 1) % len(c.namespaces)
	c.selection = 0
	c.refreshView()
	events.Session.Namespace(c.nsIndex, c.CurrentNamespace())
}

// PrevNamespace selects the preceding namespace tab, cycling.
func (c *Controller) PrevNamespace() {
	if len(c.namespaces) == 0 {
		return
	}
	c.nsIndex = (c.nsIndex - 1 + len(c.namespaces)) % len(c.namespaces)
	c.selection = 0
	c.refreshView()
	events.Session.Namespace(c.nsIndex, c.CurrentNamespace())
}

// DeleteSelected removes the selected entry from the store, persists the
// rewrite, and re-clamps the selection. The session stays in search mode.
func (c *Controller) DeleteSelected() error {
	entry, ok := c.SelectedEntry()
	if !ok {
		return nil
	}
	if !c.store.Delete(entry.Namespace, entry.Name) {
		return nil
	}
	if err := c.store.SaveAll(); err != nil {
		c.status = err.Error()
		return err
	}
	c.reloadNamespaces()
	c.refreshView()
	return nil
}

// StartCreate transitions to edit mode with a fresh blank draft in the
// current namespace, starting at the name field.
func (c *Controller) StartCreate() {
	c.draft = &draft{
		entry: trove.CommandEntry{Namespace: c.CurrentNamespace()},
		fresh: true,
	}
	c.field = FieldName
	c.buffer.Seed(FieldName, "")
	c.setMode(ModeEdit)
	events.Edit.Begin(c.draft.entry.Namespace, "", true)
}

// StartEditSelected transitions to edit mode on the selected entry, seeding
// the buffer from its name. Returns false when nothing is selected.
func (c *Controller) StartEditSelected() bool {
	entry, ok := c.SelectedEntry()
	if !ok {
		return false
	}
	c.draft = &draft{
		entry:             entry,
		originalNamespace: entry.Namespace,
		originalName:      entry.Name,
	}
	c.field = FieldName
	c.buffer.Seed(FieldName, entry.Name)
	c.setMode(ModeEdit)
	events.Edit.Begin(entry.Namespace, entry.Name, false)
	return true
}

// EditInsert appends text to the edit buffer.
func (c *Controller) EditInsert(text string) {
	if c.mode != ModeEdit {
		return
	}
	c.buffer.Insert(text)
}

// EditBackspace removes the final rune of the edit buffer.
func (c *Controller) EditBackspace() {
	if c.mode != ModeEdit {
		return
	}
	c.buffer.DeleteRuneBackward()
}

// NextField commits the buffer into the draft and moves to the next field,
// reseeding the buffer from the draft's value for it.
func (c *Controller) NextField() {
	if c.mode != ModeEdit || c.draft == nil {
		return
	}
	c.draft.apply(c.field, c.buffer.Text())
	events.Edit.FieldCommit(c.field.String(), c.buffer.Text())
	c.field = c.field.Next()
	c.buffer.Seed(c.field, c.draft.seedText(c.field))
}

// ConfirmEdit commits the buffer and the whole draft into the store (create
// or overwrite by identity) and returns to search mode. A draft without a
// name is rejected and the session stays in edit mode.
func (c *Controller) ConfirmEdit() error {
	if c.mode != ModeEdit || c.draft == nil {
		return nil
	}
	c.draft.apply(c.field, c.buffer.Text())
	entry := c.draft.entry
	if entry.Name == "" {
		c.status = "command name required"
		return fmt.Errorf("command name required")
	}
	if entry.Namespace == "" {
		entry.Namespace = c.CurrentNamespace()
	}
	if !c.draft.fresh && !entry.Is(c.draft.originalNamespace, c.draft.originalName) {
		c.store.Delete(c.draft.originalNamespace, c.draft.originalName)
	}
	c.store.Upsert(entry)
	if err := c.store.SaveAll(); err != nil {
		c.status = err.Error()
		return err
	}
	events.Edit.Confirm(entry.Namespace, entry.Name)
	c.draft = nil
	c.status = ""
	c.setMode(ModeSearch)
	c.reloadNamespaces()
	c.refreshView()
	c.selectEntry(entry)
	return nil
}

// selectEntry snaps the selection to the given entry, falling back to the
// strongest name match when the entry is not visible in the current view.
func (c *Controller) selectEntry(entry trove.CommandEntry) {
	for i, e := range c.view {
		if e.Is(entry.Namespace, entry.Name) {
			c.selection = i
			return
		}
	}
	if idx := search.BestMatchIndex(c.view, entry.Name); idx >= 0 {
		c.selection = idx
	}
	c.clampSelection()
}

// CancelEdit discards the draft without touching the store and returns to
// search mode.
func (c *Controller) CancelEdit() {
	if c.mode != ModeEdit {
		return
	}
	c.draft = nil
	c.buffer.Seed(FieldName, "")
	c.setMode(ModeSearch)
	events.Edit.Cancel()
}

// EnterGptPrompt opens the generation popup, degrading to the
// key-not-configured state when no credential is present.
func (c *Controller) EnterGptPrompt() {
	c.popup = true
	c.gptInput = ""
	if !c.gptConfigured {
		events.Gpt.KeyMissing()
		c.setMode(ModeKeyNotConfigured)
		return
	}
	c.setMode(ModeGptPrompt)
}

// GptInsert appends text to the generation prompt.
func (c *Controller) GptInsert(text string) {
	if c.mode != ModeGptPrompt {
		return
	}
	c.gptInput += text
}

// GptBackspace removes the final rune of the generation prompt.
func (c *Controller) GptBackspace() {
	if c.mode != ModeGptPrompt || c.gptInput == "" {
		return
	}
	runes := []rune(c.gptInput)
	c.gptInput = string(runes[:len(runes)-1])
}

// GptPromptText returns the pending generation request.
func (c *Controller) GptPromptText() string {
	return c.gptInput
}

// CompleteGpt seeds a fresh draft with the generated template and moves to
// edit mode at the command field.
func (c *Controller) CompleteGpt(template string) {
	c.popup = false
	c.gptInput = ""
	c.draft = &draft{
		entry: trove.CommandEntry{Namespace: c.CurrentNamespace(), Command: template},
		fresh: true,
	}
	c.field = FieldCommand
	c.buffer.Seed(FieldCommand, template)
	c.setMode(ModeEdit)
	events.Edit.Begin(c.draft.entry.Namespace, "", true)
}

// FailGpt surfaces a generation failure and returns to search mode.
func (c *Controller) FailGpt(err error) {
	c.popup = false
	c.gptInput = ""
	if err != nil {
		c.status = err.Error()
		events.Gpt.Error(err)
	}
	c.setMode(ModeSearch)
}

// DismissPopup leaves the key-not-configured (or generation) popup and
// returns to search mode. Any key dismisses it.
func (c *Controller) DismissPopup() {
	c.popup = false
	c.gptInput = ""
	c.setMode(ModeSearch)
}

// ReloadEntries re-derives namespaces and the filtered view after the store
// contents changed underneath the session (external file edit).
func (c *Controller) ReloadEntries() {
	c.reloadNamespaces()
	c.refreshView()
}

// Status returns the transient status line text.
func (c *Controller) Status() string {
	return c.status
}

// SetStatus replaces the transient status line text.
func (c *Controller) SetStatus(text string) {
	c.status = text
}
