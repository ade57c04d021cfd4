// Package ui hosts the Bubble Tea model that projects the session
// controller's snapshots onto the terminal and routes key input back into
// it.
package ui

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/seivan/hoard/internal/gpt"
	"github.com/seivan/hoard/internal/logging/events"
	"github.com/seivan/hoard/internal/session"
	"github.com/seivan/hoard/internal/theme"
	"github.com/seivan/hoard/internal/trove"
	"github.com/seivan/hoard/internal/trove/watch"
)

const gptRequestTimeout = 30 * time.Second

// Store is the persistence surface the UI needs: the controller's store plus
// wholesale replacement for watcher-driven reloads.
type Store interface {
	session.Store
	ReplaceAll([]trove.CommandEntry)
	SortedTags() []string
}

type msgHandler func(tea.Msg) tea.Cmd

type gptResultMsg struct {
	template string
	err      error
}

type troveReloadedMsg watch.Event

// Config wires the model's collaborators.
type Config struct {
	Controller  *session.Controller
	Store       Store
	Generator   gpt.Generator
	Watcher     *watch.Watcher
	Styles      *theme.Styles
	QueryPrefix string
}

// Model implements tea.Model over the session controller.
type Model struct {
	controller  *session.Controller
	store       Store
	generator   gpt.Generator
	watcher     *watch.Watcher
	styles      *theme.Styles
	queryPrefix string

	width  int
	height int

	queryCursor cursor.Model

	picked *trove.CommandEntry

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the UI model around an already constructed controller.
func NewModel(cfg Config) *Model {
	m := &Model{
		controller:  cfg.Controller,
		store:       cfg.Store,
		generator:   cfg.Generator,
		watcher:     cfg.Watcher,
		styles:      cfg.Styles,
		queryPrefix: cfg.QueryPrefix,
	}
	if m.styles == nil {
		m.styles = theme.FromConfig(defaultsForStyles())
	}
	c := cursor.New()
	if m.styles.Cursor != nil {
		c.Style = *m.styles.Cursor
	}
	c.SetChar(" ")
	m.queryCursor = c
	m.registerHandlers()
	return m
}

// Result returns the entry picked during the session, if any.
func (m *Model) Result() (trove.CommandEntry, bool) {
	if m.picked == nil {
		return trove.CommandEntry{}, false
	}
	return *m.picked, true
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.watcher != nil {
		cmds = append(cmds, waitForReload(m.watcher))
	}
	if cmd := m.queryCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	var cursorCmd tea.Cmd
	m.queryCursor, cursorCmd = m.queryCursor.Update(msg)
	if cursorCmd != nil {
		cmds = append(cmds, cursorCmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(gptResultMsg{}):      m.handleGptResultMsg,
		reflect.TypeOf(troveReloadedMsg{}):  m.handleTroveReloadedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	m.width = size.Width
	m.height = size.Height
	return nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch m.controller.Mode() {
	case session.ModeSearch:
		return m.handleSearchKey(key)
	case session.ModeEdit:
		return m.handleEditKey(key)
	case session.ModeGptPrompt:
		return m.handleGptKey(key)
	case session.ModeKeyNotConfigured:
		m.controller.DismissPopup()
		return nil
	}
	return nil
}

func (m *Model) handleSearchKey(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit
	case tea.KeyEnter:
		entry, ok := m.controller.SelectedEntry()
		if !ok {
			return nil
		}
		m.picked = &entry
		events.Session.Pick(entry.Namespace, entry.Name)
		return tea.Quit
	case tea.KeyUp, tea.KeyCtrlP:
		m.controller.MoveSelectionUp()
	case tea.KeyDown, tea.KeyCtrlN:
		m.controller.MoveSelectionDown()
	case tea.KeyLeft:
		m.controller.PrevNamespace()
	case tea.KeyRight:
		m.controller.NextNamespace()
	case tea.KeyBackspace:
		m.controller.BackspaceQuery()
	case tea.KeyCtrlU:
		m.controller.ClearQuery()
	case tea.KeyCtrlW:
		m.controller.StartCreate()
	case tea.KeyCtrlE:
		m.controller.StartEditSelected()
	case tea.KeyCtrlX:
		m.controller.DeleteSelected()
	case tea.KeyCtrlA:
		m.controller.EnterGptPrompt()
	case tea.KeySpace:
		m.controller.AppendQuery(" ")
	case tea.KeyRunes:
		m.controller.AppendQuery(string(key.Runes))
	}
	return nil
}

func (m *Model) handleEditKey(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEsc:
		m.controller.CancelEdit()
	case tea.KeyTab:
		m.controller.NextField()
	case tea.KeyEnter:
		m.controller.ConfirmEdit()
	case tea.KeyBackspace:
		m.controller.EditBackspace()
	case tea.KeySpace:
		m.controller.EditInsert(" ")
	case tea.KeyRunes:
		m.controller.EditInsert(string(key.Runes))
	}
	return nil
}

func (m *Model) handleGptKey(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEsc:
		m.controller.DismissPopup()
	case tea.KeyEnter:
		prompt := strings.TrimSpace(m.controller.GptPromptText())
		if prompt == "" {
			return nil
		}
		return submitGpt(m.generator, prompt)
	case tea.KeyBackspace:
		m.controller.GptBackspace()
	case tea.KeySpace:
		m.controller.GptInsert(" ")
	case tea.KeyRunes:
		m.controller.GptInsert(string(key.Runes))
	}
	return nil
}

func (m *Model) handleGptResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(gptResultMsg)
	if !ok {
		return nil
	}
	if result.err != nil {
		m.controller.FailGpt(result.err)
		return nil
	}
	m.controller.CompleteGpt(result.template)
	return nil
}

func (m *Model) handleTroveReloadedMsg(msg tea.Msg) tea.Cmd {
	reload, ok := msg.(troveReloadedMsg)
	if !ok {
		return nil
	}
	if reload.Err != nil {
		m.controller.SetStatus(reload.Err.Error())
	} else {
		m.store.ReplaceAll(reload.Entries)
		m.controller.ReloadEntries()
	}
	if m.watcher != nil {
		return waitForReload(m.watcher)
	}
	return nil
}

func submitGpt(generator gpt.Generator, prompt string) tea.Cmd {
	return func() tea.Msg {
		if generator == nil {
			return gptResultMsg{err: errors.New("generation unavailable")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), gptRequestTimeout)
		defer cancel()
		template, err := generator.Generate(ctx, prompt)
		return gptResultMsg{template: template, err: err}
	}
}

func waitForReload(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return nil
		}
		return troveReloadedMsg(evt)
	}
}
