package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/seivan/hoard/internal/session"
	"github.com/seivan/hoard/internal/trove"
	"github.com/seivan/hoard/internal/trove/watch"
)

type fakeGenerator struct {
	template   string
	err        error
	configured bool
}

func (f fakeGenerator) Configured() bool { return f.configured }

func (f fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.template, f.err
}

func newTestModel(t *testing.T, generator fakeGenerator) (*Harness, *trove.Trove) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trove.yml")
	store, err := trove.Load(path)
	if err != nil {
		t.Fatalf("load trove: %v", err)
	}
	store.Upsert(trove.CommandEntry{Name: "list-files", Namespace: "default", Command: "ls -la", Tags: []string{"fs"}})
	store.Upsert(trove.CommandEntry{Name: "disk-usage", Namespace: "default", Command: "du -sh #dir!"})
	store.Upsert(trove.CommandEntry{Name: "pods", Namespace: "k8s", Command: "kubectl get pods"})
	if err := store.SaveAll(); err != nil {
		t.Fatalf("save trove: %v", err)
	}
	controller := session.New(store, session.Config{
		DefaultNamespace: "default",
		GptConfigured:    generator.configured,
	})
	model := NewModel(Config{
		Controller:  controller,
		Store:       store,
		Generator:   generator,
		QueryPrefix: "  >",
	})
	return NewHarness(model), store
}

func TestTypingNarrowsAndEnterPicks(t *testing.T) {
	h, _ := newTestModel(t, fakeGenerator{})
	h.Type("disk")
	view := h.View()
	if !strings.Contains(view, "disk-usage") {
		t.Fatalf("expected disk-usage in view:\n%s", view)
	}
	if strings.Contains(view, "list-files") {
		t.Fatalf("expected list-files filtered out:\n%s", view)
	}
	h.Key(tea.KeyEnter)
	picked, ok := h.Model().Result()
	if !ok {
		t.Fatalf("expected a picked entry")
	}
	if picked.Name != "disk-usage" || picked.Command != "du -sh #dir!" {
		t.Fatalf("unexpected pick %#v", picked)
	}
}

func TestEscQuitsWithoutResult(t *testing.T) {
	h, _ := newTestModel(t, fakeGenerator{})
	h.Key(tea.KeyEsc)
	if _, ok := h.Model().Result(); ok {
		t.Fatalf("expected no result after quit")
	}
}

func TestNamespaceTabsSwitchWithArrows(t *testing.T) {
	h, _ := newTestModel(t, fakeGenerator{})
	view := h.View()
	if !strings.Contains(view, "default") || !strings.Contains(view, "k8s") {
		t.Fatalf("expected both namespace tabs:\n%s", view)
	}
	h.Key(tea.KeyRight)
	view = h.View()
	if !strings.Contains(view, "pods") {
		t.Fatalf("expected k8s entries after tab switch:\n%s", view)
	}
	if strings.Contains(view, "list-files") {
		t.Fatalf("expected default entries hidden:\n%s", view)
	}
}

func TestCreateFlowThroughKeys(t *testing.T) {
	h, store := newTestModel(t, fakeGenerator{})
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlW})
	h.Type("netstat")
	h.Key(tea.KeyTab)
	h.Type("ss -tlnp")
	h.Key(tea.KeyTab)
	h.Type("net")
	h.Key(tea.KeyTab)
	h.Type("open listening ports")
	h.Key(tea.KeyEnter)

	entry, ok := store.Find("default", "netstat")
	if !ok {
		t.Fatalf("expected netstat persisted")
	}
	if entry.Command != "ss -tlnp" {
		t.Fatalf("unexpected command %q", entry.Command)
	}
	if len(entry.Tags) != 1 || entry.Tags[0] != "net" {
		t.Fatalf("unexpected tags %v", entry.Tags)
	}
	if entry.Description != "open listening ports" {
		t.Fatalf("unexpected description %q", entry.Description)
	}
}

func TestDeleteSelectedThroughKeys(t *testing.T) {
	h, store := newTestModel(t, fakeGenerator{})
	before := store.Len()
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlX})
	if store.Len() != before-1 {
		t.Fatalf("expected one entry removed, had %d now %d", before, store.Len())
	}
}

func TestGptPopupWithoutCredential(t *testing.T) {
	h, _ := newTestModel(t, fakeGenerator{configured: false})
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlA})
	view := h.View()
	if !strings.Contains(view, "No GPT API key configured") {
		t.Fatalf("expected key-not-configured popup:\n%s", view)
	}
	h.Type("x")
	view = h.View()
	if strings.Contains(view, "No GPT API key configured") {
		t.Fatalf("expected popup dismissed by any key:\n%s", view)
	}
}

func TestGptGenerationSeedsEditDraft(t *testing.T) {
	h, _ := newTestModel(t, fakeGenerator{configured: true, template: "lsof -i :#port!"})
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlA})
	h.Type("what is listening on a port")
	h.Key(tea.KeyEnter)
	view := h.View()
	if strings.Contains(view, "Describe the command to generate") {
		t.Fatalf("expected prompt popup closed after generation:\n%s", view)
	}
	if !strings.Contains(view, "lsof -i :#port!_") {
		t.Fatalf("expected generated template in edit buffer:\n%s", view)
	}
	h.Key(tea.KeyEsc)
}

func TestHarnessUnwrapsBatchedCommands(t *testing.T) {
	generator := fakeGenerator{configured: true, template: "uptime"}
	h, _ := newTestModel(t, generator)
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlA})
	// A batched pair must both reach the model: the keystroke and the
	// generation request it triggers.
	h.processCmd(tea.Batch(
		func() tea.Msg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}} },
		submitGpt(generator, "x"),
	))
	view := h.View()
	if strings.Contains(view, "Describe the command to generate") {
		t.Fatalf("expected generation result processed despite batching:\n%s", view)
	}
	if !strings.Contains(view, "uptime_") {
		t.Fatalf("expected generated template in edit buffer:\n%s", view)
	}
	h.Key(tea.KeyEsc)
}

func TestWaitForReloadEndsOnStoppedWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trove.yml")
	w := watch.NewWatcher(path, 10*time.Millisecond)
	w.Stop()
	w.Wait()
	if msg := waitForReload(w)(); msg != nil {
		t.Fatalf("expected nil message from stopped watcher, got %#v", msg)
	}
}

func TestGptGenerationFailureReturnsToSearch(t *testing.T) {
	h, _ := newTestModel(t, fakeGenerator{configured: true, err: errors.New("rate limited")})
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlA})
	h.Type("anything")
	h.Key(tea.KeyEnter)
	view := h.View()
	if !strings.Contains(view, "rate limited") {
		t.Fatalf("expected failure status in view:\n%s", view)
	}
	if !strings.Contains(view, "Create <Ctrl-W>") {
		t.Fatalf("expected search footer after failure:\n%s", view)
	}
}

func TestFooterHints(t *testing.T) {
	h, _ := newTestModel(t, fakeGenerator{})
	view := h.View()
	if !strings.Contains(view, "Create <Ctrl-W> | Delete <Ctrl-X> | GPT <Ctrl-A>") {
		t.Fatalf("expected footer hints:\n%s", view)
	}
}

func TestEditPanesShowKnownTags(t *testing.T) {
	h, _ := newTestModel(t, fakeGenerator{})
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlW})
	h.Type("x")
	h.Key(tea.KeyTab)
	h.Key(tea.KeyTab)
	view := h.View()
	if !strings.Contains(view, "known tags: fs") {
		t.Fatalf("expected known tag hint on tags field:\n%s", view)
	}
	h.Key(tea.KeyEsc)
}
