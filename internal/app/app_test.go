package app

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/seivan/hoard/internal/template"
	"github.com/seivan/hoard/internal/trove"
	"github.com/seivan/hoard/internal/trove/watch"
)

func TestStdinPrompterReadsOneValuePerLine(t *testing.T) {
	var out strings.Builder
	prompt := stdinPrompter(strings.NewReader("first\nsecond\n"), &out)

	value, err := prompt("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "first" {
		t.Fatalf("expected %q, got %q", "first", value)
	}
	value, err = prompt("b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "second" {
		t.Fatalf("expected %q, got %q", "second", value)
	}
	if !strings.Contains(out.String(), `Enter value for "a"`) {
		t.Fatalf("expected prompt text, got %q", out.String())
	}
}

func TestStdinPrompterEOFCancels(t *testing.T) {
	prompt := stdinPrompter(strings.NewReader(""), io.Discard)
	if _, err := prompt("a"); !errors.Is(err, template.ErrCancelled) {
		t.Fatalf("expected cancellation on EOF, got %v", err)
	}
}

func TestWatchedTroveSaveDoesNotEchoReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trove.yml")
	loaded, err := trove.Load(path)
	if err != nil {
		t.Fatalf("load trove: %v", err)
	}
	if err := loaded.SaveAll(); err != nil {
		t.Fatalf("save trove: %v", err)
	}

	// The first tick lands well after the wrapped save below.
	w := watch.NewWatcher(path, 50*time.Millisecond)
	defer func() {
		w.Stop()
		w.Wait()
	}()
	store := &watchedTrove{Trove: loaded, watcher: w}

	store.Upsert(trove.CommandEntry{Name: "mine", Namespace: "default", Command: "ls"})
	if err := store.SaveAll(); err != nil {
		t.Fatalf("save through wrapper: %v", err)
	}

	select {
	case evt := <-w.Events():
		t.Fatalf("expected own save suppressed, got %+v", evt)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestStdinPrompterKeepsFinalUnterminatedLine(t *testing.T) {
	prompt := stdinPrompter(strings.NewReader("value-without-newline"), io.Discard)
	value, err := prompt("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "value-without-newline" {
		t.Fatalf("expected final line kept, got %q", value)
	}
}
