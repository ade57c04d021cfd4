// Package app ties the collaborators together: it loads the trove, runs the
// interactive session, resolves the picked template's parameters, and hands
// the final command string to stdout for the caller's shell to execute.
package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/seivan/hoard/internal/config"
	"github.com/seivan/hoard/internal/gpt"
	"github.com/seivan/hoard/internal/logging"
	"github.com/seivan/hoard/internal/logging/events"
	"github.com/seivan/hoard/internal/session"
	"github.com/seivan/hoard/internal/template"
	"github.com/seivan/hoard/internal/theme"
	"github.com/seivan/hoard/internal/trove"
	"github.com/seivan/hoard/internal/trove/watch"
	"github.com/seivan/hoard/internal/ui"
)

const watchInterval = 2 * time.Second

// watchedTrove couples the store with the active file watcher so the
// watcher's baseline advances on every save and this process's own rewrites
// are not reported back as external changes.
type watchedTrove struct {
	*trove.Trove
	watcher *watch.Watcher
}

func (s *watchedTrove) SaveAll() error {
	if err := s.Trove.SaveAll(); err != nil {
		return err
	}
	if s.watcher != nil {
		s.watcher.Mark()
	}
	return nil
}

// Run executes the interactive session until the user picks a command or
// quits. The resolved command is printed to stdout; execution belongs to the
// invoking shell.
func Run(rt config.Runtime) error {
	loaded, err := trove.Load(rt.File.TrovePath)
	if err != nil {
		return fmt.Errorf("load trove: %w", err)
	}
	store := &watchedTrove{Trove: loaded}

	generator := gpt.NewClient(rt.File.GptAPIKey)
	styles := theme.FromConfig(rt.File)

	controller := session.New(store, session.Config{
		DefaultNamespace: rt.File.DefaultNamespace,
		GptConfigured:    rt.GptConfigured(),
	})

	prompter := stdinPrompter(os.Stdin, os.Stderr)

	for {
		// One watcher per session round. Stopping it before the blocking
		// prompts closes its channel, so the round's pending receive ends
		// instead of lingering to swallow a later event.
		watcher := watch.NewWatcher(rt.File.TrovePath, watchInterval)
		store.watcher = watcher

		model := ui.NewModel(ui.Config{
			Controller:  controller,
			Store:       store,
			Generator:   generator,
			Watcher:     watcher,
			Styles:      styles,
			QueryPrefix: rt.File.QueryPrefix,
		})
		program := tea.NewProgram(model, tea.WithAltScreen())
		final, err := program.Run()
		watcher.Stop()
		watcher.Wait()
		store.watcher = nil
		if err != nil {
			return fmt.Errorf("run session: %w", err)
		}
		finished, ok := final.(*ui.Model)
		if !ok {
			finished = model
		}
		picked, ok := finished.Result()
		if !ok {
			events.App.Exit(false)
			return nil
		}

		resolved, err := template.ResolveInteractive(
			picked.Command,
			rt.File.ParameterToken,
			rt.File.ParameterEndingToken,
			prompter,
		)
		if err != nil {
			if errors.Is(err, template.ErrCancelled) {
				// Back into the session without mutating anything. The file
				// may have changed while the prompts blocked, so re-read it
				// before the next round's watcher takes its baseline.
				if fresh, loadErr := trove.Load(rt.File.TrovePath); loadErr == nil {
					store.ReplaceAll(fresh.Entries())
					controller.ReloadEntries()
				}
				controller.SetStatus("")
				continue
			}
			return err
		}

		events.App.Exit(true)
		fmt.Fprintln(os.Stdout, resolved)
		return nil
	}
}

// stdinPrompter asks for one parameter value per line on the terminal after
// the alternate screen has been torn down. EOF cancels the resolution.
func stdinPrompter(in io.Reader, out io.Writer) template.Prompter {
	reader := bufio.NewReader(in)
	return func(name string) (string, error) {
		fmt.Fprintf(out, "Enter value for %q: ", name)
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
				return strings.TrimRight(line, "\r\n"), nil
			}
			logging.Error(fmt.Errorf("read parameter value: %w", err))
			return "", template.ErrCancelled
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}
