package trove

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/seivan/hoard/internal/logging/events"
)

// CommandEntry is a stored, named shell command template. Identity is the
// (Namespace, Name) pair, unique within a trove.
type CommandEntry struct {
	Name        string   `yaml:"name"`
	Namespace   string   `yaml:"namespace"`
	Command     string   `yaml:"command"`
	Tags        []string `yaml:"tags,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// Is reports whether the entry carries the given identity.
func (e CommandEntry) Is(namespace, name string) bool {
	return e.Namespace == namespace && e.Name == name
}

// TagString returns the tags joined for display and editing.
func (e CommandEntry) TagString() string {
	return strings.Join(e.Tags, ",")
}

// ParseTags splits a comma-joined tag string into a trimmed, de-duplicated
// tag list, preserving first-occurrence order.
func ParseTags(joined string) []string {
	parts := strings.Split(joined, ",")
	seen := make(map[string]struct{}, len(parts))
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// file is the on-disk shape of a trove.
type file struct {
	Version string         `yaml:"version"`
	Entries []CommandEntry `yaml:"commands"`
}

const fileVersion = "1.0"

// Trove is the in-memory entry store. All mutations operate on the in-memory
// list; SaveAll persists the whole list in one rewrite.
type Trove struct {
	path    string
	entries []CommandEntry
}

// Load reads the trove file at path. A missing file yields an empty trove
// bound to the same path.
func Load(path string) (*Trove, error) {
	t := &Trove{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			events.Store.Loaded(path, 0)
			return t, nil
		}
		return nil, fmt.Errorf("read trove %s: %w", path, err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse trove %s: %w", path, err)
	}
	t.entries = f.Entries
	events.Store.Loaded(path, len(t.entries))
	return t, nil
}

// Path returns the file path the trove persists to.
func (t *Trove) Path() string {
	return t.path
}

// Entries returns a copy of the stored entries in store order.
func (t *Trove) Entries() []CommandEntry {
	dup := make([]CommandEntry, len(t.entries))
	copy(dup, t.entries)
	return dup
}

// Len returns the number of stored entries.
func (t *Trove) Len() int {
	return len(t.entries)
}

// Find locates an entry by identity.
func (t *Trove) Find(namespace, name string) (CommandEntry, bool) {
	for _, e := range t.entries {
		if e.Is(namespace, name) {
			return e, true
		}
	}
	return CommandEntry{}, false
}

// Upsert replaces the entry with the same identity, or appends when no such
// entry exists. Store order is preserved on replace.
func (t *Trove) Upsert(entry CommandEntry) {
	for i, e := range t.entries {
		if e.Is(entry.Namespace, entry.Name) {
			t.entries[i] = entry
			return
		}
	}
	t.entries = append(t.entries, entry)
}

// ReplaceAll swaps the in-memory entry list, used when the file changed on
// disk outside this process.
func (t *Trove) ReplaceAll(entries []CommandEntry) {
	t.entries = make([]CommandEntry, len(entries))
	copy(t.entries, entries)
}

// Delete removes the entry with the given identity and reports whether an
// entry was removed.
func (t *Trove) Delete(namespace, name string) bool {
	for i, e := range t.entries {
		if e.Is(namespace, name) {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			events.Store.Deleted(namespace, name)
			return true
		}
	}
	return false
}

// Namespaces returns the distinct namespaces in store order, with the
// default namespace always present and first.
func (t *Trove) Namespaces(defaultNamespace string) []string {
	out := []string{defaultNamespace}
	seen := map[string]struct{}{defaultNamespace: {}}
	for _, e := range t.entries {
		ns := e.Namespace
		if ns == "" {
			continue
		}
		if _, ok := seen[ns]; ok {
			continue
		}
		seen[ns] = struct{}{}
		out = append(out, ns)
	}
	return out
}

// SaveAll rewrites the whole trove file from the in-memory list.
func (t *Trove) SaveAll() error {
	f := file{Version: fileVersion, Entries: t.entries}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encode trove: %w", err)
	}
	if dir := filepath.Dir(t.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create trove directory: %w", err)
		}
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return fmt.Errorf("write trove %s: %w", t.path, err)
	}
	events.Store.Saved(t.path, len(t.entries))
	return nil
}

// SortedTags returns every distinct tag in the trove, sorted. Used for tag
// suggestions in the edit form footer.
func (t *Trove) SortedTags() []string {
	seen := map[string]struct{}{}
	for _, e := range t.entries {
		for _, tag := range e.Tags {
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
