// Package template extracts and resolves named placeholders in stored
// command templates. A placeholder run starts at an unescaped start token
// (default "#") and ends at the configured ending token (default "!") when
// one occurs before the run's whitespace boundary, otherwise at the first
// whitespace or end of string.
package template

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/seivan/hoard/internal/logging/events"
)

// Token is a single placeholder occurrence. Start and End are byte offsets
// into the template; the span includes the delimiters that were consumed.
type Token struct {
	Name  string
	Start int
	End   int
}

// ErrDelimiterCollision reports equal start/end tokens. Checked once at
// configuration load; resolution itself never fails.
var ErrDelimiterCollision = errors.New("parameter start and ending tokens are equal")

// ErrCancelled reports that the user abandoned interactive value entry.
var ErrCancelled = errors.New("parameter entry cancelled")

// ValidateDelimiters rejects a configuration whose start and ending tokens
// collide. An empty ending token means "no ending token configured" and is
// always valid.
func ValidateDelimiters(start, end string) error {
	if start == "" {
		return fmt.Errorf("parameter token must not be empty")
	}
	if end != "" && start == end {
		return fmt.Errorf("%w: %q", ErrDelimiterCollision, start)
	}
	return nil
}

// Parse scans the template for placeholder runs and returns one token per
// occurrence, in template order. Duplicate names reoccur; each occurrence
// records its own span. Malformed runs (empty names) produce no token and
// stay literal text.
func Parse(template, start, end string) []Token {
	if start == "" {
		return nil
	}
	var tokens []Token
	for i := 0; i < len(template); {
		idx := strings.Index(template[i:], start)
		if idx < 0 {
			break
		}
		pos := i + idx
		if escaped(template, pos) {
			i = pos + len(start)
			continue
		}
		nameStart := pos + len(start)
		boundary := runBoundary(template, nameStart)
		nameEnd := boundary
		spanEnd := boundary
		if end != "" {
			// The ending token wins over the whitespace boundary; the first
			// occurrence terminates the run even when the character also
			// appears in trailing literal text.
			if cut := strings.Index(template[nameStart:boundary], end); cut >= 0 {
				nameEnd = nameStart + cut
				spanEnd = nameEnd + len(end)
			}
		}
		name := template[nameStart:nameEnd]
		if name == "" {
			i = nameStart
			continue
		}
		tokens = append(tokens, Token{Name: name, Start: pos, End: spanEnd})
		i = spanEnd
	}
	return tokens
}

// escaped reports whether the token at pos is preceded by a backslash.
func escaped(template string, pos int) bool {
	return pos > 0 && template[pos-1] == '\\'
}

// runBoundary returns the byte offset of the first whitespace rune at or
// after start, or the end of the template.
func runBoundary(template string, start int) int {
	for i := start; i < len(template); {
		r, size := utf8.DecodeRuneInString(template[i:])
		if unicode.IsSpace(r) {
			return i
		}
		i += size
	}
	return len(template)
}

// DistinctNames returns every parameter name once, in first-occurrence
// order.
func DistinctNames(tokens []Token) []string {
	seen := make(map[string]struct{}, len(tokens))
	names := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok.Name]; ok {
			continue
		}
		seen[tok.Name] = struct{}{}
		names = append(names, tok.Name)
	}
	return names
}

// Resolve substitutes every token span with the value supplied for its name.
// Occurrences of the same name all receive the same value. Names without a
// value keep their literal text, so resolution is total over any input.
func Resolve(template string, tokens []Token, values map[string]string) string {
	if len(tokens) == 0 {
		return template
	}
	var b strings.Builder
	b.Grow(len(template))
	prev := 0
	for _, tok := range tokens {
		value, ok := values[tok.Name]
		if !ok {
			continue
		}
		b.WriteString(template[prev:tok.Start])
		b.WriteString(value)
		prev = tok.End
	}
	b.WriteString(template[prev:])
	return b.String()
}

// Prompter supplies a value for a named parameter. It blocks until the user
// answers; returning an error (conventionally ErrCancelled) aborts the whole
// resolution.
type Prompter func(name string) (string, error)

// ResolveInteractive parses the template and prompts once per distinct name
// in first-occurrence order, broadcasting each entered value to all spans of
// that name. Cancellation discards every collected value.
func ResolveInteractive(template, start, end string, prompt Prompter) (string, error) {
	tokens := Parse(template, start, end)
	names := DistinctNames(tokens)
	if len(names) == 0 {
		return template, nil
	}
	values := make(map[string]string, len(names))
	for _, name := range names {
		events.Param.Prompt(name)
		value, err := prompt(name)
		if err != nil {
			events.Param.Cancelled(name)
			return "", err
		}
		values[name] = value
	}
	events.Param.Resolved(len(names))
	return Resolve(template, tokens, values), nil
}
