package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// Commands recognized in control mode.
const (
	cmdBindings = "bindings"
	cmdClear    = "clear"
	cmdDump     = "dump"
	cmdHelp     = "help"
	cmdNames    = "names"
	cmdQuit     = "quit"
)

var commands = []string{
	cmdBindings, cmdClear, cmdDump, cmdHelp, cmdNames, cmdQuit,
}

// takesName reports whether the command accepts a bound name argument.
func takesName(cmd string) bool { return cmd == cmdBindings || cmd == cmdDump }

// wordBounds returns the whitespace-delimited word under cursor and its byte
// offsets in input.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	for start = cursor; start > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if unicode.IsSpace(r) {
			break
		}

		start -= size
	}

	for end = cursor; end < len(input); {
		r, size := utf8.DecodeRuneInString(input[end:])
		if unicode.IsSpace(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidates returns the completion list for the word starting at offset
// start. Only control mode completes: the first word from the command list,
// the second from the names bound by the pattern.
func (m model) candidates(input string, start int) []string {
	if m.mode != modeCtrl {
		return nil
	}

	fields := strings.Fields(input[:start])
	switch {
	case len(fields) == 0:
		return commands
	case len(fields) == 1 && takesName(fields[0]) && m.transform != nil:
		return slices.Sorted(maps.Keys(m.transform.Names()))
	}

	return nil
}

func (m model) computeMatches() (matches fuzzy.Matches, start, end int) {
	input := m.input.Value()

	word, start, end := wordBounds(input, m.input.Position())
	list := m.candidates(input, start)

	if len(list) == 0 {
		return nil, start, end
	}

	if word == "" {
		matches = make(fuzzy.Matches, len(list))
		for i, s := range list {
			matches[i] = fuzzy.Match{Str: s, Index: i}
		}

		return matches, start, end
	}

	return fuzzy.Find(word, list), start, end
}

// renderCandidateBar lays out matches on one line, truncated with an
// ellipsis at width.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		item := renderCandidate(match, tabActive && i == selected)

		w := lipgloss.Width(item)
		if i > 0 {
			w += len(sep)
		}

		need := used + w
		if i < len(matches)-1 {
			need += reserve
		}

		if i > 0 && need > width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(item)

		used += w
	}

	return b.String()
}

func renderCandidate(match fuzzy.Match, selected bool) string {
	base, mark := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, mark = selectedStyle, selectedStyle.Bold(true)
	}

	var b strings.Builder

	next := 0

	for i, r := range match.Str {
		style := base
		if next < len(match.MatchedIndexes) && match.MatchedIndexes[next] == i {
			style = mark
			next++
		}

		b.WriteString(style.Render(string(r)))
	}

	return b.String()
}
