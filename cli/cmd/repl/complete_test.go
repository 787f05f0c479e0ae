package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "dump", 4, "dump", 0, 4},
		{"second_word", "dump us", 7, "us", 5, 7},
		{"mid_word", "bindings", 3, "bindings", 0, 8},
		{"at_space", "dump ", 5, "", 5, 5},
		{"empty", "", 0, "", 0, 0},
		{"cursor_past_end", "help", 9, "help", 0, 4},
		{"tabs", "dump\tgr", 7, "gr", 5, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestComputeMatches(t *testing.T) {
	m := testModel(t)

	strs := func(ms fuzzy.Matches) []string {
		out := make([]string, len(ms))
		for i, match := range ms {
			out[i] = match.Str
		}

		return out
	}

	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  []string
	}{
		{"data_mode", modeData, "us", nil},
		{"all_commands", modeCtrl, "", commands},
		{"command_prefix", modeCtrl, "dum", []string{cmdDump}},
		{"names", modeCtrl, "dump ", []string{"group", "user"}},
		{"name_prefix", modeCtrl, "bindings us", []string{"user"}},
		{"no_argument", modeCtrl, "names ", nil},
		{"third_word", modeCtrl, "dump user ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.CursorEnd()

			matches, _, _ := m.computeMatches()
			if got := strs(matches); !slices.Equal(got, tt.want) {
				t.Errorf("computeMatches(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := make(fuzzy.Matches, len(commands))
	for i, s := range commands {
		matches[i] = fuzzy.Match{Str: s, Index: i}
	}

	if got := renderCandidateBar(matches, 0, false, 0); got != "" {
		t.Errorf("zero width bar = %q, want empty", got)
	}

	wide := renderCandidateBar(matches, 0, false, 200)
	for _, cmd := range commands {
		if !strings.Contains(wide, cmd) {
			t.Errorf("bar %q is missing %q", wide, cmd)
		}
	}

	narrow := renderCandidateBar(matches, 0, false, 20)
	if !strings.HasSuffix(narrow, "...") {
		t.Errorf("narrow bar %q is not truncated", narrow)
	}
}
