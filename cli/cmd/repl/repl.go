// Package repl runs an interactive session around a compiled transform.
//
// In data mode each submitted line is decoded as YAML (or JSON) and matched
// against the pattern; the instantiated template is printed, or the bindings
// when the document has no template. Esc switches to command mode.
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/reshape/binding"
	"github.com/ardnew/reshape/lang"
	"github.com/ardnew/reshape/log"
)

const (
	dataPrompt = "» "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help            Print this message
  names           List the names the pattern binds and the template inserts
  bindings [NAME] Print the bindings of the last match
  dump [NAME]     Print the bindings of the last match with their Go types
  clear           Clear screen
  quit            Exit

Usage:
  Type a YAML or JSON value to match it, e.g. {user: ada, groups: [dev]}
  Press Tab / Shift-Tab to cycle through completions
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`

type inputMode int

const (
	modeData inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	transform    *lang.Transform
	logger       log.Logger
	history      *History
	historyIdx   int
	last         binding.Bindings // bindings of the last successful match
	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	mode         inputMode
	stash        [2]string // unsubmitted text of each mode
	quitting     bool
}

// Run starts an interactive session for t. Submitted lines are recorded in
// history, which may be nil.
func Run(
	ctx context.Context,
	t *lang.Transform,
	history *History,
	logger log.Logger,
	opts ...tea.ProgramOption,
) (err error) {
	if t == nil {
		return ErrNoTransform
	}

	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if history == nil {
		history = NewHistory("")
	}

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.Int("names", len(t.Names())),
		slog.Bool("template", t.Template() != nil),
		slog.Int("history", history.Len()),
	)

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)

	_, err = tea.NewProgram(newModel(ctx, t, history, logger), opts...).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	t *lang.Transform,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(dataPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		transform:  t,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(dataPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len(),
		)))

	case strings.TrimSpace(m.input.Value()) == "":
		hint := "Type a YAML or JSON value or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(commands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	default:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.switchMode(1 - m.mode), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping at either end.
func (m model) cycle(step int) model {
	switch len(m.matches) {
	case 0:
		return m
	case 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	n := len(m.matches)

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0

		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)
	m.wordEnd = cursor
}

// refreshMatches recomputes completions for the current input. With
// autoConfirm, a word that already equals its only candidate is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

// historyMove steps through history by delta. Recalled entries switch to the
// mode they were entered in; stepping past the newest entry clears the line.
func (m model) historyMove(delta int) model {
	idx := m.historyIdx + delta
	if idx < 0 || idx > m.history.Len() {
		return m
	}

	m.historyIdx = idx
	m.tabActive = false

	if idx == m.history.Len() {
		m.input.SetValue("")
		m.matches = nil

		return m
	}

	e, err := m.history.Entry(idx)
	if err != nil {
		return m
	}

	if e.Mode != m.mode {
		m = m.switchMode(e.Mode)
	}

	m.input.SetValue(e.Line)
	m.input.CursorEnd()
	refreshMatches(&m, false)

	return m
}

func (m model) switchMode(mode inputMode) model {
	if mode == m.mode {
		return m
	}

	m.stash[m.mode] = m.input.Value()
	m.mode = mode
	m.input.SetValue(m.stash[mode])
	m.input.CursorEnd()

	m.input.Prompt = promptStyle.Render(dataPrompt)
	if mode == modeCtrl {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.tabActive = false
	refreshMatches(&m, false)

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.stash = [2]string{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := promptStyle.Render(dataPrompt) + inputStyle.Render(input)

	out, b, err := m.evaluate(input)
	if b != nil {
		m.last = b
	}

	if err != nil {
		return m, tea.Sequence(
			tea.Println(echo),
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	return m, tea.Sequence(tea.Println(echo), tea.Println(resultStyle.Render(out)))
}

// evaluate matches the value in input and renders the result. The bindings
// are returned whenever the match succeeded, even if instantiation failed.
func (m model) evaluate(input string) (string, binding.Bindings, error) {
	ctx := m.ctxFunc()

	data, err := lang.DecodeDataString(ctx, input)
	if err != nil {
		return "", nil, err
	}

	b, err := m.transform.Match(ctx, data)
	if err != nil {
		return "", nil, err
	}

	if m.transform.Template() == nil {
		out, err := render(ctx, b)

		return out, b, err
	}

	v, err := m.transform.Instantiate(ctx, b)
	if err != nil {
		return "", b, err
	}

	out, err := render(ctx, v)

	return out, b, err
}

func render(ctx context.Context, v any) (string, error) {
	var b strings.Builder
	if err := lang.FormatJSON(ctx, &b, v, 0); err != nil {
		return "", err
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	fields := strings.Fields(input)

	switch fields[0] {
	case cmdQuit, "exit", "q":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case cmdClear:
		return m, tea.ClearScreen
	}

	out, err := m.command(fields[0], fields[1:])
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render(err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(out))
}

// command returns the output of a command that does not change the session.
func (m model) command(name string, args []string) (string, error) {
	switch name {
	case cmdHelp, "h", "?":
		return helpMessage, nil

	case cmdNames:
		return m.names(), nil

	case cmdBindings, cmdDump:
		v, err := m.selectBindings(args)
		if err != nil {
			return "", err
		}

		if name == cmdDump {
			return strings.TrimSuffix(dumper.Sdump(v), "\n"), nil
		}

		out, err := render(m.ctxFunc(), v)
		if err != nil {
			return "", err
		}

		return resultStyle.Render(out), nil
	}

	return "", ErrUnknownCommand.With(slog.String("command", name))
}

func (m model) selectBindings(args []string) (any, error) {
	if m.last == nil {
		return nil, ErrNoBindings
	}

	if len(args) == 0 {
		return m.last, nil
	}

	v, ok := m.last[args[0]]
	if !ok {
		return nil, ErrUnknownName.With(slog.String("name", args[0]))
	}

	return v, nil
}

func (m model) names() string {
	var b strings.Builder

	bound := m.transform.Names()
	for _, name := range slices.Sorted(maps.Keys(bound)) {
		fmt.Fprintf(&b, "  %s %s\n", name,
			hintStyle.Render("depth "+strconv.Itoa(bound[name])))
	}

	if inserted := m.transform.Inserted(); len(inserted) > 0 {
		b.WriteString(hintStyle.Render("  inserts: " + strings.Join(inserted, ", ")))
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}
