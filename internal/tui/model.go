// Package tui provides the Bubble Tea habit tracker interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gokitlog "github.com/go-kit/log"
	"github.com/mattn/go-runewidth"

	"github.com/teamdino/studykit/internal/export"
	"github.com/teamdino/studykit/internal/habit"
	"github.com/teamdino/studykit/internal/logging"
	"github.com/teamdino/studykit/internal/model"
)

type mode int

const (
	modeGrid mode = iota
	modeAdd
	modeRename
	modeConfirmDelete
)

const (
	maxNameWidth = 28
	cellWidth    = 5
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	openStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	todayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	modalStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Options configures the tracker UI.
type Options struct {
	// Code is shown in the header; empty means temporary mode.
	Code       string
	ExportPath string
	Logger     gokitlog.Logger
	Now        func() time.Time
}

// Model implements the Bubble Tea habit tracker.
type Model struct {
	book       *habit.Book
	code       string
	exportPath string
	logger     gokitlog.Logger
	now        func() time.Time

	width  int
	height int

	row int
	col int

	mode   mode
	input  textinput.Model
	status string
	failed bool
}

type exportedMsg struct {
	path string
	err  error
}

// NewModel constructs the tracker UI for an opened book.
func NewModel(book *habit.Book, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportPath == "" {
		opts.ExportPath = export.FileName
	}
	input := textinput.New()
	input.Prompt = "Name: "
	input.CharLimit = 80
	input.Cursor.SetMode(cursor.CursorBlink)

	m := &Model{
		book:       book,
		code:       opts.Code,
		exportPath: opts.ExportPath,
		logger:     opts.Logger,
		now:        opts.Now,
		input:      input,
	}
	m.col = habit.TodayIndex(book.Week, m.now())
	if m.col < 0 {
		m.col = 0
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case exportedMsg:
		if msg.err != nil {
			logging.Error(m.logger, "failed to export", msg.err, "path", msg.path)
			m.setError(msg.err.Error())
			return m, nil
		}
		m.setStatus("Exported to " + msg.path)
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd, modeRename:
			return m.updateInput(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateGrid(msg)
		}
	default:
		return m, nil
	}
}

func (m *Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.book.Tracker
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		if m.row < t.Len()-1 {
			m.row++
		}
	case "left", "h":
		if m.col > 0 {
			m.col--
		}
	case "right", "l":
		if m.col < habit.DaysPerWeek-1 {
			m.col++
		}
	case " ", "enter":
		m.toggle()
	case "a":
		return m, m.startInput(modeAdd, "")
	case "r":
		if t.Len() > 0 {
			return m, m.startInput(modeRename, t.Habits[m.row])
		}
	case "d":
		if t.Len() > 0 {
			m.mode = modeConfirmDelete
		}
	case "K":
		m.move(-1)
	case "J":
		m.move(1)
	case "[":
		m.loadWeek(habit.PrevWeek(m.book.Week))
	case "]":
		if !habit.CanGoNext(m.book.Week, m.now()) {
			m.setStatus("Future weeks are locked")
			return m, nil
		}
		m.loadWeek(habit.NextWeek(m.book.Week))
	case "t":
		m.loadWeek(m.now())
	case "x":
		return m, m.exportCmd()
	case "s":
		m.saveWeek()
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.mode = modeGrid
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		if err := m.submitInput(); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.mode = modeGrid
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "y", "Y":
		m.mode = modeGrid
		m.remove()
		return m, nil
	default:
		m.mode = modeGrid
		return m, nil
	}
}

func (m *Model) startInput(md mode, value string) tea.Cmd {
	m.mode = md
	m.status = ""
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

// Store writes run inside Update so they reach the store in the order the
// edits were made and none are pending when the program quits.

func (m *Model) submitInput() error {
	t := m.book.Tracker
	value := m.input.Value()
	ctx := context.Background()
	if m.mode == modeAdd {
		if err := t.Add(value); err != nil {
			return err
		}
		idx := t.Len() - 1
		m.row = idx
		h := model.Habit{Name: t.Habits[idx], Position: idx}
		m.setStatus("Added " + h.Name)
		m.reportWrite("habit "+h.Name, m.book.PersistAdd(ctx, h))
		return nil
	}
	old := t.Habits[m.row]
	if err := t.Rename(m.row, value); err != nil {
		return err
	}
	renamed := t.Habits[m.row]
	if renamed == old {
		return nil
	}
	m.setStatus("Renamed " + old + " to " + renamed)
	m.reportWrite("rename of "+old, m.book.PersistRename(ctx, old, renamed))
	return nil
}

func (m *Model) toggle() {
	if m.book.Tracker.Len() == 0 {
		return
	}
	if _, err := m.book.Tracker.Toggle(m.row, m.col); err != nil {
		m.setError(err.Error())
		return
	}
	check := m.book.CheckAt(m.row, m.col)
	m.reportWrite("check "+check.HabitName, m.book.PersistCheck(context.Background(), check))
}

func (m *Model) remove() {
	t := m.book.Tracker
	if m.row >= t.Len() {
		return
	}
	name := t.Habits[m.row]
	if err := t.Remove(m.row); err != nil {
		m.setError(err.Error())
		return
	}
	if m.row >= t.Len() && m.row > 0 {
		m.row--
	}
	m.setStatus("Removed " + name)
	m.reportWrite("removal of "+name, m.book.PersistRemove(context.Background(), name))
}

func (m *Model) move(delta int) {
	t := m.book.Tracker
	to := m.row + delta
	if to < 0 || to >= t.Len() {
		return
	}
	if err := t.Move(m.row, to); err != nil {
		m.setError(err.Error())
		return
	}
	m.row = to
	m.reportWrite("order", m.book.PersistOrder(context.Background(), t.Habits))
}

func (m *Model) saveWeek() {
	if !m.book.Persistent() {
		m.setStatus("Temporary mode: log in to save")
		return
	}
	if err := m.book.Save(context.Background()); err != nil {
		m.reportWrite("week", err)
		return
	}
	m.setStatus("Saved week of " + habit.WeekLabel(m.book.Week))
}

// reportWrite reports a failed write; the in-memory edit is kept.
func (m *Model) reportWrite(action string, err error) {
	if err == nil {
		return
	}
	logging.Error(m.logger, "failed to save", err, "action", action)
	m.setError(fmt.Sprintf("%s not saved: %v", action, err))
}

func (m *Model) loadWeek(week time.Time) {
	week = habit.WeekStart(week)
	if err := m.book.SwitchWeek(context.Background(), week); err != nil {
		logging.Error(m.logger, "failed to load week", err, "week", week.Format(habit.WeekLayout))
		m.setError(err.Error())
		return
	}
	m.setStatus("Week of " + habit.WeekLabel(m.book.Week))
}

func (m *Model) exportCmd() tea.Cmd {
	t := m.book.Tracker
	if t.Len() == 0 {
		m.setError("Nothing to export")
		return nil
	}
	names := append([]string(nil), t.Habits...)
	grid := t.Grid()
	path := m.exportPath
	logger := m.logger
	return func() tea.Msg {
		return exportedMsg{path: path, err: export.Save(logger, path, names, grid)}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.failed = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.failed = true
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.mode == modeAdd || m.mode == modeRename || m.mode == modeConfirmDelete {
		modal := m.renderModal()
		if m.width == 0 || m.height == 0 {
			return modal
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}
	sections := []string{m.renderHeader(), "", m.renderGrid(), "", m.renderFooter()}
	if m.status != "" {
		style := footerStyle
		if m.failed {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.status))
	}
	return strings.Join(sections, "\n")
}

func (m *Model) renderHeader() string {
	who := "Temporary mode: changes are not saved"
	if m.code != "" {
		who = "Code: " + m.code
	}
	week := "Week of " + habit.WeekLabel(m.book.Week)
	return titleStyle.Render("Habit Tracker") + "  " + headerStyle.Render(week+" · "+who)
}

func (m *Model) renderGrid() string {
	t := m.book.Tracker
	if t.Len() == 0 {
		return headerStyle.Render("No habits yet. Press a to add one.")
	}
	nameWidth := runewidth.StringWidth("Daily %")
	for _, name := range t.Habits {
		if w := runewidth.StringWidth(name); w > nameWidth {
			nameWidth = w
		}
	}
	if nameWidth > maxNameWidth {
		nameWidth = maxNameWidth
	}
	today := habit.TodayIndex(m.book.Week, m.now())

	var b strings.Builder
	b.WriteString(runewidth.FillRight("", nameWidth))
	for d, day := range habit.DayNames {
		label := center(day, cellWidth)
		if d == today {
			label = todayStyle.Render(label)
		} else {
			label = headerStyle.Render(label)
		}
		b.WriteString(label)
	}
	b.WriteString(headerStyle.Render(" Streak"))
	b.WriteByte('\n')

	for h, name := range t.Habits {
		b.WriteString(runewidth.FillRight(runewidth.Truncate(name, nameWidth, "…"), nameWidth))
		for d := 0; d < habit.DaysPerWeek; d++ {
			b.WriteString(m.renderCell(h, d))
		}
		b.WriteString(fmt.Sprintf(" %6d", t.Streak(h, today)))
		b.WriteByte('\n')
	}

	b.WriteString(headerStyle.Render(runewidth.FillRight("Daily %", nameWidth)))
	for _, p := range t.DailyPercentages() {
		b.WriteString(headerStyle.Render(center(fmt.Sprintf("%d%%", p), cellWidth)))
	}
	b.WriteByte('\n')
	b.WriteString(fmt.Sprintf("Weekly average: %d%%", t.WeeklyPercentage()))
	return b.String()
}

func (m *Model) renderCell(h, d int) string {
	done := m.book.Tracker.Checks[h][d]
	mark, style := "[ ]", openStyle
	if done {
		mark, style = "[x]", doneStyle
	}
	cell := center(mark, cellWidth)
	if h == m.row && d == m.col {
		return selectedStyle.Render(cell)
	}
	return style.Render(cell)
}

func (m *Model) renderFooter() string {
	segments := []string{
		"space toggle",
		"a add",
		"r rename",
		"d delete",
		"J/K move",
		"[ ] week",
		"t today",
		"x export",
		"s save",
		"q quit",
	}
	if !habit.CanGoNext(m.book.Week, m.now()) {
		segments[5] = "[ prev week"
	}
	return footerStyle.Render(strings.Join(segments, " · "))
}

func (m *Model) renderModal() string {
	var title, hint string
	switch m.mode {
	case modeAdd:
		title, hint = "Add Habit", "Enter to add / Esc to cancel"
	case modeRename:
		title, hint = "Rename Habit", "Enter to rename / Esc to cancel"
	default:
		name := ""
		if m.row < m.book.Tracker.Len() {
			name = m.book.Tracker.Habits[m.row]
		}
		title, hint = "Delete "+name+"?", "y to delete / any key to cancel"
	}
	body := []string{titleStyle.Render(title)}
	if m.mode != modeConfirmDelete {
		body = append(body, m.input.View())
	}
	body = append(body, headerStyle.Render(hint))
	if m.failed && m.status != "" {
		body = append(body, errorStyle.Render(m.status))
	}
	return modalStyle.Render(strings.Join(body, "\n"))
}

func center(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
