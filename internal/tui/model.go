package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tripwise/packmate/internal/packing"
)

// opTimeout bounds every network round trip started from the UI.
const opTimeout = 15 * time.Second

// Reconciler is what the UI drives. *packing.Reconciler satisfies it.
type Reconciler interface {
	Activate(ctx context.Context)
	Toggle(ctx context.Context, id string) error
	AwaitRefresh(ctx context.Context) error
	Snapshot() packing.View
}

// Limits are the bag limits the pills are graded against.
type Limits struct {
	WeightKg  float64
	VolumeCm3 float64
}

type snapshotMsg struct{ view packing.View }

type toggledMsg struct {
	name string
	err  error
}

// Model is the bubbletea model of the packing list screen.
type Model struct {
	rec      Reconciler
	limits   Limits
	keys     keyMap
	view     packing.View
	cursor   int
	expanded map[string]bool
	busy     bool
	status   string
	err      string
}

func NewModel(rec Reconciler, limits Limits) Model {
	return Model{
		rec:      rec,
		limits:   limits,
		keys:     newKeyMap(),
		expanded: make(map[string]bool),
		busy:     true,
		status:   "loading packing list…",
	}
}

// Run starts the UI on the alternate screen and blocks until it exits.
func Run(rec Reconciler, limits Limits) error {
	_, err := tea.NewProgram(NewModel(rec, limits), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return m.activate() }

// activate is the focus hook: it follows trip changes and refreshes totals.
func (m Model) activate() tea.Cmd {
	rec := m.rec
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		rec.Activate(ctx)
		return snapshotMsg{view: rec.Snapshot()}
	}
}

func (m Model) toggle(id, name string) tea.Cmd {
	rec := m.rec
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		if err := rec.Toggle(ctx, id); err != nil {
			return toggledMsg{name: name, err: err}
		}
		_ = rec.AwaitRefresh(ctx)
		return toggledMsg{name: name}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.view = msg.view
		m.busy = false
		m.status = ""
		m.clampCursor()
		return m, nil

	case toggledMsg:
		m.busy = false
		if msg.err != nil {
			m.err = toggleError(msg.name, msg.err)
		} else {
			m.err = ""
			m.status = "updated " + msg.name
		}
		m.view = m.rec.Snapshot()
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Expand):
		if id, ok := m.selectedID(); ok {
			m.expanded[id] = !m.expanded[id]
		}
	case key.Matches(msg, m.keys.Refresh):
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.status = "refreshing…"
		return m, m.activate()
	case key.Matches(msg, m.keys.Toggle):
		if m.busy || len(m.view.Items) == 0 {
			return m, nil
		}
		it := m.view.Items[m.cursor]
		if !packing.Toggleable(it) {
			m.err = fmt.Sprintf("%s has not been scanned yet", it.Name())
			return m, nil
		}
		m.busy = true
		m.err = ""
		m.status = "saving " + it.Name() + "…"
		return m, m.toggle(packing.Identity(it, m.cursor), it.Name())
	}
	return m, nil
}

func (m Model) selectedID() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Items) {
		return "", false
	}
	return packing.Identity(m.view.Items[m.cursor], m.cursor), true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.view.Items) {
		m.cursor = len(m.view.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func toggleError(name string, err error) string {
	if errors.Is(err, packing.ErrNotToggleable) {
		return fmt.Sprintf("%s has not been scanned yet", name)
	}
	return fmt.Sprintf("could not update %s: %v", name, err)
}

func (m Model) View() string {
	var b strings.Builder

	title := "Packing list"
	if m.view.Info != nil && m.view.Info.Destination != "" {
		title += " · " + m.view.Info.Destination
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if m.view.TripID == "" {
		b.WriteString(subtitleStyle.Render("No active trip. Create one with `packmate create-trip`."))
		b.WriteString("\n")
		return b.String()
	}

	var weight, volume float64
	if m.view.Info != nil {
		weight, volume = m.view.Info.TotalItemsWeight, m.view.Info.TotalItemsVolume
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		renderPill(packing.WeightPill(weight, m.limits.WeightKg)),
		" ",
		renderPill(packing.VolumePill(volume, m.limits.VolumeCm3)),
	))
	b.WriteString("\n\n")

	if len(m.view.Items) == 0 && !m.busy {
		b.WriteString(subtitleStyle.Render("Nothing recommended yet."))
		b.WriteString("\n")
	}
	for i, it := range m.view.Items {
		b.WriteString(m.renderRow(i, it))
		b.WriteString("\n")
		if m.expanded[packing.Identity(it, i)] {
			for _, line := range packing.DetailLines(it) {
				b.WriteString(detailStyle.Render(line))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderRow(i int, it packing.Item) string {
	box := "[ ]"
	if m.view.IsChecked(i) {
		box = "[x]"
	}
	cursor := "  "
	if i == m.cursor {
		cursor = "> "
	}

	row := cursor + box + " " + it.Name()
	switch {
	case !packing.Toggleable(it):
		row = disabledStyle.Render(row)
	case i == m.cursor:
		row = selectedStyle.Render(row)
	}
	if label, ok := packing.RecommendationLabel(it); ok {
		row += "  " + labelStyle(label).Render(string(label))
	}
	return row
}

func (m Model) renderHelp() string {
	parts := make([]string, 0, len(m.keys.bindings()))
	for _, b := range m.keys.bindings() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " · "))
}
