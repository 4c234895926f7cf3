// Package tui implements a live dashboard for a generate_deals run,
// rendering the builder's per-seat failure attribution as it updates
// (spec §4.6 "debug hooks"). Modeled on internal/tui's Bubble Tea
// TUIModel in the teacher repo.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/bridgedeal/internal/builder"
	"github.com/lox/bridgedeal/profile"
)

// AttemptMsg is sent into the Bubble Tea program every time the builder
// records a failed attempt, carrying a snapshot of the running attribution
// (the builder mutates its Attribution in place, so the dashboard copies
// the fields it cares about rather than retaining the pointer across
// goroutines).
type AttemptMsg struct {
	Board       int
	FailSeat    profile.Seat
	Attribution builder.Attribution
}

// BoardDoneMsg marks one board as complete (success or exhaustion).
type BoardDoneMsg struct {
	Board     int
	Attempts  int
	Exhausted bool
}

// DoneMsg marks the whole run as finished.
type DoneMsg struct{}

// Model is the dashboard's Bubble Tea model.
type Model struct {
	totalBoards int
	boardsDone  int
	current     builder.Attribution
	lastFail    profile.Seat
	finished    bool
}

// NewModel returns a fresh dashboard for a run of totalBoards boards.
func NewModel(totalBoards int) Model {
	return Model{totalBoards: totalBoards}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	case AttemptMsg:
		m.current = msg.Attribution
		m.lastFail = msg.FailSeat
	case BoardDoneMsg:
		m.boardsDone = msg.Board
	case DoneMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func (m Model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("bridgedeal — board %d/%d", m.boardsDone, m.totalBoards)))
	if m.finished {
		fmt.Fprintln(&b, barStyle.Render("done"))
		return b.String()
	}
	fmt.Fprintf(&b, "%s %d\n", dimStyle.Render("attempts:"), m.current.TotalAttempts)
	for _, seat := range profile.Seats {
		marker := " "
		if seat == m.lastFail {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s%s  fail=%-4d shape=%-4d hcp=%-4d\n",
			marker, seat, m.current.SeatFailAsSeat[seat], m.current.SeatFailShape[seat], m.current.SeatFailHCP[seat])
	}
	fmt.Fprintln(&b, dimStyle.Render("ctrl+c / q to quit"))
	return b.String()
}

// Hooks wires a tea.Program's Send method into builder.Hooks so the
// builder's attempt loop drives the dashboard without depending on
// Bubble Tea itself. totalBoards is the run's board count; messages are
// numbered from board 1, advancing each time a board is built.
func Hooks(totalBoards int, prog *tea.Program) builder.Hooks {
	board := 1
	return builder.Hooks{
		OnAttemptFailure: func(seat profile.Seat, attrib *builder.Attribution) {
			snap := builder.Attribution{
				TotalAttempts:  attrib.TotalAttempts,
				SeatFailAsSeat: make(map[profile.Seat]int, 4),
				SeatFailShape:  make(map[profile.Seat]int, 4),
				SeatFailHCP:    make(map[profile.Seat]int, 4),
			}
			for _, s := range profile.Seats {
				snap.SeatFailAsSeat[s] = attrib.SeatFailAsSeat[s]
				snap.SeatFailShape[s] = attrib.SeatFailShape[s]
				snap.SeatFailHCP[s] = attrib.SeatFailHCP[s]
			}
			prog.Send(AttemptMsg{Board: board, FailSeat: seat, Attribution: snap})
		},
		OnMaxAttempts: func(attrib *builder.Attribution) {
			prog.Send(BoardDoneMsg{Board: board, Attempts: attrib.TotalAttempts, Exhausted: true})
		},
		OnBoardSuccess: func(attrib *builder.Attribution) {
			prog.Send(BoardDoneMsg{Board: board, Attempts: attrib.TotalAttempts, Exhausted: false})
			if board < totalBoards {
				board++
			}
		},
	}
}
