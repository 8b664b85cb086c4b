package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sheikhrachel/lifeboard/app"
	"github.com/sheikhrachel/lifeboard/model"
)

const (
	// cellWidth is how many terminal columns one cell takes
	cellWidth = 2
	// boardTop is the terminal row of the first board row
	boardTop = 2

	cellLive   = "██"
	cellDead   = "  "
	cellCursor = "[]"

	// IntervalStep is how much +/- change the interval, in milliseconds
	IntervalStep = 10
	minInterval  = 10
)

const rulesText = `Life is played on a grid of cells. A cell is live or dead, and each cell
has eight neighbors: the cells next to it in every direction, diagonals included.
  1. A live cell with fewer than two live neighbors dies (loneliness)
  2. A live cell with two or three live neighbors lives on (survival)
  3. A dead cell with exactly three live neighbors becomes live (birth)
  4. A live cell with four or more live neighbors dies (overcrowding)`

// Dispatcher is the part of app.Controller the UI drives
type Dispatcher interface {
	Dispatch(cmd app.Command) (app.State, error)
	State() app.State
}

// GenerationMsg carries the state after a generation produced by the run loop
type GenerationMsg app.State

// Model is the bubbletea model of the board screen
type Model struct {
	ctrl      Dispatcher
	state     app.State
	cursor    model.Cell
	showRules bool
	err       error
}

// NewModel creates the board screen for ctrl
func NewModel(ctrl Dispatcher) Model {
	return Model{ctrl: ctrl, state: ctrl.State()}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case GenerationMsg:
		// A frame queued before the last dispatch is older than what is shown.
		if msg.Seq >= m.state.Seq {
			m.state = app.State(msg)
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if cell, ok := m.CellAt(msg.X, msg.Y); ok {
				m.cursor = cell
				m = m.dispatch(app.ToggleCell{X: cell.X, Y: cell.Y})
			}
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "r":
		if m.state.Running {
			return m.dispatch(app.Stop{}), nil
		}
		return m.dispatch(app.Run{}), nil
	case "n":
		return m.dispatch(app.Step{}), nil
	case "x":
		return m.dispatch(app.Randomize{}), nil
	case "c":
		return m.dispatch(app.Clear{}), nil
	case "t":
		return m.dispatch(app.ToggleTheme{}), nil
	case "+", "=":
		return m.dispatch(app.SetInterval{Ms: m.state.IntervalMs + IntervalStep}), nil
	case "-", "_":
		return m.dispatch(app.SetInterval{Ms: max(m.state.IntervalMs-IntervalStep, minInterval)}), nil
	case "?":
		m.showRules = !m.showRules
	case "up", "k":
		m.cursor.Y = max(m.cursor.Y-1, 0)
	case "down", "j":
		m.cursor.Y = min(m.cursor.Y+1, m.state.Rows-1)
	case "left", "h":
		m.cursor.X = max(m.cursor.X-1, 0)
	case "right", "l":
		m.cursor.X = min(m.cursor.X+1, m.state.Cols-1)
	case "enter":
		return m.dispatch(app.ToggleCell{X: m.cursor.X, Y: m.cursor.Y}), nil
	}
	return m, nil
}

func (m Model) dispatch(cmd app.Command) Model {
	m.state, m.err = m.ctrl.Dispatch(cmd)
	return m
}

// CellAt maps a terminal position to the board cell drawn there
func (m Model) CellAt(col, row int) (model.Cell, bool) {
	if col < 0 || row < boardTop {
		return model.Cell{}, false
	}
	cell := model.Cell{X: col / cellWidth, Y: row - boardTop}
	if cell.X >= m.state.Cols || cell.Y >= m.state.Rows {
		return model.Cell{}, false
	}
	return cell, true
}

// State returns the last state the screen was drawn from
func (m Model) State() app.State {
	return m.state
}

func (m Model) View() string {
	st := newStyles(GetTheme(m.state.Theme))
	var sb strings.Builder

	status := "stopped"
	if m.state.Running {
		status = "running"
	}
	sb.WriteString(st.title.Render("lifeboard") + "  " +
		st.text.Render(fmt.Sprintf("Generation: %d", m.state.Generation)) + "\n")
	sb.WriteString(st.muted.Render(fmt.Sprintf("Speed: %d msec | %s | %s theme | %d live",
		m.state.IntervalMs, status, m.state.Theme, len(m.state.LiveCells))) + "\n")

	m.writeBoard(&sb, st)

	sb.WriteString("\n")
	sb.WriteString(st.muted.Render("space run/stop  n next  x random  c clear  t theme  +/- speed  enter toggle  ? rules  q quit"))
	sb.WriteString("\n")
	if m.err != nil {
		sb.WriteString(st.err.Render(m.err.Error()) + "\n")
	}
	if m.showRules {
		sb.WriteString("\n" + st.text.Render(rulesText) + "\n")
	}
	return sb.String()
}

func (m Model) writeBoard(sb *strings.Builder, st styles) {
	live := make([][]bool, m.state.Rows)
	for y := range live {
		live[y] = make([]bool, m.state.Cols)
	}
	for _, c := range m.state.LiveCells {
		live[c.Y][c.X] = true
	}

	for y := range m.state.Rows {
		var row strings.Builder
		for x := range m.state.Cols {
			switch {
			case x == m.cursor.X && y == m.cursor.Y && !live[y][x]:
				row.WriteString(st.cursor.Render(cellCursor))
			case live[y][x]:
				row.WriteString(st.live.Render(cellLive))
			default:
				row.WriteString(st.dead.Render(cellDead))
			}
		}
		sb.WriteString(row.String() + "\n")
	}
}

// NewProgram wraps the model in a full-screen program with mouse support
func NewProgram(m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
}
