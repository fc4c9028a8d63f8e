package game

type Mode string

const (
	ModePvP  Mode = "pvp"
	ModeVsAI Mode = "ai"
)

// MoveResult describes a successfully applied move.
type MoveResult struct {
	Board       Board
	Marker      Cell
	Position    Move
	IsGameOver  bool
	Winner      Cell
	WinnerName  string
	IsDraw      bool
	WinningLine []Move
}

// State is a point-in-time copy of a game.
type State struct {
	Board       Board
	Turn        Cell
	IsGameOver  bool
	Winner      Cell
	WinningLine []Move
	IsDraw      bool
	Moves       int
	Mode        Mode
}

// Game owns the canonical state of one match. It is not safe for concurrent
// use; Manager serializes access.
type Game struct {
	mode     Mode
	ai       Cell
	board    Board
	turn     Cell
	over     bool
	winner   Cell
	line     []Move
	draw     bool
	moves    int
	selected *Move
}

func NewGame(mode Mode) *Game {
	if mode == ModeVsAI {
		return NewAIGame(MarkerB)
	}
	g := &Game{mode: ModePvP}
	g.Reset()
	return g
}

// NewAIGame starts a game against an automated player using marker ai.
func NewAIGame(ai Cell) *Game {
	if !ai.IsMarker() {
		ai = MarkerB
	}
	g := &Game{mode: ModeVsAI, ai: ai}
	g.Reset()
	return g
}

func (g *Game) Reset() {
	g.board = Board{}
	g.turn = MarkerA
	g.over = false
	g.winner = Empty
	g.line = nil
	g.draw = false
	g.moves = 0
	g.selected = nil
}

// Select records a pending target for Commit.
func (g *Game) Select(row, col int) {
	g.selected = &Move{Row: row, Col: col}
}

// Commit applies the move at the selected coordinates.
func (g *Game) Commit(marker Cell) (MoveResult, error) {
	if g.over {
		return MoveResult{}, ErrGameOver
	}
	if g.selected == nil {
		return MoveResult{}, ErrInvalidCell
	}
	return g.ApplyMove(g.selected.Row, g.selected.Col, marker)
}

// ApplyMove places a marker. When marker is Empty the marker of the player to
// move is used and the turn advances; an explicit marker leaves turn order to
// the caller. Failures never mutate the game.
func (g *Game) ApplyMove(row, col int, marker Cell) (MoveResult, error) {
	if g.over {
		return MoveResult{}, ErrGameOver
	}
	if !IsValidPosition(row, col) {
		return MoveResult{}, ErrInvalidCell
	}
	if g.board[row][col] != Empty {
		return MoveResult{}, ErrOccupiedCell
	}
	explicit := marker != Empty
	if explicit && !marker.IsMarker() {
		return MoveResult{}, ErrInvalidMarker
	}
	if !explicit {
		marker = g.turn
	}

	g.board[row][col] = marker
	g.moves++
	if !explicit {
		g.turn = g.turn.Opponent()
	}

	line, won := DetectWin(&g.board, row, col, marker)
	draw := !won && g.board.IsFull()
	g.over = won || draw
	g.draw = draw
	if won {
		g.winner = marker
		g.line = line
	}

	res := MoveResult{
		Board:       g.board,
		Marker:      marker,
		Position:    Move{Row: row, Col: col},
		IsGameOver:  g.over,
		IsDraw:      draw,
		WinningLine: []Move{},
	}
	if won {
		res.Winner = marker
		res.WinnerName = g.WinnerName()
		res.WinningLine = line
	}
	return res, nil
}

// BoardValue returns Empty for out-of-range coordinates.
func (g *Game) BoardValue(row, col int) Cell {
	if !IsValidPosition(row, col) {
		return Empty
	}
	return g.board[row][col]
}

func (g *Game) Board() Board { return g.board }
func (g *Game) Turn() Cell { return g.turn }
func (g *Game) IsGameOver() bool { return g.over }
func (g *Game) Winner() Cell { return g.winner }
func (g *Game) IsDraw() bool { return g.draw }
func (g *Game) Moves() int { return g.moves }
func (g *Game) Mode() Mode { return g.mode }
func (g *Game) AIMarker() Cell { return g.ai }

// WinnerName labels the winner the way the presentation layer shows it.
func (g *Game) WinnerName() string {
	switch {
	case g.winner == Empty:
		return ""
	case g.mode == ModeVsAI && g.winner == g.ai:
		return "AI"
	case g.winner == MarkerA:
		return "Player 1"
	default:
		return "Player 2"
	}
}

func (g *Game) Snapshot() State {
	line := make([]Move, len(g.line))
	copy(line, g.line)
	return State{
		Board:       g.board,
		Turn:        g.turn,
		IsGameOver:  g.over,
		Winner:      g.winner,
		WinningLine: line,
		IsDraw:      g.draw,
		Moves:       g.moves,
		Mode:        g.mode,
	}
}
