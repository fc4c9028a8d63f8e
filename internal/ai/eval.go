package ai

import "github.com/gomoku-core/fiveinrow/internal/game"

// WindowLen is the number of cells scored from each starting cell and axis.
const WindowLen = 6

// Run scores, monotonic in length and openness.
const (
	ScoreFive      = 100000
	ScoreOpenFour  = 10000
	ScoreFour      = 1000
	ScoreOpenThree = 500
	ScoreThree     = 100
	ScoreOpenTwo   = 50
	ScoreTwo       = 25
	ScoreOpenOne   = 10
	ScoreOne       = 5
	ScoreOther     = 1
)

type window [WindowLen]game.Cell

// Evaluate scores the whole board from player's point of view: the sum of
// player run scores minus the opponent's, over every window.
func Evaluate(b *game.Board, player game.Cell) int {
	opp := player.Opponent()
	total := 0
	for r := 0; r < game.Size; r++ {
		for c := 0; c < game.Size; c++ {
			for _, d := range game.Axes {
				total += windowScore(b, r, c, d, player, opp)
			}
		}
	}
	return total
}

func windowScore(b *game.Board, row, col int, d [2]int, player, opp game.Cell) int {
	w, occupied := extractWindow(b, row, col, d)
	if !occupied {
		return 0
	}
	return PatternScore(w[:], player) - PatternScore(w[:], opp)
}

// extractWindow reads WindowLen cells from (row, col) along d. Off-board
// cells read as Empty.
func extractWindow(b *game.Board, row, col int, d [2]int) (window, bool) {
	var w window
	occupied := false
	for i := 0; i < WindowLen; i++ {
		r, c := row+i*d[0], col+i*d[1]
		if !game.IsValidPosition(r, c) {
			continue
		}
		w[i] = b[r][c]
		if w[i] != game.Empty {
			occupied = true
		}
	}
	return w, occupied
}

// PatternScore classifies every run of player inside line by length and open
// ends. Only cells inside line count as open; the line's own boundary does not.
func PatternScore(line []game.Cell, player game.Cell) int {
	score := 0
	for i := 0; i < len(line); {
		if line[i] != player {
			i++
			continue
		}
		start := i
		for i < len(line) && line[i] == player {
			i++
		}
		end := i - 1

		open := 0
		if start > 0 && line[start-1] == game.Empty {
			open++
		}
		if end < len(line)-1 && line[end+1] == game.Empty {
			open++
		}
		score += RunScore(end-start+1, open)
	}
	return score
}

func RunScore(length, openEnds int) int {
	switch {
	case length >= 5 && openEnds >= 1:
		return ScoreFive
	case length == 4 && openEnds == 2:
		return ScoreOpenFour
	case length == 4 && openEnds == 1:
		return ScoreFour
	case length == 3 && openEnds == 2:
		return ScoreOpenThree
	case length == 3 && openEnds == 1:
		return ScoreThree
	case length == 2 && openEnds == 2:
		return ScoreOpenTwo
	case length == 2 && openEnds == 1:
		return ScoreTwo
	case length == 1 && openEnds == 2:
		return ScoreOpenOne
	case length == 1 && openEnds == 1:
		return ScoreOne
	}
	return ScoreOther
}

// placementDelta is Evaluate after placing marker at (row, col) minus
// Evaluate before, computed over the windows that contain the cell. The cell
// must be Empty.
func placementDelta(b *game.Board, row, col int, marker, player game.Cell) int {
	opp := player.Opponent()
	before := 0
	for _, d := range game.Axes {
		for k := 0; k < WindowLen; k++ {
			sr, sc := row-k*d[0], col-k*d[1]
			if game.IsValidPosition(sr, sc) {
				before += windowScore(b, sr, sc, d, player, opp)
			}
		}
	}
	b[row][col] = marker
	after := 0
	for _, d := range game.Axes {
		for k := 0; k < WindowLen; k++ {
			sr, sc := row-k*d[0], col-k*d[1]
			if game.IsValidPosition(sr, sc) {
				after += windowScore(b, sr, sc, d, player, opp)
			}
		}
	}
	b[row][col] = game.Empty
	return after - before
}
