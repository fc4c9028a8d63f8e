package ai

import (
	"sort"

	"github.com/gomoku-core/fiveinrow/internal/game"
)

// Radius is the Chebyshev distance from an occupied cell within which empty
// cells are considered.
const Radius = 2

// OpeningMoves is returned for an empty board: the center and six neighbors.
var OpeningMoves = []game.Move{
	{Row: 7, Col: 7},
	{Row: 6, Col: 6},
	{Row: 8, Col: 8},
	{Row: 7, Col: 8},
	{Row: 8, Col: 7},
	{Row: 6, Col: 7},
	{Row: 7, Col: 6},
}

// CandidateMoves lists empty cells near occupied ones in row-major order. When
// bias is a marker the list is stably sorted by the score bias would have
// after playing there, best first.
func CandidateMoves(b *game.Board, bias game.Cell) []game.Move {
	var near [game.Size][game.Size]bool
	occupied := false
	for r := 0; r < game.Size; r++ {
		for c := 0; c < game.Size; c++ {
			if b[r][c] == game.Empty {
				continue
			}
			occupied = true
			for dr := -Radius; dr <= Radius; dr++ {
				for dc := -Radius; dc <= Radius; dc++ {
					nr, nc := r+dr, c+dc
					if game.IsValidPosition(nr, nc) {
						near[nr][nc] = true
					}
				}
			}
		}
	}

	var moves []game.Move
	if !occupied {
		moves = make([]game.Move, len(OpeningMoves))
		copy(moves, OpeningMoves)
	} else {
		for r := 0; r < game.Size; r++ {
			for c := 0; c < game.Size; c++ {
				if near[r][c] && b[r][c] == game.Empty {
					moves = append(moves, game.Move{Row: r, Col: c})
				}
			}
		}
	}

	if bias.IsMarker() && len(moves) > 1 {
		orderMoves(b, moves, bias)
	}
	return moves
}

func orderMoves(b *game.Board, moves []game.Move, bias game.Cell) {
	scratch := *b
	scores := make([]int, len(moves))
	for i, mv := range moves {
		scores[i] = placementDelta(&scratch, mv.Row, mv.Col, bias, bias)
	}
	idx := make([]int, len(moves))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return scores[idx[i]] > scores[idx[j]]
	})
	ordered := make([]game.Move, len(moves))
	for i, k := range idx {
		ordered[i] = moves[k]
	}
	copy(moves, ordered)
}
