package ai

import "github.com/gomoku-core/fiveinrow/internal/game"

var zobristCells = newZobrist()

func newZobrist() [game.Size * game.Size * 2]uint64 {
	var table [game.Size * game.Size * 2]uint64
	rng := splitmix64{state: 0x9e3779b97f4a7c15 ^ game.Size}
	for i := range table {
		table[i] = rng.next()
	}
	return table
}

// stoneKey is the hash contribution of marker at (row, col).
func stoneKey(row, col int, marker game.Cell) uint64 {
	idx := (row*game.Size + col) * 2
	if marker == game.MarkerB {
		idx++
	}
	return zobristCells[idx]
}

// Hash computes the Zobrist hash of the board contents.
func Hash(b *game.Board) uint64 {
	var h uint64
	for r := 0; r < game.Size; r++ {
		for c := 0; c < game.Size; c++ {
			if m := b[r][c]; m != game.Empty {
				h ^= stoneKey(r, c, m)
			}
		}
	}
	return h
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
