package game

import (
	"errors"
	"strings"
)

const (
	Size      = 15
	WinLength = 5
)

type Cell uint8

const (
	Empty Cell = iota
	MarkerA
	MarkerB
)

var (
	ErrInvalidCell   = errors.New("invalid cell")
	ErrOccupiedCell  = errors.New("pick an unoccupied cell")
	ErrGameOver      = errors.New("game is over")
	ErrInvalidMarker = errors.New("invalid marker")
)

// Board is a value type; plain assignment produces an independent copy.
type Board [Size][Size]Cell

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	switch c {
	case MarkerA:
		return "X"
	case MarkerB:
		return "O"
	default:
		return ""
	}
}

func (c Cell) IsMarker() bool {
	return c == MarkerA || c == MarkerB
}

// Opponent returns the other marker. Empty has no opponent and maps to Empty.
func (c Cell) Opponent() Cell {
	switch c {
	case MarkerA:
		return MarkerB
	case MarkerB:
		return MarkerA
	default:
		return Empty
	}
}

// ParseCell accepts "X"/"O" (any case) and "" for Empty.
func ParseCell(s string) (Cell, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return MarkerA, nil
	case "O":
		return MarkerB, nil
	case "":
		return Empty, nil
	}
	return Empty, ErrInvalidMarker
}

func IsValidPosition(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

func (b *Board) At(row, col int) Cell {
	return b[row][col]
}

func (b *Board) Set(row, col int, c Cell) {
	b[row][col] = c
}

func (b *Board) IsFull() bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == Empty {
				return false
			}
		}
	}
	return true
}

func (b *Board) IsEmpty() bool {
	return b.Count() == 0
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] != Empty {
				n++
			}
		}
	}
	return n
}

// String renders the board as a row-major signature of 'X', 'O' and '.'.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(Size * Size)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			switch b[r][c] {
			case MarkerA:
				sb.WriteByte('X')
			case MarkerB:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// Rows converts the board into a JSON friendly matrix of marker strings.
func (b *Board) Rows() [][]string {
	rows := make([][]string, Size)
	for r := 0; r < Size; r++ {
		rows[r] = make([]string, Size)
		for c := 0; c < Size; c++ {
			rows[r][c] = b[r][c].String()
		}
	}
	return rows
}
