package game

// Axes in detection order: horizontal, vertical, diagonal ↘, diagonal ↙.
// Each entry is the forward step; the backward step is its negation.
var Axes = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// DetectWin reports whether the marker at (row, col) completes a line of at
// least WinLength cells with at least one open end. Off-board counts as open.
// The returned line is ordered from one end of the run to the other.
func DetectWin(b *Board, row, col int, marker Cell) ([]Move, bool) {
	if !IsValidPosition(row, col) || !marker.IsMarker() {
		return nil, false
	}
	for _, d := range Axes {
		back, backBlocked := walk(b, row, col, -d[0], -d[1], marker)
		fwd, fwdBlocked := walk(b, row, col, d[0], d[1], marker)
		if len(back)+1+len(fwd) < WinLength {
			continue
		}
		if backBlocked && fwdBlocked {
			continue
		}
		line := make([]Move, 0, len(back)+1+len(fwd))
		for i := len(back) - 1; i >= 0; i-- {
			line = append(line, back[i])
		}
		line = append(line, Move{Row: row, Col: col})
		line = append(line, fwd...)
		return line, true
	}
	return nil, false
}

// walk collects contiguous marker cells starting next to (row, col) and
// reports whether the walk stopped on an opponent marker.
func walk(b *Board, row, col, dr, dc int, marker Cell) ([]Move, bool) {
	var cells []Move
	r, c := row+dr, col+dc
	for IsValidPosition(r, c) {
		switch b[r][c] {
		case marker:
			cells = append(cells, Move{Row: r, Col: c})
		case Empty:
			return cells, false
		default:
			return cells, true
		}
		r += dr
		c += dc
	}
	return cells, false
}

// FindWinner scans the whole board for a qualifying line of marker.
func FindWinner(b *Board, marker Cell) ([]Move, bool) {
	if !marker.IsMarker() {
		return nil, false
	}
	opp := marker.Opponent()
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] != marker {
				continue
			}
			for _, d := range Axes {
				pr, pc := r-d[0], c-d[1]
				if IsValidPosition(pr, pc) && b[pr][pc] == marker {
					continue // not the start of this run
				}
				length := 1
				er, ec := r+d[0], c+d[1]
				for IsValidPosition(er, ec) && b[er][ec] == marker {
					length++
					er += d[0]
					ec += d[1]
				}
				if length < WinLength {
					continue
				}
				blocked := 0
				if IsValidPosition(pr, pc) && b[pr][pc] == opp {
					blocked++
				}
				if IsValidPosition(er, ec) && b[er][ec] == opp {
					blocked++
				}
				if blocked == 2 {
					continue
				}
				line := make([]Move, length)
				for i := range line {
					line[i] = Move{Row: r + i*d[0], Col: c + i*d[1]}
				}
				return line, true
			}
		}
	}
	return nil, false
}
