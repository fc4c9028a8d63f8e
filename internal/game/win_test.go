package game

import "testing"

func place(b *Board, marker Cell, cells ...Move) {
	for _, m := range cells {
		b.Set(m.Row, m.Col, marker)
	}
}

func run(row, col, dr, dc, n int) []Move {
	out := make([]Move, n)
	for i := range out {
		out[i] = Move{Row: row + i*dr, Col: col + i*dc}
	}
	return out
}

func TestDetectWinAxes(t *testing.T) {
	cases := []struct {
		name  string
		cells []Move
	}{
		{"horizontal", run(7, 3, 0, 1, 5)},
		{"vertical", run(2, 4, 1, 0, 5)},
		{"diagonal down-right", run(3, 3, 1, 1, 5)},
		{"diagonal down-left", run(3, 11, 1, -1, 5)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b Board
			place(&b, MarkerA, tc.cells...)
			last := tc.cells[2]
			line, ok := DetectWin(&b, last.Row, last.Col, MarkerA)
			if !ok {
				t.Fatalf("expected a win")
			}
			if len(line) != 5 {
				t.Fatalf("expected 5 winning cells, got %d", len(line))
			}
			if line[0] != tc.cells[0] || line[4] != tc.cells[4] {
				t.Fatalf("expected line ordered end to end, got %v", line)
			}
		})
	}
}

func TestDetectWinFourIsNotEnough(t *testing.T) {
	var b Board
	place(&b, MarkerA, run(7, 3, 0, 1, 4)...)
	if _, ok := DetectWin(&b, 7, 6, MarkerA); ok {
		t.Fatalf("four in a row must not win")
	}
}

func TestDetectWinBothEndsBlocked(t *testing.T) {
	var b Board
	place(&b, MarkerA, run(7, 3, 0, 1, 5)...)
	b.Set(7, 2, MarkerB)
	b.Set(7, 8, MarkerB)
	if _, ok := DetectWin(&b, 7, 5, MarkerA); ok {
		t.Fatalf("five blocked on both ends must not win")
	}
}

func TestDetectWinOneEndBlocked(t *testing.T) {
	var b Board
	place(&b, MarkerA, run(7, 3, 0, 1, 5)...)
	b.Set(7, 2, MarkerB)
	if _, ok := DetectWin(&b, 7, 7, MarkerA); !ok {
		t.Fatalf("five with one open end must win")
	}
}

func TestDetectWinEdgeCountsAsOpen(t *testing.T) {
	var b Board
	place(&b, MarkerA, run(0, 0, 0, 1, 5)...)
	b.Set(0, 5, MarkerB)
	if _, ok := DetectWin(&b, 0, 0, MarkerA); !ok {
		t.Fatalf("board edge must count as an open end")
	}
}

func TestDetectWinOverline(t *testing.T) {
	var b Board
	place(&b, MarkerB, run(4, 2, 0, 1, 6)...)
	line, ok := DetectWin(&b, 4, 4, MarkerB)
	if !ok {
		t.Fatalf("six in a row must win")
	}
	if len(line) != 6 {
		t.Fatalf("expected the whole run, got %d cells", len(line))
	}
}

func TestDetectWinReportsFirstAxis(t *testing.T) {
	var b Board
	place(&b, MarkerA, run(7, 3, 0, 1, 5)...)
	place(&b, MarkerA, run(3, 5, 1, 0, 5)...)
	line, ok := DetectWin(&b, 7, 5, MarkerA)
	if !ok {
		t.Fatalf("expected a win")
	}
	for _, m := range line {
		if m.Row != 7 {
			t.Fatalf("expected horizontal line to be reported first, got %v", line)
		}
	}
}

func TestDetectWinIgnoresInvalidInput(t *testing.T) {
	var b Board
	if _, ok := DetectWin(&b, -1, 0, MarkerA); ok {
		t.Fatalf("out of range cell cannot win")
	}
	if _, ok := DetectWin(&b, 0, 0, Empty); ok {
		t.Fatalf("empty marker cannot win")
	}
}

func TestFindWinner(t *testing.T) {
	var b Board
	place(&b, MarkerB, run(2, 10, 1, -1, 5)...)
	line, ok := FindWinner(&b, MarkerB)
	if !ok || len(line) != 5 {
		t.Fatalf("expected diagonal winner, got %v %v", line, ok)
	}
	if _, ok := FindWinner(&b, MarkerA); ok {
		t.Fatalf("marker without stones cannot win")
	}

	b.Set(1, 11, MarkerA)
	b.Set(7, 5, MarkerA)
	if _, ok := FindWinner(&b, MarkerB); ok {
		t.Fatalf("fully blocked run must not count")
	}
}
