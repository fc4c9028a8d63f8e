package ai

import (
	"testing"

	"github.com/gomoku-core/fiveinrow/internal/game"
)

// minimax is an unpruned reference search over the same move generator.
func minimax(b game.Board, depth int, maximizing bool, perspective game.Cell) int {
	if _, won := game.FindWinner(&b, perspective); won {
		return WinScore
	}
	if _, won := game.FindWinner(&b, perspective.Opponent()); won {
		return -WinScore
	}
	if depth == 0 {
		return Evaluate(&b, perspective)
	}
	mover := perspective
	if !maximizing {
		mover = perspective.Opponent()
	}
	moves := CandidateMoves(&b, game.Empty)
	if len(moves) == 0 {
		return 0
	}
	best := posInf
	if maximizing {
		best = negInf
	}
	for _, mv := range moves {
		child := b
		child[mv.Row][mv.Col] = mover
		score := minimax(child, depth-1, !maximizing, perspective)
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}

func cornerPosition() game.Board {
	var b game.Board
	b.Set(0, 0, x)
	b.Set(1, 1, o)
	b.Set(0, 1, x)
	b.Set(2, 2, o)
	return b
}

func TestEngineTakesImmediateWin(t *testing.T) {
	var b game.Board
	for c := 7; c <= 10; c++ {
		b.Set(7, c, x)
	}
	b.Set(6, 7, o)
	b.Set(8, 8, o)
	b.Set(6, 9, o)

	d := NewEngine(WithDepth(1)).Analyze(b, x)
	if !d.Found {
		t.Fatalf("expected a move")
	}
	if d.Move != (game.Move{Row: 7, Col: 6}) && d.Move != (game.Move{Row: 7, Col: 11}) {
		t.Fatalf("expected a winning move, got %v", d.Move)
	}
	if d.Score != WinScore {
		t.Fatalf("expected win score, got %d", d.Score)
	}
}

func TestEngineBlocksFour(t *testing.T) {
	var b game.Board
	for c := 7; c <= 10; c++ {
		b.Set(7, c, o)
	}
	b.Set(7, 6, x)

	mv, ok := NewEngine(WithDepth(1)).BestMove(b, x)
	if !ok {
		t.Fatalf("expected a move")
	}
	if mv != (game.Move{Row: 7, Col: 11}) {
		t.Fatalf("expected block at (7,11), got %v", mv)
	}
}

// An open four cannot be stopped, but the engine still answers at one end.
func TestEngineBlocksOpenFour(t *testing.T) {
	var b game.Board
	for c := 7; c <= 10; c++ {
		b.Set(7, c, o)
	}
	b.Set(2, 2, x)

	mv, ok := NewEngine(WithDepth(1)).BestMove(b, x)
	if !ok {
		t.Fatalf("expected a move")
	}
	if mv != (game.Move{Row: 7, Col: 6}) && mv != (game.Move{Row: 7, Col: 11}) {
		t.Fatalf("expected a block at either end, got %v", mv)
	}
}

func TestEngineEmptyBoard(t *testing.T) {
	var b game.Board
	mv, ok := NewEngine(WithDepth(1)).BestMove(b, o)
	if !ok {
		t.Fatalf("expected a move on an empty board")
	}
	for _, open := range OpeningMoves {
		if mv == open {
			return
		}
	}
	t.Fatalf("expected an opening move, got %v", mv)
}

func TestEngineFullBoard(t *testing.T) {
	var b game.Board
	for r := 0; r < game.Size; r++ {
		for c := 0; c < game.Size; c++ {
			if (c/2+r)%2 == 0 {
				b[r][c] = x
			} else {
				b[r][c] = o
			}
		}
	}
	if _, ok := NewEngine().BestMove(b, x); ok {
		t.Fatalf("full board has no move")
	}
}

func TestEngineRejectsEmptyMarker(t *testing.T) {
	b := cornerPosition()
	if d := NewEngine().Analyze(b, game.Empty); d.Found {
		t.Fatalf("empty marker must not produce a move")
	}
}

func TestEngineMoveOnFinishedBoard(t *testing.T) {
	var b game.Board
	for c := 0; c < 5; c++ {
		b.Set(4, c, x)
	}
	d := NewEngine(WithDepth(1)).Analyze(b, x)
	if !d.Found || d.Score != WinScore {
		t.Fatalf("expected a move scored as a win, got %+v", d)
	}
	if b[d.Move.Row][d.Move.Col] != game.Empty {
		t.Fatalf("move %v is occupied", d.Move)
	}
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	b := cornerPosition()
	const depth = 2

	want := negInf
	for _, mv := range CandidateMoves(&b, game.Empty) {
		child := b
		child[mv.Row][mv.Col] = x
		want = max(want, minimax(child, depth, false, x))
	}

	for _, cache := range []bool{false, true} {
		d := NewEngine(WithCache(cache)).AnalyzeDepth(b, x, depth)
		if d.Score != want {
			t.Fatalf("cache=%v: expected root score %d, got %d", cache, want, d.Score)
		}
	}
}

func TestScoreMatchesMinimax(t *testing.T) {
	b := cornerPosition()
	b.Set(3, 3, x)
	for _, maximizing := range []bool{true, false} {
		want := minimax(b, 2, maximizing, o)
		if got := NewEngine().Score(b, 2, maximizing, o); got != want {
			t.Fatalf("maximizing=%v: expected %d, got %d", maximizing, want, got)
		}
	}
}

func TestParallelRootMatchesSequential(t *testing.T) {
	b := cornerPosition()
	seq := NewEngine(WithDepth(2), WithWorkers(1)).Analyze(b, o)
	par := NewEngine(WithDepth(2), WithWorkers(4)).Analyze(b, o)
	if seq.Move != par.Move || seq.Score != par.Score {
		t.Fatalf("parallel %v/%d differs from sequential %v/%d", par.Move, par.Score, seq.Move, seq.Score)
	}
	if par.Nodes == 0 {
		t.Fatalf("expected node count")
	}
}

func TestCacheDoesNotChangeDecision(t *testing.T) {
	b := cornerPosition()
	b.Set(3, 1, x)
	off := NewEngine(WithDepth(2), WithCache(false)).Analyze(b, o)
	on := NewEngine(WithDepth(2), WithCache(true)).Analyze(b, o)
	if off.Move != on.Move || off.Score != on.Score {
		t.Fatalf("cached %v/%d differs from uncached %v/%d", on.Move, on.Score, off.Move, off.Score)
	}
	if off.CacheHits != 0 {
		t.Fatalf("uncached search reported cache hits")
	}
}

func TestAnalyzeDoesNotMutateBoard(t *testing.T) {
	b := cornerPosition()
	before := b
	NewEngine(WithDepth(2)).Analyze(b, x)
	if b != before {
		t.Fatalf("search must work on copies")
	}
}

func TestNewEngineClampsDepth(t *testing.T) {
	if d := NewEngine(WithDepth(99)).Depth(); d != MaxDepth {
		t.Fatalf("expected depth %d, got %d", MaxDepth, d)
	}
	if d := NewEngine(WithDepth(-3)).Depth(); d != 0 {
		t.Fatalf("expected depth 0, got %d", d)
	}
	if d := NewEngine().Depth(); d != DefaultDepth {
		t.Fatalf("expected default depth %d, got %d", DefaultDepth, d)
	}
}
