package ai

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gomoku-core/fiveinrow/internal/game"
)

const (
	WinScore = 1000000

	// DefaultDepth counts the plies searched below the root move.
	DefaultDepth = 2
	MaxDepth     = 4

	negInf = math.MinInt32
	posInf = math.MaxInt32
)

type Options struct {
	Depth    int
	Workers  int
	UseCache bool
}

type Option func(*Options)

func WithDepth(depth int) Option {
	return func(o *Options) { o.Depth = depth }
}

// WithWorkers searches root candidates on up to n goroutines. n <= 0 uses
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.Workers = n
	}
}

func WithCache(enabled bool) Option {
	return func(o *Options) { o.UseCache = enabled }
}

// Engine chooses moves with depth-bounded minimax and alpha-beta pruning.
// An Engine holds no mutable state and may be shared between goroutines.
type Engine struct {
	opts Options
}

func NewEngine(opts ...Option) *Engine {
	o := Options{Depth: DefaultDepth, Workers: 1, UseCache: true}
	for _, apply := range opts {
		apply(&o)
	}
	if o.Depth < 0 {
		o.Depth = 0
	}
	if o.Depth > MaxDepth {
		o.Depth = MaxDepth
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return &Engine{opts: o}
}

func (e *Engine) Depth() int { return e.opts.Depth }

type Decision struct {
	Move      game.Move
	Score     int
	Found     bool
	Nodes     int64
	CacheHits int64
	Elapsed   time.Duration
}

func (e *Engine) BestMove(b game.Board, ai game.Cell) (game.Move, bool) {
	d := e.Analyze(b, ai)
	return d.Move, d.Found
}

func (e *Engine) Analyze(b game.Board, ai game.Cell) Decision {
	return e.AnalyzeDepth(b, ai, e.opts.Depth)
}

// AnalyzeDepth tries every ordered candidate for ai and keeps the first
// strictly best score. The transposition cache lives for this call only.
func (e *Engine) AnalyzeDepth(b game.Board, ai game.Cell, depth int) Decision {
	start := time.Now()
	if !ai.IsMarker() {
		return Decision{}
	}
	if depth < 0 {
		depth = 0
	}
	s := e.newSearcher()
	moves := CandidateMoves(&b, ai)
	hash := Hash(&b)

	var d Decision
	if e.opts.Workers > 1 && len(moves) > 1 {
		d = s.rootParallel(&b, hash, moves, depth, ai, e.opts.Workers)
	} else {
		d = s.root(&b, hash, moves, depth, ai)
	}
	d.Nodes = s.nodes.Load()
	if s.cache != nil {
		d.CacheHits = s.cache.Hits()
	}
	d.Elapsed = time.Since(start)
	return d
}

// Score runs a full-window search of b.
func (e *Engine) Score(b game.Board, depth int, maximizing bool, perspective game.Cell) int {
	s := e.newSearcher()
	return s.search(&b, Hash(&b), depth, negInf, posInf, maximizing, perspective)
}

func (e *Engine) newSearcher() *searcher {
	s := &searcher{}
	if e.opts.UseCache {
		s.cache = NewCache()
	}
	return s
}

type searcher struct {
	cache *Cache
	nodes atomic.Int64
}

func (s *searcher) root(b *game.Board, hash uint64, moves []game.Move, depth int, ai game.Cell) Decision {
	d := Decision{Score: negInf}
	alpha := negInf
	for _, mv := range moves {
		child := *b
		child[mv.Row][mv.Col] = ai
		score := s.search(&child, hash^stoneKey(mv.Row, mv.Col, ai), depth, alpha, posInf, false, ai)
		if score > d.Score {
			d.Score = score
			d.Move = mv
			d.Found = true
		}
		alpha = max(alpha, d.Score)
	}
	return d
}

// rootParallel scores each root candidate on its own cloned board with a full
// window, so the pick matches the sequential root.
func (s *searcher) rootParallel(b *game.Board, hash uint64, moves []game.Move, depth int, ai game.Cell, workers int) Decision {
	scores := make([]int, len(moves))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(workers, len(moves)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				mv := moves[i]
				child := *b
				child[mv.Row][mv.Col] = ai
				scores[i] = s.search(&child, hash^stoneKey(mv.Row, mv.Col, ai), depth, negInf, posInf, false, ai)
			}
		}()
	}
	for i := range moves {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	d := Decision{Score: negInf}
	for i, score := range scores {
		if score > d.Score {
			d.Score = score
			d.Move = moves[i]
			d.Found = true
		}
	}
	return d
}

func (s *searcher) search(b *game.Board, hash uint64, depth, alpha, beta int, maximizing bool, perspective game.Cell) int {
	s.nodes.Add(1)
	opp := perspective.Opponent()
	if _, won := game.FindWinner(b, perspective); won {
		return WinScore
	}
	if _, won := game.FindWinner(b, opp); won {
		return -WinScore
	}
	if depth == 0 {
		return Evaluate(b, perspective)
	}

	key := cacheKey{hash: hash, depth: depth, maximizing: maximizing, perspective: perspective}
	if s.cache != nil {
		if v, ok := s.cache.probe(key, alpha, beta); ok {
			return v
		}
	}

	mover := perspective
	if !maximizing {
		mover = opp
	}
	moves := CandidateMoves(b, mover)
	if len(moves) == 0 {
		return 0
	}

	origAlpha, origBeta := alpha, beta
	best := posInf
	if maximizing {
		best = negInf
	}
	for _, mv := range moves {
		child := *b
		child[mv.Row][mv.Col] = mover
		score := s.search(&child, hash^stoneKey(mv.Row, mv.Col, mover), depth-1, alpha, beta, !maximizing, perspective)
		if maximizing {
			best = max(best, score)
			alpha = max(alpha, best)
		} else {
			best = min(best, score)
			beta = min(beta, best)
		}
		if beta <= alpha {
			break
		}
	}

	if s.cache != nil {
		flag := boundExact
		switch {
		case best <= origAlpha:
			flag = boundUpper
		case best >= origBeta:
			flag = boundLower
		}
		s.cache.store(key, best, flag)
	}
	return best
}
