package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrNoMove       = errors.New("no move available")
	ErrStaleMove    = errors.New("game changed while searching")
	ErrNoBot        = errors.New("ai mode requires a bot")
)

// Mover picks a move for marker on board. The board is a private copy.
type Mover interface {
	ChooseMove(ctx context.Context, board Board, marker Cell) (Move, bool)
}

type session struct {
	id         string
	game       *Game
	human      Cell
	next       Cell
	bot        Mover
	gen        uint64
	startedAt  time.Time
	endedAt    time.Time
	lastMoveAt time.Time
}

// View is a copy of a session that is safe to hand out.
type View struct {
	ID        string
	Mode      Mode
	Human     Cell
	AI        Cell
	Next      Cell
	State     State
	Winner    string
	StartedAt time.Time
	EndedAt   time.Time
}

// Manager keeps independent games keyed by id.
type Manager struct {
	mu        sync.RWMutex
	games     map[string]*session
	idleAfter time.Duration
	onFinish  func(View)
	now       func() time.Time
}

func NewManager(idleAfter time.Duration, onFinish func(View)) *Manager {
	return &Manager{
		games:     make(map[string]*session),
		idleAfter: idleAfter,
		onFinish:  onFinish,
		now:       time.Now,
	}
}

// Create starts a new game. For ModeVsAI, human is the human's marker and bot
// plays the other one; MarkerA always moves first.
func (m *Manager) Create(mode Mode, human Cell, bot Mover) (View, error) {
	var g *Game
	if mode == ModeVsAI {
		if bot == nil {
			return View{}, ErrNoBot
		}
		if !human.IsMarker() {
			return View{}, ErrInvalidMarker
		}
		g = NewAIGame(human.Opponent())
	} else {
		g = NewGame(ModePvP)
		human = Empty
		bot = nil
	}

	now := m.now()
	s := &session{
		id:         uuid.NewString(),
		game:       g,
		human:      human,
		next:       MarkerA,
		bot:        bot,
		startedAt:  now,
		lastMoveAt: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[s.id] = s
	return s.view(), nil
}

func (m *Manager) Get(id string) (View, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.games[id]
	if !ok {
		return View{}, false
	}
	return s.view(), true
}

// BotToMove reports whether the automated player should move next.
func (m *Manager) BotToMove(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.games[id]
	return ok && s.botToMove()
}

// Move applies a human move.
func (m *Manager) Move(id string, row, col int) (MoveResult, View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.games[id]
	if !ok {
		return MoveResult{}, View{}, ErrGameNotFound
	}
	if s.game.IsGameOver() {
		return MoveResult{}, s.view(), ErrGameOver
	}

	var (
		res MoveResult
		err error
	)
	if s.game.Mode() == ModeVsAI {
		if s.next != s.human {
			return MoveResult{}, s.view(), ErrNotYourTurn
		}
		res, err = s.game.ApplyMove(row, col, s.human)
		if err == nil {
			s.next = s.human.Opponent()
		}
	} else {
		res, err = s.game.ApplyMove(row, col, Empty)
		if err == nil {
			s.next = s.game.Turn()
		}
	}
	if err != nil {
		return MoveResult{}, s.view(), err
	}
	m.afterMove(s)
	return res, s.view(), nil
}

// PlayBot asks the session's bot for a move and applies it. The search runs
// without holding the manager lock.
func (m *Manager) PlayBot(ctx context.Context, id string) (MoveResult, View, error) {
	m.mu.RLock()
	s, ok := m.games[id]
	if !ok {
		m.mu.RUnlock()
		return MoveResult{}, View{}, ErrGameNotFound
	}
	if !s.botToMove() {
		v := s.view()
		m.mu.RUnlock()
		if v.State.IsGameOver {
			return MoveResult{}, v, ErrGameOver
		}
		return MoveResult{}, v, ErrNotYourTurn
	}
	board := s.game.Board()
	gen := s.gen
	marker := s.game.AIMarker()
	bot := s.bot
	m.mu.RUnlock()

	mv, found := bot.ChooseMove(ctx, board, marker)

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok = m.games[id]
	if !ok {
		return MoveResult{}, View{}, ErrGameNotFound
	}
	if s.gen != gen || !s.botToMove() {
		return MoveResult{}, s.view(), ErrStaleMove
	}
	if !found {
		return MoveResult{}, s.view(), ErrNoMove
	}
	res, err := s.game.ApplyMove(mv.Row, mv.Col, marker)
	if err != nil {
		return MoveResult{}, s.view(), err
	}
	s.next = s.human
	m.afterMove(s)
	return res, s.view(), nil
}

func (m *Manager) Reset(id string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.games[id]
	if !ok {
		return View{}, ErrGameNotFound
	}
	s.game.Reset()
	s.gen++
	s.next = MarkerA
	now := m.now()
	s.startedAt = now
	s.endedAt = time.Time{}
	s.lastMoveAt = now
	return s.view(), nil
}

func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Sweep drops sessions idle for longer than the idle window and returns how
// many were removed.
func (m *Manager) Sweep() int {
	if m.idleAfter <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for id, s := range m.games {
		if now.Sub(s.lastMoveAt) > m.idleAfter {
			delete(m.games, id)
			removed++
		}
	}
	return removed
}

// afterMove bumps gen so searches started before the move are discarded.
func (m *Manager) afterMove(s *session) {
	s.gen++
	s.lastMoveAt = m.now()
	if !s.game.IsGameOver() {
		return
	}
	s.endedAt = s.lastMoveAt
	if m.onFinish != nil {
		go m.onFinish(s.view())
	}
}

func (s *session) botToMove() bool {
	return s.bot != nil && !s.game.IsGameOver() && s.next == s.game.AIMarker()
}

func (s *session) view() View {
	return View{
		ID:        s.id,
		Mode:      s.game.Mode(),
		Human:     s.human,
		AI:        s.game.AIMarker(),
		Next:      s.next,
		State:     s.game.Snapshot(),
		Winner:    s.game.WinnerName(),
		StartedAt: s.startedAt,
		EndedAt:   s.endedAt,
	}
}
