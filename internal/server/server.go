package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/gomoku-core/fiveinrow/internal/analytics"
	"github.com/gomoku-core/fiveinrow/internal/game"
)

type Server struct {
	router        *gin.Engine
	manager       *game.Manager
	bot           game.Mover
	analytics     *analytics.Producer
	botDelay      time.Duration
	sweepInterval time.Duration
	subs          map[string]map[*wsClient]struct{}
	subMu         sync.RWMutex
}

type Config struct {
	BotDelay      time.Duration
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	Bot           game.Mover
	Analytics     *analytics.Producer
}

func New(cfg Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	s := &Server{
		router:        router,
		bot:           cfg.Bot,
		analytics:     cfg.Analytics,
		botDelay:      cfg.BotDelay,
		sweepInterval: cfg.SweepInterval,
		subs:          make(map[string]map[*wsClient]struct{}),
	}
	s.manager = game.NewManager(cfg.IdleTimeout, s.onFinish)

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.POST("/games", s.handleCreate)
	router.GET("/games/:id", s.handleGet)
	router.POST("/games/:id/moves", s.handleMove)
	router.POST("/games/:id/reset", s.handleReset)
	router.GET("/games/:id/cells/:row/:col", s.handleCell)
	router.GET("/ws", s.handleWS)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Manager() *game.Manager {
	return s.manager
}

// Sweep drops idle games until ctx is done.
func (s *Server) Sweep(ctx context.Context) {
	if s.sweepInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.manager.Sweep(); n > 0 {
				log.Info().Int("removed", n).Msg("swept idle games")
			}
		}
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

type createRequest struct {
	Mode   string `json:"mode"`
	Marker string `json:"marker"`
}

type moveRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type stateResponse struct {
	GameID       string      `json:"gameId"`
	Mode         string      `json:"mode"`
	Board        [][]string  `json:"board"`
	Next         string      `json:"next"`
	Human        string      `json:"human,omitempty"`
	AI           string      `json:"ai,omitempty"`
	IsGameOver   bool        `json:"isGameOver"`
	Winner       *string     `json:"winner"`
	WinnerMarker string      `json:"winnerMarker,omitempty"`
	IsDraw       bool        `json:"isDraw"`
	WinningLine  []game.Move `json:"winningLine"`
	Moves        int         `json:"moves"`
}

type moveResponse struct {
	Success     bool           `json:"success"`
	Error       string         `json:"error,omitempty"`
	Marker      string         `json:"marker,omitempty"`
	Position    *game.Move     `json:"position,omitempty"`
	IsGameOver  bool           `json:"isGameOver"`
	Winner      *string        `json:"winner"`
	IsDraw      bool           `json:"isDraw"`
	WinningLine []game.Move    `json:"winningLine"`
	State       *stateResponse `json:"state,omitempty"`
}

func toState(v game.View) stateResponse {
	st := v.State
	resp := stateResponse{
		GameID:      v.ID,
		Mode:        string(v.Mode),
		Board:       st.Board.Rows(),
		Next:        v.Next.String(),
		Human:       v.Human.String(),
		IsGameOver:  st.IsGameOver,
		IsDraw:      st.IsDraw,
		WinningLine: st.WinningLine,
		Moves:       st.Moves,
	}
	if v.Mode == game.ModeVsAI {
		resp.AI = v.AI.String()
	}
	if resp.WinningLine == nil {
		resp.WinningLine = []game.Move{}
	}
	if st.Winner != game.Empty {
		name := v.Winner
		resp.Winner = &name
		resp.WinnerMarker = st.Winner.String()
	}
	return resp
}

func toMove(res game.MoveResult, v game.View) moveResponse {
	pos := res.Position
	state := toState(v)
	resp := moveResponse{
		Success:     true,
		Marker:      res.Marker.String(),
		Position:    &pos,
		IsGameOver:  res.IsGameOver,
		IsDraw:      res.IsDraw,
		WinningLine: res.WinningLine,
		State:       &state,
	}
	if res.Winner != game.Empty {
		name := res.WinnerName
		resp.Winner = &name
	}
	return resp
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidCell), errors.Is(err, game.ErrInvalidMarker), errors.Is(err, game.ErrNoBot):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrOccupiedCell), errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrNotYourTurn):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	mode := game.ModePvP
	human := game.Empty
	var bot game.Mover
	if game.Mode(req.Mode) == game.ModeVsAI {
		mode = game.ModeVsAI
		bot = s.bot
		human = game.MarkerA
		if req.Marker != "" {
			m, err := game.ParseCell(req.Marker)
			if err != nil || m == game.Empty {
				c.JSON(http.StatusBadRequest, gin.H{"error": game.ErrInvalidMarker.Error()})
				return
			}
			human = m
		}
	}

	v, err := s.manager.Create(mode, human, bot)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	s.analytics.GameCreated(c.Request.Context(), v)
	c.JSON(http.StatusCreated, toState(v))
	s.maybeScheduleBot(v.ID)
}

func (s *Server) handleGet(c *gin.Context) {
	v, ok := s.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": game.ErrGameNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, toState(v))
}

func (s *Server) handleMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, moveResponse{Error: game.ErrInvalidCell.Error()})
		return
	}
	if req.Row == nil || req.Col == nil {
		c.JSON(http.StatusBadRequest, moveResponse{Error: game.ErrInvalidCell.Error()})
		return
	}
	resp, err := s.playMove(c.Request.Context(), c.Param("id"), *req.Row, *req.Col)
	if err != nil {
		c.JSON(statusFor(err), resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// playMove is shared by the HTTP and websocket paths.
func (s *Server) playMove(ctx context.Context, id string, row, col int) (moveResponse, error) {
	res, v, err := s.manager.Move(id, row, col)
	if err != nil {
		return moveResponse{Error: err.Error()}, err
	}
	s.analytics.MovePlayed(ctx, v, res)
	resp := toMove(res, v)
	s.broadcast(v.ID, gin.H{"type": "state", "move": resp})
	s.maybeScheduleBot(v.ID)
	return resp, nil
}

func (s *Server) handleReset(c *gin.Context) {
	v, err := s.resetGame(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toState(v))
}

func (s *Server) resetGame(id string) (game.View, error) {
	v, err := s.manager.Reset(id)
	if err != nil {
		return game.View{}, err
	}
	s.broadcast(v.ID, gin.H{"type": "reset", "state": toState(v)})
	s.maybeScheduleBot(v.ID)
	return v, nil
}

func (s *Server) handleCell(c *gin.Context) {
	v, ok := s.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": game.ErrGameNotFound.Error()})
		return
	}
	row, errRow := strconv.Atoi(c.Param("row"))
	col, errCol := strconv.Atoi(c.Param("col"))
	if errRow != nil || errCol != nil || !game.IsValidPosition(row, col) {
		c.JSON(http.StatusOK, gin.H{"valid": false, "value": ""})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "value": v.State.Board.At(row, col).String()})
}

// maybeScheduleBot plays the automated reply after the configured delay.
func (s *Server) maybeScheduleBot(id string) {
	if !s.manager.BotToMove(id) {
		return
	}
	time.AfterFunc(s.botDelay, func() {
		ctx := context.Background()
		res, v, err := s.manager.PlayBot(ctx, id)
		if err != nil {
			if errors.Is(err, game.ErrStaleMove) || errors.Is(err, game.ErrGameNotFound) {
				log.Debug().Err(err).Str("gameId", id).Msg("bot move discarded")
				return
			}
			log.Error().Err(err).Str("gameId", id).Msg("bot move failed")
			return
		}
		s.analytics.MovePlayed(ctx, v, res)
		s.broadcast(v.ID, gin.H{"type": "state", "move": toMove(res, v)})
	})
}

func (s *Server) onFinish(v game.View) {
	log.Info().
		Str("gameId", v.ID).
		Str("winner", v.Winner).
		Bool("draw", v.State.IsDraw).
		Int("moves", v.State.Moves).
		Msg("game finished")
	s.analytics.GameFinished(context.Background(), v)
}
