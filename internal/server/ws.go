package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gomoku-core/fiveinrow/internal/game"
)

type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
	gameID string
}

type wsMessage struct {
	Type string `json:"type"`
	Row  *int   `json:"row"`
	Col  *int   `json:"col"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) handleWS(c *gin.Context) {
	gameID := c.Query("gameId")
	v, ok := s.manager.Get(gameID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": game.ErrGameNotFound.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := &wsClient{
		conn:   conn,
		send:   make(chan []byte, 16),
		server: s,
		gameID: gameID,
	}
	s.register(client)
	client.sendJSON(gin.H{"type": "init", "state": toState(v)})

	go client.writePump()
	go client.readPump()
}

func (s *Server) register(c *wsClient) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	set, ok := s.subs[c.gameID]
	if !ok {
		set = make(map[*wsClient]struct{})
		s.subs[c.gameID] = set
	}
	set[c] = struct{}{}
}

func (s *Server) unregister(c *wsClient) {
	s.subMu.Lock()
	if set, ok := s.subs[c.gameID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(s.subs, c.gameID)
		}
	}
	s.subMu.Unlock()
	close(c.send)
	c.conn.Close()
}

func (s *Server) broadcast(gameID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("encode broadcast")
		return
	}
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for client := range s.subs[gameID] {
		select {
		case client.send <- data:
		default:
		}
	}
}

func (c *wsClient) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Debug().Err(err).Str("gameId", c.gameID).Msg("websocket write failed")
			c.conn.Close()
			return
		}
	}
}

func (c *wsClient) readPump() {
	defer c.server.unregister(c)
	s := c.server
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "move":
			if msg.Row == nil || msg.Col == nil {
				c.sendJSON(gin.H{"type": "error", "message": game.ErrInvalidCell.Error()})
				continue
			}
			if _, err := s.playMove(context.Background(), c.gameID, *msg.Row, *msg.Col); err != nil {
				c.sendJSON(gin.H{"type": "error", "message": err.Error()})
			}
		case "reset":
			if _, err := s.resetGame(c.gameID); err != nil {
				c.sendJSON(gin.H{"type": "error", "message": err.Error()})
			}
		}
	}
}

// sendJSON must only be called while c is registered.
func (c *wsClient) sendJSON(v any) {
	data, _ := json.Marshal(v)
	select {
	case c.send <- data:
	default:
	}
}
