package api

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"bauernschach/engine"
	"bauernschach/game"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Server exposes one local game to a renderer over HTTP and websockets.
type Server struct {
	mu     sync.Mutex
	id     string
	engine *engine.Engine
	hub    *Hub
	router *gin.Engine
}

// NewServer serves e. hub should be the engine's notifier so that clients
// see every event.
func NewServer(e *engine.Engine, hub *Hub) *Server {
	s := &Server{
		id:     uuid.NewString(),
		engine: e,
		hub:    hub,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/ws", s.handleWS)
	r.GET("/state", s.handleState)
	r.GET("/moves", s.handleMoves)
	r.POST("/select", s.handleSelect)
	r.POST("/move", s.handleMove)
	r.POST("/end-turn", s.handleEndTurn)

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(addr string) error {
	s.mu.Lock()
	s.engine.Start()
	s.mu.Unlock()
	log.Info().Str("addr", addr).Str("session", s.id).Msg("serving game")
	return s.router.Run(addr)
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := s.hub.Upgrade(c)
	if err != nil {
		return
	}

	// Engine events are emitted under s.mu, so none can slip between the
	// greeting and the registration.
	s.mu.Lock()
	err = s.hub.Join(conn, s.engine.Snapshot())
	s.mu.Unlock()
	if err != nil {
		return
	}
	s.hub.Listen(conn)
}

func (s *Server) handleState(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"session": s.id, "state": s.engine.Snapshot()})
}

func (s *Server) handleMoves(c *gin.Context) {
	playerID := c.Query("playerId")
	if playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "playerId required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	moves := s.engine.LegalMoves(playerID)
	if moves == nil {
		moves = []game.Action{}
	}
	c.JSON(http.StatusOK, gin.H{"moves": moves})
}

func (s *Server) handleSelect(c *gin.Context) {
	var req struct {
		UnitID string `json:"unitId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UnitID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unitId required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	legal, err := s.engine.Select(req.UnitID)
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"legal": legal, "state": s.engine.Snapshot()})
}

func (s *Server) handleMove(c *gin.Context) {
	var req struct {
		Row *int `json:"row"`
		Col *int `json:"col"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Row == nil || req.Col == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "row and col required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.engine.Confirm(game.Cell{Row: *req.Row, Col: *req.Col})
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": out, "state": s.engine.Snapshot()})
}

func (s *Server) handleEndTurn(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.EndTurn(); err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": s.engine.Snapshot()})
}

func reject(c *gin.Context, err error) {
	status := http.StatusConflict
	if errors.Is(err, game.ErrUnknownUnit) {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
