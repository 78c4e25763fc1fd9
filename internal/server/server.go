// Package server exposes the dashboard state over HTTP and websocket.
package server

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"OrbWatch/internal/view"
	"OrbWatch/internal/view/pngchart"
)

// Refresher runs the manual refresh action.
type Refresher interface {
	UpdateData(ctx context.Context) error
}

// Server is the control server.
type Server struct {
	Addr string

	board     *view.Board
	refresher Refresher
	location  *time.Location
	engine    *gin.Engine
	httpSrv   *http.Server

	// websocket hub
	clients     map[*Client]struct{}
	broadcast   chan view.Snapshot
	register    chan *Client
	unregister  chan *Client
	quit        chan struct{}
	connections atomic.Int32
	unsubscribe func()
	stopOnce    sync.Once
}

// New creates the server and starts its websocket hub.
func New(addr string, board *view.Board, refresher Refresher, loc *time.Location) *Server {
	gin.SetMode(gin.ReleaseMode)
	if loc == nil {
		loc = time.Local
	}

	s := &Server{
		Addr:      addr,
		board:     board,
		refresher: refresher,
		location:  loc,
		engine:    gin.New(),
		clients:   make(map[*Client]struct{}),
		// buffered so board notifications never wait on the hub
		broadcast:  make(chan view.Snapshot, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
	}
	s.engine.Use(gin.LoggerWithWriter(log.Writer()), gin.Recovery())

	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	s.setupRoutes()
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go s.runHub()
	s.unsubscribe = board.Subscribe(s.publish)
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/state", s.getState)
	s.engine.POST("/api/refresh", s.postRefresh)
	s.engine.GET("/api/chart.png", s.getChart)

	s.engine.GET("/ws", s.handleWebSocket)
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe blocks until Shutdown is called. It returns nil at once if
// Shutdown already ran.
func (s *Server) ListenAndServe() error {
	log.Printf("[INFO] control server listening on %s", s.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and disconnects websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.unsubscribe()
		close(s.quit)
	})
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"connections":   s.connections.Load(),
		"latest_update": s.board.Snapshot().UpdatedAt,
	})
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, s.board.Snapshot())
}

func (s *Server) postRefresh(c *gin.Context) {
	if err := s.refresher.UpdateData(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (s *Server) getChart(c *gin.Context) {
	spec := s.board.Snapshot().Chart

	var buf bytes.Buffer
	err := pngchart.Render(&buf, spec, s.location, pngchart.DefaultWidth, pngchart.DefaultHeight)
	switch {
	case errors.Is(err, pngchart.ErrTooFewPoints):
		c.JSON(http.StatusNotFound, gin.H{"error": "No data available"})
		return
	case err != nil:
		log.Printf("[ERROR] render chart png: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
