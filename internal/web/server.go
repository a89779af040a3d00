package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/soundvista/soundvista/internal/export"
	"github.com/soundvista/soundvista/internal/features"
	"github.com/soundvista/soundvista/internal/pattern"
	"github.com/soundvista/soundvista/internal/postfx"
	"github.com/soundvista/soundvista/internal/session"
)

// Controller is the part of a running session the control server drives.
type Controller interface {
	Features() features.Vector
	Perf() session.Metrics
	RenderConfig() pattern.Config
	SetRenderConfig(pattern.Config)
	EffectsConfig() postfx.Config
	SetEffectsConfig(postfx.Config)
	ExportSnapshot(export.Request) (export.Result, error)
}

// Server exposes the session over HTTP: status and config endpoints plus a
// websocket that streams the feature vector to connected clients.
type Server struct {
	mu        sync.RWMutex
	ctrl      Controller
	log       *log.Logger
	mux       *http.ServeMux
	clients   map[*websocketClient]bool
	broadcast chan []byte
	upgrader  websocket.Upgrader
	quit      chan struct{}
	stopOnce  sync.Once
}

type websocketClient struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
}

type StatusResponse struct {
	FPS      float64            `json:"fps"`
	StageMs  map[string]float64 `json:"stageMs"`
	Features features.Vector    `json:"features"`
	Render   pattern.Config     `json:"render"`
	Effects  postfx.Config      `json:"effects"`
}

// UpdateRequest carries a partial config change; nil fields keep their
// current value. Effects replace wholesale since every stage carries its
// own Enabled flag.
type UpdateRequest struct {
	Style             *string         `json:"style,omitempty"`
	Palette           *string         `json:"palette,omitempty"`
	Sensitivity       *float64        `json:"sensitivity,omitempty"`
	Smoothing         *float64        `json:"smoothing,omitempty"`
	Scale             *float64        `json:"scale,omitempty"`
	Speed             *float64        `json:"speed,omitempty"`
	BackgroundOpacity *float64        `json:"backgroundOpacity,omitempty"`
	Effects           *postfx.Config  `json:"effects,omitempty"`
}

type ExportRequest struct {
	Format      string  `json:"format"`
	Quality     float64 `json:"quality"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	SuperSample int     `json:"superSample"`
}

func NewServer(ctrl Controller, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stdout, "[web] ", log.LstdFlags)
	}
	s := &Server{
		ctrl:      ctrl,
		log:       logger,
		mux:       http.NewServeMux(),
		clients:   make(map[*websocketClient]bool),
		broadcast: make(chan []byte, 256),
		quit:      make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/api/config", s.handleConfig)
	s.mux.HandleFunc("/api/export", s.handleExport)
	s.mux.HandleFunc("/api/styles", s.handleStyles)
	s.mux.HandleFunc("/api/palettes", s.handlePalettes)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	return s
}

// Handler returns the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until the listener fails. It also begins broadcasting
// feature frames to websocket clients.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.log.Printf("control server on http://0.0.0.0%s", addr)

	go s.broadcastLoop()
	go s.featureLoop()

	return http.ListenAndServe(addr, s.mux)
}

// Stop terminates the broadcast and feature goroutines. Safe to call more
// than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	perf := s.ctrl.Perf()
	status := StatusResponse{
		FPS:      perf.AverageFPS,
		StageMs:  perf.StageMs,
		Features: s.ctrl.Features(),
		Render:   s.ctrl.RenderConfig(),
		Effects:  s.ctrl.EffectsConfig(),
	}
	writeJSON(w, status)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg := s.ctrl.RenderConfig()
	if req.Style != nil {
		cfg.Style = pattern.ParseStyle(*req.Style)
	}
	if req.Palette != nil {
		cfg.ColorPalette = *req.Palette
	}
	if req.Sensitivity != nil {
		cfg.Sensitivity = *req.Sensitivity
	}
	if req.Smoothing != nil {
		cfg.Smoothing = *req.Smoothing
	}
	if req.Scale != nil {
		cfg.Scale = *req.Scale
	}
	if req.Speed != nil {
		cfg.Speed = *req.Speed
	}
	if req.BackgroundOpacity != nil {
		cfg.BackgroundOpacity = *req.BackgroundOpacity
	}
	s.ctrl.SetRenderConfig(cfg)

	if req.Effects != nil {
		s.ctrl.SetEffectsConfig(*req.Effects)
	}

	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := s.ctrl.ExportSnapshot(export.Request{
		Format:      format,
		Quality:     req.Quality,
		Width:       req.Width,
		Height:      req.Height,
		SuperSample: req.SuperSample,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Write(res.Data)
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, pattern.StyleNames())
}

func (s *Server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, pattern.Names())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("websocket upgrade error: %v", err)
		return
	}

	client := &websocketClient{
		conn:   conn,
		send:   make(chan []byte, 256),
		server: s,
	}

	s.mu.Lock()
	s.clients[client] = true
	s.mu.Unlock()

	go client.writePump()
	go client.readPump()
}

func (s *Server) broadcastLoop() {
	for {
		select {
		case <-s.quit:
			return
		case message := <-s.broadcast:
			s.dispatch(message)
		}
	}
}

// dispatch fans a message out to all clients. Clients with a full send
// buffer are stale; they are collected under the read lock and removed
// under the write lock, since deleting from the map under RLock would race
// with concurrent readers.
func (s *Server) dispatch(message []byte) {
	var stale []*websocketClient
	s.mu.RLock()
	for client := range s.clients {
		select {
		case client.send <- message:
		default:
			stale = append(stale, client)
		}
	}
	s.mu.RUnlock()

	if len(stale) == 0 {
		return
	}
	s.mu.Lock()
	for _, client := range stale {
		if s.clients[client] {
			close(client.send)
			delete(s.clients, client)
		}
	}
	s.mu.Unlock()
}

// featureLoop pushes the live feature vector to websocket clients at a
// modest rate so a browser dashboard can animate without polling.
func (s *Server) featureLoop() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
		}

		s.mu.RLock()
		idle := len(s.clients) == 0
		s.mu.RUnlock()
		if idle {
			continue
		}

		data, err := json.Marshal(s.ctrl.Features())
		if err != nil {
			continue
		}
		select {
		case s.broadcast <- data:
		default:
		}
	}
}

func (c *websocketClient) readPump() {
	defer func() {
		c.server.mu.Lock()
		delete(c.server.clients, c)
		c.server.mu.Unlock()
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *websocketClient) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
