package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/rutamapa/rutamapa/internal/core/domain"
	"github.com/rutamapa/rutamapa/internal/core/usecases"
	"github.com/rutamapa/rutamapa/internal/pkg/metrics"
)

// surfaceMessage is one camera or layer command pushed to the client.
type surfaceMessage struct {
	Type    string                   `json:"type"` // "flyTo" | "fitBounds" | "routes" | "markers"
	FlyTo   *domain.FlyToCommand     `json:"fly_to,omitempty"`
	Fit     *domain.FitBoundsCommand `json:"fit_bounds,omitempty"`
	Routes  []domain.StyledRoute     `json:"routes,omitempty"`
	Markers []domain.MarkerEntity    `json:"markers,omitempty"`
}

// wsSurface adapts a websocket connection to the rendering surface port.
// Writes are serialized; the session may push from its own goroutine while
// the keep-alive ticker pings.
type wsSurface struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsSurface) send(msg surfaceMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *wsSurface) FlyTo(cmd domain.FlyToCommand) error {
	return w.send(surfaceMessage{Type: "flyTo", FlyTo: &cmd})
}

func (w *wsSurface) FitBounds(cmd domain.FitBoundsCommand) error {
	return w.send(surfaceMessage{Type: "fitBounds", Fit: &cmd})
}

func (w *wsSurface) RenderRoutes(routes []domain.StyledRoute) error {
	return w.send(surfaceMessage{Type: "routes", Routes: routes})
}

func (w *wsSurface) RenderMarkers(markers []domain.MarkerEntity) error {
	return w.send(surfaceMessage{Type: "markers", Markers: markers})
}

func (w *wsSurface) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.PingMessage, nil)
}

func (w *wsSurface) writeError(msg string) {
	data, _ := json.Marshal(map[string]string{"error": msg})
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.WriteMessage(websocket.TextMessage, data)
}

// decodeSurfaceIntent parses and validates one inbound surface message.
// Surface clients speak the same intent DTO as the REST intent endpoint,
// so the same kind whitelist and coordinate ranges apply; route results
// and location sets never arrive over the socket.
func decodeSurfaceIntent(msg []byte) (domain.Intent, error) {
	var req intentRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return domain.Intent{}, errors.New("invalid JSON")
	}
	if err := validate.Struct(req); err != nil {
		return domain.Intent{}, err
	}
	return req.toDomain(), nil
}

// SessionSocketHandler attaches a websocket client as the rendering surface
// of its session. Camera and layer commands flow down; intents (move
// frames, clicks) flow up as JSON messages.
func SessionSocketHandler(sessions *usecases.SessionManager) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		id, _ := c.Locals("session_id").(string)
		session, ok := sessions.Get(id)
		if !ok {
			data, _ := json.Marshal(map[string]string{"error": "session not found"})
			_ = c.WriteMessage(websocket.TextMessage, data)
			return
		}

		log := slog.Default().With("session_id", id, "remote", c.RemoteAddr().String())
		log.Info("surface connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		surface := &wsSurface{conn: c}
		session.AttachSurface(surface)
		defer session.DetachSurface()

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := surface.ping(); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			intent, err := decodeSurfaceIntent(msg)
			if err != nil {
				surface.writeError(err.Error())
				continue
			}
			if err := session.Apply(context.Background(), intent); err != nil {
				surface.writeError(err.Error())
			}
		}

		log.Info("surface disconnected")
	}
}
