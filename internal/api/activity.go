package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"

	"github.com/parvagarwal/hireagent/internal/agent"
)

const websocketWriteTimeout = 10 * time.Second

// ActivityHandler streams agent activity events over a websocket so the HR
// dashboard can watch runs and approvals live.
type ActivityHandler struct {
	broker         *agent.Broker
	originPatterns []string
}

// NewActivityHandler creates an activity feed handler. originPatterns follows
// websocket.AcceptOptions semantics; an empty list allows any origin.
func NewActivityHandler(broker *agent.Broker, originPatterns []string) *ActivityHandler {
	if len(originPatterns) == 0 {
		originPatterns = []string{"*"}
	}
	return &ActivityHandler{broker: broker, originPatterns: originPatterns}
}

// RegisterRoutes registers the websocket route.
func (h *ActivityHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/activity", h.ServeHTTP)
}

// ServeHTTP upgrades the connection and forwards broker events until the
// client disconnects.
func (h *ActivityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "ip", r.RemoteAddr)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "feed closed"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	slog.Info("Activity feed subscriber connected", "ip", r.RemoteAddr)

	events, cancel := h.broker.Subscribe()
	defer cancel()

	ctx := r.Context()

	// Drain client frames so pings are answered and closure is noticed.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := ws.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-readDone:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := h.writeEvent(ctx, ws, ev); err != nil {
				slog.Debug("Activity feed write failed", "error", err)
				return
			}
		}
	}
}

func (h *ActivityHandler) writeEvent(ctx context.Context, ws *websocket.Conn, ev agent.Event) error {
	writeCtx, cancel := context.WithTimeout(ctx, websocketWriteTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, ws, ev)
}
