package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	redrepo "github.com/yash0834/lovelane-cloudinary-api/internal/repo/redis"
	profilesvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/profiles"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	readLimit  = 1024
)

type EventSubscriber interface {
	Subscribe(ctx context.Context, userID string) (*redrepo.Subscription, error)
}

// EventsHandler streams a user's change notifications over a WebSocket.
// Clients only receive; anything they send is discarded.
type EventsHandler struct {
	profiles   *profilesvc.Service
	subscriber EventSubscriber
	upgrader   websocket.Upgrader
	log        *zap.Logger
}

func NewEventsHandler(profiles *profilesvc.Service, subscriber EventSubscriber, allowedOrigins []string, log *zap.Logger) *EventsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventsHandler{
		profiles:   profiles,
		subscriber: subscriber,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log,
	}
}

func (h *EventsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil || h.subscriber == nil {
		writeInternal(w, "EVENTS_UNAVAILABLE", "event stream is unavailable")
		return
	}

	userID := chi.URLParam(r, "id")
	if _, err := h.profiles.Get(r.Context(), userID); err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		return
	}

	// The subscription must outlive the request timeout middleware.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	sub, err := h.subscriber.Subscribe(ctx, userID)
	if err != nil {
		h.log.Warn("subscribe to events failed", zap.String("user_id", userID), zap.Error(err))
		writeInternal(w, "EVENTS_UNAVAILABLE", "event stream is unavailable")
		return
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	go readUntilClosed(conn, cancel)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case evt, ok := <-sub.Events():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readUntilClosed(conn *websocket.Conn, done context.CancelFunc) {
	defer done()
	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		if origin != "" {
			set[strings.ToLower(origin)] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}
