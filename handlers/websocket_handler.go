package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Dosada05/focus-tools/brackets"
	"github.com/Dosada05/focus-tools/services"
)

// SessionLookup returns the live update event type and current state of a
// session, or an error when no such session exists.
type SessionLookup func(ctx context.Context, kind, sessionID string) (string, interface{}, error)

type WebSocketHandler struct {
	hub      *brackets.Hub
	lookup   SessionLookup
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler builds the live feed endpoint. allowedOrigins is the
// CORS origin list; "*" accepts any origin.
func NewWebSocketHandler(hub *brackets.Hub, lookup SessionLookup, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:    hub,
		lookup: lookup,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
		logger: logger,
	}
}

// ServicesLookup checks sessions against the tournament and challenge services.
func ServicesLookup(ts services.TournamentService, cs services.ChallengeService) SessionLookup {
	return func(ctx context.Context, kind, sessionID string) (string, interface{}, error) {
		switch kind {
		case services.TournamentRoomKind:
			tournament, err := ts.GetTournament(ctx, sessionID)
			return services.EventTournamentUpdated, tournament, err
		case services.ChallengeRoomKind:
			challenge, err := cs.GetChallenge(ctx, sessionID)
			return services.EventChallengeUpdated, challenge, err
		}
		return "", nil, services.ErrSessionNotFound
	}
}

// ServeWs handles GET /ws/{kind}/{sessionID}. The client joins the room of
// that session and receives every update published to it.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	id, err := sessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, _, err := h.lookup(r.Context(), kind, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		h.logger.Warn("websocket upgrade failed", slog.String("kind", kind), slog.String("session_id", id), slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: brackets.RoomID(kind, id),
	}
	if !h.hub.Join(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	// Observers start from the current state. It is read after joining so
	// no update is missed; an update racing the read can still arrive first,
	// and clients drop whichever view has the lower version.
	eventType, current, err := h.lookup(r.Context(), kind, id)
	if err != nil {
		// deleted between the check and the join; the room is already closed
		h.hub.Leave(client)
		return
	}
	client.Deliver(brackets.WebSocketMessage{Type: eventType, Payload: current, RoomID: client.Room})

	h.logger.Debug("websocket client joined", slog.String("room", client.Room), slog.Int("observers", h.hub.RoomSize(client.Room)))
}
