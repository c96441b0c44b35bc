package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/dykim-dev/matchboard/brackets"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it is deployed.
		return true
	},
}

type WebSocketHandler struct {
	hub    *brackets.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *brackets.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeBracket subscribes the connection to one bracket's live updates.
// Clients connect to /ws/brackets/{bracketID}.
func (h *WebSocketHandler) ServeBracket(w http.ResponseWriter, r *http.Request) {
	bracketID := chi.URLParam(r, "bracketID")
	if bracketID == "" {
		http.Error(w, "missing bracketID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.Warn("websocket upgrade failed",
			slog.String("bracket_id", bracketID), slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: bracketID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
