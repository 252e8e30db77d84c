package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is handled by the CORS middleware on the REST
	// surface; the socket accepts any origin like the rest of the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is the inbound protocol: join_board, leave_board, join_user.
type clientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type boardRef struct {
	BoardID int64 `json:"boardId"`
}

// ServeConn upgrades the request and runs the connection until the client
// disconnects. userID is the authenticated principal; the user identity room
// is joined on connect, board rooms on explicit join_board messages.
func (h *Hub) ServeConn(w http.ResponseWriter, r *http.Request, userID int64) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[REALTIME] upgrade: %v", err)
		return
	}

	conn := h.Register(userID)
	go h.writeLoop(ws, conn)
	h.readLoop(r.Context(), ws, conn)
}

func (h *Hub) readLoop(ctx context.Context, ws *websocket.Conn, conn *Conn) {
	defer func() {
		h.Unregister(conn)
		ws.Close()
	}()

	ws.SetReadLimit(4096)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg clientMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[REALTIME] read: %v", err)
			}
			return
		}

		switch msg.Event {
		case "join_board":
			var ref boardRef
			if err := json.Unmarshal(msg.Data, &ref); err != nil {
				continue
			}
			if err := h.JoinBoard(ctx, conn, ref.BoardID); err != nil && !errors.Is(err, ErrAccessDenied) {
				log.Printf("[REALTIME] join_board: %v", err)
			}
		case "leave_board":
			var ref boardRef
			if err := json.Unmarshal(msg.Data, &ref); err != nil {
				continue
			}
			h.LeaveBoard(conn, ref.BoardID)
		case "join_user":
			// The identity room is joined at connect from the authenticated
			// principal; accepted for protocol compatibility.
		}
	}
}

func (h *Hub) writeLoop(ws *websocket.Conn, conn *Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case ev, ok := <-conn.Events():
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				ws.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := ws.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
