package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"targetrange/internal/sessions"
	"targetrange/internal/targets"
	"targetrange/internal/wshub"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

const clientSendBuffer = 32

// handleWebSocket attaches a render surface to a session: it streams frames
// out and takes fire, shoot and pick input in.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("[WSHub] Accept error: %v\n", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := &wshub.Client{
		ID:   uuid.New().String(),
		Conn: conn,
		Send: make(chan []byte, clientSendBuffer),
	}
	sess.Hub.Register(client)
	defer sess.Hub.Unregister(client.ID)

	go client.WritePump(ctx)
	go func() {
		select {
		case <-sess.Done():
			conn.Close(websocket.StatusGoingAway, "session closed")
			cancel()
		case <-ctx.Done():
		}
	}()

	sess.Hub.SendTo(client.ID, wshub.ServerMessage{Type: wshub.TypeWelcome, ClientID: client.ID})

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var msg wshub.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sess.Hub.SendTo(client.ID, wshub.ServerMessage{Type: wshub.TypeError, Error: "invalid message"})
			continue
		}
		s.handleClientMessage(ctx, sess, client.ID, msg)
	}
}

func (s *Server) handleClientMessage(ctx context.Context, sess *sessions.Session, clientID string, msg wshub.ClientMessage) {
	reply := func(out wshub.ServerMessage) {
		sess.Hub.SendTo(clientID, out)
	}
	fail := func(err error) {
		reply(wshub.ServerMessage{Type: wshub.TypeError, Error: err.Error()})
	}

	switch msg.Type {
	case wshub.TypeFire:
		origin, direction, err := msg.Ray()
		if err != nil {
			fail(err)
			return
		}
		id, err := sess.Fire(ctx, origin, direction)
		if err != nil {
			fail(err)
			return
		}
		reply(wshub.ServerMessage{Type: wshub.TypeShot, ProjectileID: uint64(id)})

	case wshub.TypeShoot:
		origin, direction, err := msg.Ray()
		if err != nil {
			fail(err)
			return
		}
		res, err := sess.Shoot(ctx, origin, direction)
		if err != nil {
			fail(err)
			return
		}
		out := shotMessage(res)
		if res.Result == targets.Hit {
			sess.Hub.Broadcast(out)
		} else {
			reply(out)
		}

	case wshub.TypePick:
		res, score, err := sess.Pick(ctx, targets.ID(msg.TargetID))
		if err != nil {
			fail(err)
			return
		}
		out := wshub.ServerMessage{Type: wshub.TypeHit, TargetID: msg.TargetID, Result: res.String(), Score: score}
		if res == targets.Hit {
			sess.Hub.Broadcast(out)
		} else {
			reply(out)
		}

	default:
		reply(wshub.ServerMessage{Type: wshub.TypeError, Error: "unknown message type " + msg.Type})
	}
}
