// Package ws bridges websocket connections to game sessions: one bridge
// per connection, translating transport frames into the session's action
// vocabulary and notifications back into wire frames.
package ws

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/tsanfield/stackpot-backend/internal/game"
	"github.com/tsanfield/stackpot-backend/internal/logger"
	"github.com/tsanfield/stackpot-backend/internal/monitor"
	"github.com/tsanfield/stackpot-backend/internal/registry"
)

const (
	outboxSize   = 8
	writeTimeout = 3 * time.Second
)

// Handler upgrades the connection, resolves the session by code and runs
// a bridge for the lifetime of the connection.
func Handler(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *game.Session, 1)
		reg.Inbox() <- registry.Lookup{Code: code, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		monitor.PlayerConnected()
		defer monitor.PlayerDisconnected()

		b := newBridge(conn, sess)
		b.run(r.Context())
	}
}

// Bridge holds the per-connection state: the session handle, the outbox
// the session writes notifications to, and the player id learned from the
// session's register message.
type Bridge struct {
	connID  string
	conn    *websocket.Conn
	session *game.Session
	outbox  chan game.Notification
	gone    chan struct{}
	id      atomic.Int64
}

func newBridge(conn *websocket.Conn, sess *game.Session) *Bridge {
	return &Bridge{
		connID:  uuid.NewString(),
		conn:    conn,
		session: sess,
		outbox:  make(chan game.Notification, outboxSize),
		gone:    make(chan struct{}),
	}
}

func (b *Bridge) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go b.writeLoop(ctx)
	b.readLoop(ctx)
}

// writeLoop forwards session notifications to the transport. Register is
// consumed locally; game_started and game_ended are terminal, closing the
// connection right after delivery. Closing gone tells the session this
// bridge no longer consumes notifications.
func (b *Bridge) writeLoop(ctx context.Context) {
	defer close(b.gone)
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-b.outbox:
			if reg, ok := n.(game.Register); ok {
				b.id.Store(int64(reg.ID))
				continue
			}
			payload, ok := encodeNotification(n)
			if !ok {
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := b.conn.Write(wctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				logger.Log.Debugw("bridge write failed", "conn", b.connID, "err", err)
				return
			}
			switch n.(type) {
			case game.GameStarted:
				b.conn.Close(websocket.StatusNormalClosure, "game started")
				return
			case game.GameEnded:
				b.conn.Close(websocket.StatusNormalClosure, "game ended")
				return
			}
		}
	}
}

// readLoop decodes inbound frames into actions. Malformed frames are
// silently dropped; a clean close becomes a quit; any other transport
// failure is injected as an error action.
func (b *Bridge) readLoop(ctx context.Context) {
	for {
		_, data, err := b.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				_ = b.dispatch(game.Quit{})
			default:
				_ = b.dispatch(game.ActionError{Cause: err})
			}
			return
		}

		act, ok := decodeAction(data)
		if !ok {
			continue
		}
		if join, isJoin := act.(game.Join); isJoin {
			// Attach the reply path so the session can register us.
			act = game.JoinWithOutbox{Name: join.Name, Outbox: b.outbox, Gone: b.gone}
		}
		if err := b.dispatch(act); err != nil {
			return
		}
		monitor.ActionForwarded()
	}
}

func (b *Bridge) dispatch(act game.Action) error {
	return b.session.Dispatch(act, int(b.id.Load()))
}
