// Package registry owns the code -> session mapping. Like the sessions it
// manages, it is an actor: one goroutine owns the map and all access goes
// through the inbox.
package registry

import (
	"crypto/rand"
	"math/big"

	"github.com/tsanfield/stackpot-backend/internal/game"
	"github.com/tsanfield/stackpot-backend/internal/logger"
	"github.com/tsanfield/stackpot-backend/internal/monitor"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the length of generated session codes.
const CodeLength = 6

type Msg interface{ isRegistryMsg() }

// CreateSession allocates a fresh code, spins up a session and replies
// with both.
type CreateSession struct {
	Reply chan Created
}

type Created struct {
	Code    string
	Session *game.Session
}

type Lookup struct {
	Code  string
	Reply chan *game.Session
}

// remove is only ever sent by a session's own cleanup callback.
type remove struct {
	Code string
}

type Shutdown struct{}

func (CreateSession) isRegistryMsg() {}
func (Lookup) isRegistryMsg()        {}
func (remove) isRegistryMsg()        {}
func (Shutdown) isRegistryMsg()      {}

type Registry struct {
	inbox    chan Msg
	sessions map[string]*game.Session
	cfg      game.Config
}

func New(cfg game.Config) *Registry {
	r := &Registry{
		inbox:    make(chan Msg, 64),
		sessions: make(map[string]*game.Session),
		cfg:      cfg,
	}
	go r.loop()
	return r
}

func (r *Registry) Inbox() chan<- Msg { return r.inbox }

func (r *Registry) loop() {
	for m := range r.inbox {
		switch msg := m.(type) {
		case CreateSession:
			code := r.freshCode()
			s := game.NewSession(code, r.cfg, func() {
				r.inbox <- remove{Code: code}
			})
			r.sessions[code] = s
			monitor.SessionCreated()
			monitor.SetActiveSessions(len(r.sessions))
			logger.Log.Infow("session created", "code", code)
			msg.Reply <- Created{Code: code, Session: s}

		case Lookup:
			msg.Reply <- r.sessions[msg.Code] // may be nil

		case remove:
			delete(r.sessions, msg.Code)
			monitor.SetActiveSessions(len(r.sessions))
			logger.Log.Infow("session removed", "code", msg.Code)

		case Shutdown:
			clear(r.sessions)
			return
		}
	}
}

// freshCode generates codes until one misses the map. Collision checking
// is race-free because it runs inside the actor.
func (r *Registry) freshCode() string {
	for {
		code := generateCode(CodeLength)
		if _, taken := r.sessions[code]; !taken {
			return code
		}
	}
}

func generateCode(length int) string {
	code := make([]byte, length)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			panic("failed to read crypto/rand: " + err.Error())
		}
		code[i] = codeCharset[num.Int64()]
	}
	return string(code)
}
