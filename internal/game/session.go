// Package game implements the per-session engine: a single goroutine owns
// all mutable state and consumes a merged stream of player actions and
// liveness ticks, so no locking is needed anywhere in the state machine.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/tsanfield/stackpot-backend/internal/deck"
	"github.com/tsanfield/stackpot-backend/internal/logger"
	"github.com/tsanfield/stackpot-backend/internal/pool"
)

// InitialPoint is every player's balance when the round starts.
const InitialPoint = 10

// UnregisteredID tags actions from a bridge that never completed a join.
const UnregisteredID = 0

var (
	ErrSessionClosed     = errors.New("session closed")
	ErrLobbyAbandoned    = errors.New("lobby abandoned")
	ErrAllPlayersQuit    = errors.New("all players quit")
	ErrNoPlayersLeft     = errors.New("no active players remain")
	ErrProtocolViolation = errors.New("join action without an attached outbox")
	ErrPlayerGone        = errors.New("player channel gone")
)

// Config carries the session knobs. Zero values select the defaults; tests
// shrink the tick interval and pin the seed.
type Config struct {
	PoolCapacity int
	TickInterval time.Duration
	Seed         int64
}

type envelope struct {
	action   Action
	playerID int
}

// player is the session's view of one roster member. The outbox/gone pair
// belongs to the member's bridge; all other player state lives here.
type player struct {
	id     int
	name   string
	outbox chan<- Notification
	gone   <-chan struct{}
}

// Session is the orchestrating actor for one game. External access goes
// exclusively through Dispatch; the run goroutine is the only writer.
type Session struct {
	code    string
	inbox   chan envelope
	done    chan struct{}
	tick    time.Duration
	pool    *pool.Pool
	gen     *deck.Generator
	onClose func()

	roster map[int]*player
	points map[int]int
	nextID int
	turn   int
	rounds int
}

// NewSession creates the session and starts its actor goroutine. onClose
// is the registry's removal callback; it runs exactly once, whatever way
// the session terminates.
func NewSession(code string, cfg Config, onClose func()) *Session {
	if cfg.PoolCapacity == 0 {
		cfg.PoolCapacity = pool.DefaultCapacity
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = time.Minute
	}
	if cfg.Seed == 0 {
		seed, err := deck.NewSeed()
		if err != nil {
			seed = time.Now().UnixNano()
		}
		cfg.Seed = seed
	}

	s := &Session{
		code:    code,
		inbox:   make(chan envelope, 64),
		done:    make(chan struct{}),
		tick:    cfg.TickInterval,
		pool:    pool.New(cfg.PoolCapacity),
		gen:     deck.NewGenerator(rand.New(rand.NewSource(cfg.Seed))),
		onClose: onClose,
		roster:  make(map[int]*player),
		nextID:  1,
	}
	go s.run()
	return s
}

func (s *Session) Code() string { return s.code }

// Dispatch queues an action for the session's state machine. It fails once
// the session has terminated, which the bridge treats as its own stop
// signal.
func (s *Session) Dispatch(a Action, playerID int) error {
	select {
	case s.inbox <- envelope{action: a, playerID: playerID}:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// Done is closed when the session has terminated and its cleanup ran.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) run() {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	err := s.lobby(ticker)
	if err == nil {
		err = s.play(ticker)
	}
	if err == nil {
		err = s.finish()
	}
	if err != nil {
		logger.Log.Infow("session terminating", "code", s.code, "rounds", s.rounds, "reason", err)
	} else {
		logger.Log.Infow("session finished", "code", s.code, "rounds", s.rounds)
	}
	s.cleanup()
}

// send delivers one notification, blocking on the bounded outbox. A bridge
// that already stopped has closed gone, which makes delivery fail; per the
// failure model that is fatal to the whole session.
func (s *Session) send(p *player, n Notification) error {
	select {
	case p.outbox <- n:
		return nil
	case <-p.gone:
		return fmt.Errorf("notify player %d: %w", p.id, ErrPlayerGone)
	}
}

// broadcast fans a notification out to the whole roster in id order.
func (s *Session) broadcast(n Notification) error {
	for _, id := range s.rosterIDs() {
		if err := s.send(s.roster[id], n); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) rosterIDs() []int {
	ids := make([]int, 0, len(s.roster))
	for id := range s.roster {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Session) activeIDs() []int {
	ids := make([]int, 0, len(s.points))
	for id := range s.points {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Session) names() []string {
	names := make([]string, 0, len(s.roster))
	for _, id := range s.rosterIDs() {
		names = append(names, s.roster[id].name)
	}
	return names
}

// lobby runs the joining phase. It returns nil exactly when a start action
// legally moves the session to Playing.
func (s *Session) lobby(ticker *time.Ticker) error {
	for {
		select {
		case <-ticker.C:
			if len(s.roster) == 0 {
				return ErrLobbyAbandoned
			}
		case env := <-s.inbox:
			switch act := env.action.(type) {
			case JoinWithOutbox:
				if err := s.addPlayer(act); err != nil {
					return err
				}
			case Join:
				return ErrProtocolViolation
			case StartGame:
				if len(s.roster) > 1 {
					return nil
				}
				if p, ok := s.roster[env.playerID]; ok {
					if err := s.send(p, StartFailed{}); err != nil {
						return err
					}
				}
			case UseCard:
				if p, ok := s.roster[env.playerID]; ok {
					if err := s.send(p, InvalidOperation{}); err != nil {
						return err
					}
				}
			case Quit:
				if _, ok := s.roster[env.playerID]; !ok {
					continue
				}
				delete(s.roster, env.playerID)
				if len(s.roster) == 0 {
					return ErrAllPlayersQuit
				}
			case ActionError:
				logger.Log.Warnw("transport error in lobby", "code", s.code, "player", env.playerID, "cause", act.Cause)
				if _, ok := s.roster[env.playerID]; !ok {
					continue
				}
				delete(s.roster, env.playerID)
				if len(s.roster) == 0 {
					return ErrAllPlayersQuit
				}
			}
		}
	}
}

func (s *Session) addPlayer(act JoinWithOutbox) error {
	if err := s.broadcast(NewPlayer{Name: act.Name}); err != nil {
		return err
	}
	id := s.nextID
	s.nextID++
	p := &player{id: id, name: act.Name, outbox: act.Outbox, gone: act.Gone}
	s.roster[id] = p

	if err := s.send(p, Register{ID: id}); err != nil {
		return err
	}
	if err := s.send(p, Joined{PlayersName: s.names()}); err != nil {
		return err
	}
	if len(s.roster) == 1 {
		if err := s.send(p, HostStart{}); err != nil {
			return err
		}
	}
	logger.Log.Infow("player joined", "code", s.code, "player", id, "name", act.Name)
	return nil
}

// play deals the starting balances and loops rounds until one active
// player remains.
func (s *Session) play(ticker *time.Ticker) error {
	s.points = make(map[int]int, len(s.roster))
	for id := range s.roster {
		s.points[id] = InitialPoint
	}
	if err := s.broadcast(Start{Point: InitialPoint}); err != nil {
		return err
	}
	ids := s.activeIDs()
	s.turn = ids[s.gen.Intn(len(ids))]

	for len(s.points) > 1 {
		if err := s.playRound(ticker); err != nil {
			return err
		}
	}
	if len(s.points) == 0 {
		return ErrNoPlayersLeft
	}
	return nil
}

// playRound runs one round: announce, offer the hand, then consume input
// until the actor plays a card or the round is otherwise advanced.
func (s *Session) playRound(ticker *time.Ticker) error {
	s.rounds++
	actor := s.roster[s.turn]
	hand := s.gen.DrawHand()
	values := s.pool.Values()

	for _, id := range s.rosterIDs() {
		var own *int
		if pts, ok := s.points[id]; ok {
			v := pts
			own = &v
		}
		n := RoundStart{PlayerName: actor.name, Pool: values, OwnPoint: own}
		if err := s.send(s.roster[id], n); err != nil {
			return err
		}
	}
	if err := s.send(actor, NewRound{Cards: hand, Pool: values}); err != nil {
		return err
	}

	for {
		select {
		case <-ticker.C:
			// liveness only matters in the lobby
		case env := <-s.inbox:
			switch act := env.action.(type) {
			case JoinWithOutbox:
				late := &player{name: act.Name, outbox: act.Outbox, gone: act.Gone}
				if err := s.send(late, GameStarted{}); err != nil {
					return err
				}
			case Join:
				return ErrProtocolViolation
			case StartGame:
				if p, ok := s.roster[env.playerID]; ok {
					if err := s.send(p, GameStarted{}); err != nil {
						return err
					}
				}
			case UseCard:
				if env.playerID != s.turn || act.CardIndex < 0 || act.CardIndex >= len(hand) {
					if p, ok := s.roster[env.playerID]; ok {
						if err := s.send(p, InvalidOperation{}); err != nil {
							return err
						}
					}
					continue
				}
				return s.useCard(hand[act.CardIndex])
			case Quit:
				if _, ok := s.roster[env.playerID]; !ok {
					continue
				}
				if err := s.dropPlayer(env.playerID); err != nil {
					return err
				}
				return nil
			case ActionError:
				logger.Log.Warnw("transport error in round", "code", s.code, "player", env.playerID, "cause", act.Cause)
				if _, ok := s.roster[env.playerID]; !ok {
					continue
				}
				if err := s.dropPlayer(env.playerID); err != nil {
					return err
				}
				return nil
			}
		}
	}
}

// useCard applies the chosen card, settles overflows, announces the play
// to everyone else and advances the turn pointer.
func (s *Session) useCard(card deck.Card) error {
	actor := s.turn
	for _, of := range s.pool.ApplyCard(card) {
		if err := s.settleOverflow(actor, of); err != nil {
			return err
		}
	}
	for _, id := range s.rosterIDs() {
		if id == actor {
			continue
		}
		if err := s.send(s.roster[id], OtherUseCard{Card: card}); err != nil {
			return err
		}
	}
	if len(s.points) > 0 {
		s.turn = s.nextActive(s.turn)
	}
	return nil
}

// settleOverflow applies one overflow's payout and processes the resulting
// eliminations before the next overflow from the same card is settled. A
// player eliminated here neither gains nor loses from later overflows.
func (s *Session) settleOverflow(actor int, of pool.Overflow) error {
	for _, id := range s.activeIDs() {
		if id == actor {
			s.points[id] += of.SelfGain
		} else {
			s.points[id] -= of.OtherLost
		}
	}
	for _, id := range s.activeIDs() {
		if s.points[id] > 0 {
			continue
		}
		delete(s.points, id)
		logger.Log.Infow("player eliminated", "code", s.code, "player", id)
		if p, ok := s.roster[id]; ok {
			if err := s.send(p, Lose{}); err != nil {
				return err
			}
		}
	}
	return nil
}

// dropPlayer removes a quitter from the roster and the active set. The
// current round is aborted; the caller re-enters playRound, which derives
// the actor from whatever remains.
func (s *Session) dropPlayer(id int) error {
	delete(s.roster, id)
	delete(s.points, id)
	if len(s.points) == 0 {
		return ErrAllPlayersQuit
	}
	if _, active := s.points[s.turn]; !active {
		s.turn = s.nextActive(s.turn)
	}
	return nil
}

// nextActive returns the smallest active id strictly greater than id, or
// wraps to the smallest active id overall. This holds even immediately
// after an elimination removed the literal next id.
func (s *Session) nextActive(id int) int {
	ids := s.activeIDs()
	for _, next := range ids {
		if next > id {
			return next
		}
	}
	return ids[0]
}

// finish declares the sole survivor the winner.
func (s *Session) finish() error {
	winner := s.activeIDs()[0]
	if p, ok := s.roster[winner]; ok {
		if err := s.send(p, Win{}); err != nil {
			return err
		}
	}
	var name *string
	if p, ok := s.roster[winner]; ok {
		name = &p.name
	}
	return s.broadcast(GameEnd{WinnerName: name})
}

// cleanup runs on every exit path: each remaining roster member gets the
// terminal notification and the registry callback fires exactly once.
func (s *Session) cleanup() {
	for _, id := range s.rosterIDs() {
		_ = s.send(s.roster[id], GameEnded{})
	}
	if s.onClose != nil {
		s.onClose()
	}
	close(s.done)
}
