package game

import "github.com/tsanfield/stackpot-backend/internal/deck"

// Action is anything a bridge can feed into a session's inbox.
type Action interface{ isAction() }

// Join is the raw wire form. The bridge must upgrade it to JoinWithOutbox
// before forwarding; a raw Join reaching the session is a protocol
// violation and kills the session.
type Join struct {
	Name string
}

// JoinWithOutbox carries the joining bridge's notification channel so the
// session can deliver the assigned id and name list directly. Gone is
// closed by the bridge when it stops, which the session treats as a
// delivery failure.
type JoinWithOutbox struct {
	Name   string
	Outbox chan<- Notification
	Gone   <-chan struct{}
}

type StartGame struct{}

type UseCard struct {
	CardIndex int
}

type Quit struct{}

// ActionError is injected by the bridge when the transport fails. The
// session treats the player as gone.
type ActionError struct {
	Cause error
}

func (Join) isAction()           {}
func (JoinWithOutbox) isAction() {}
func (StartGame) isAction()      {}
func (UseCard) isAction()        {}
func (Quit) isAction()           {}
func (ActionError) isAction()    {}

// Notification is anything a session can push to a player's bridge.
type Notification interface{ isNotification() }

// Register tells the bridge its assigned player id. It is consumed by the
// bridge and never serialized to the wire.
type Register struct {
	ID int
}

type NewPlayer struct {
	Name string
}

// HostStart tells the first player in the lobby that it may start the game.
type HostStart struct{}

type Joined struct {
	PlayersName []string
}

// GameStarted rejects late joiners and start requests after the round has
// begun. The bridge closes the connection after forwarding it.
type GameStarted struct{}

// Start announces the round beginning and the recipient's initial balance.
type Start struct {
	Point int
}

type StartFailed struct{}

type RoundStart struct {
	PlayerName string
	Pool       []int
	OwnPoint   *int
}

type OtherUseCard struct {
	Card deck.Card
}

// NewRound is sent to the acting player only, with the drawn hand.
type NewRound struct {
	Cards []deck.Card
	Pool  []int
}

type Lose struct{}

type Win struct{}

type GameEnd struct {
	WinnerName *string
}

// GameEnded is the terminal notification: the session is gone. The bridge
// closes the connection after forwarding it.
type GameEnded struct{}

type InvalidOperation struct{}

func (Register) isNotification()         {}
func (NewPlayer) isNotification()        {}
func (HostStart) isNotification()        {}
func (Joined) isNotification()           {}
func (GameStarted) isNotification()      {}
func (Start) isNotification()            {}
func (StartFailed) isNotification()      {}
func (RoundStart) isNotification()       {}
func (OtherUseCard) isNotification()     {}
func (NewRound) isNotification()         {}
func (Lose) isNotification()             {}
func (Win) isNotification()              {}
func (GameEnd) isNotification()          {}
func (GameEnded) isNotification()        {}
func (InvalidOperation) isNotification() {}
