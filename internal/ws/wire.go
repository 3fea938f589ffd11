package ws

import (
	"encoding/json"

	"github.com/tsanfield/stackpot-backend/internal/deck"
	"github.com/tsanfield/stackpot-backend/internal/game"
)

// wireAction is the inbound frame shape. Unknown or malformed frames are
// dropped by the bridge, never surfaced to the session.
type wireAction struct {
	Type      string `json:"type"`
	Name      string `json:"name,omitempty"`
	CardIndex int    `json:"card_index,omitempty"`
}

func decodeAction(data []byte) (game.Action, bool) {
	var m wireAction
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	switch m.Type {
	case "join":
		return game.Join{Name: m.Name}, true
	case "start":
		return game.StartGame{}, true
	case "use_card":
		return game.UseCard{CardIndex: m.CardIndex}, true
	case "quit":
		return game.Quit{}, true
	default:
		return nil, false
	}
}

// wireCardAction is the outbound action shape. Num is emitted for every
// push and add, including zero, and omitted for the other kinds.
type wireCardAction struct {
	ActionType deck.ActionKind `json:"action_type"`
	Num        *int            `json:"num,omitempty"`
}

type wireCard struct {
	Actions []wireCardAction `json:"actions"`
}

func encodeCard(c deck.Card) wireCard {
	actions := make([]wireCardAction, len(c.Actions))
	for i, a := range c.Actions {
		wa := wireCardAction{ActionType: a.Kind}
		if a.Kind == deck.ActionPush || a.Kind == deck.ActionAdd {
			n := a.Num
			wa.Num = &n
		}
		actions[i] = wa
	}
	return wireCard{Actions: actions}
}

func encodeCards(cards []deck.Card) []wireCard {
	out := make([]wireCard, len(cards))
	for i, c := range cards {
		out[i] = encodeCard(c)
	}
	return out
}

// encodeNotification serializes a notification as a discriminated object
// with a snake_case type tag and the variant's fields inlined. Register is
// bridge-internal and reports ok=false.
func encodeNotification(n game.Notification) ([]byte, bool) {
	switch msg := n.(type) {
	case game.NewPlayer:
		return marshal(struct {
			Type string `json:"type"`
			Name string `json:"name"`
		}{"new_player", msg.Name})
	case game.HostStart:
		return marshal(struct {
			Type string `json:"type"`
		}{"host_start"})
	case game.Joined:
		return marshal(struct {
			Type        string   `json:"type"`
			PlayersName []string `json:"players_name"`
		}{"joined", msg.PlayersName})
	case game.GameStarted:
		return marshal(struct {
			Type string `json:"type"`
		}{"game_started"})
	case game.Start:
		return marshal(struct {
			Type  string `json:"type"`
			Point int    `json:"point"`
		}{"start", msg.Point})
	case game.StartFailed:
		return marshal(struct {
			Type string `json:"type"`
		}{"start_failed"})
	case game.RoundStart:
		return marshal(struct {
			Type         string `json:"type"`
			PlayerName   string `json:"player_name"`
			PoolContents []int  `json:"pool_contents"`
			OwnPoint     *int   `json:"own_point"`
		}{"round_start", msg.PlayerName, msg.Pool, msg.OwnPoint})
	case game.OtherUseCard:
		return marshal(struct {
			Type string   `json:"type"`
			Card wireCard `json:"card"`
		}{"other_use_card", encodeCard(msg.Card)})
	case game.NewRound:
		return marshal(struct {
			Type         string     `json:"type"`
			Cards        []wireCard `json:"cards"`
			PoolContents []int      `json:"pool_contents"`
		}{"new_round", encodeCards(msg.Cards), msg.Pool})
	case game.Lose:
		return marshal(struct {
			Type string `json:"type"`
		}{"lose"})
	case game.Win:
		return marshal(struct {
			Type string `json:"type"`
		}{"win"})
	case game.GameEnd:
		return marshal(struct {
			Type       string  `json:"type"`
			WinnerName *string `json:"winner_name"`
		}{"game_end", msg.WinnerName})
	case game.GameEnded:
		return marshal(struct {
			Type string `json:"type"`
		}{"game_ended"})
	case game.InvalidOperation:
		return marshal(struct {
			Type string `json:"type"`
		}{"invalid_operation"})
	default:
		return nil, false
	}
}

func marshal(v any) ([]byte, bool) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	return payload, true
}
