package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsanfield/stackpot-backend/internal/deck"
	"github.com/tsanfield/stackpot-backend/internal/game"
)

func TestDecodeAction(t *testing.T) {
	cases := []struct {
		name string
		data string
		want game.Action
	}{
		{"join", `{"type":"join","name":"alice"}`, game.Join{Name: "alice"}},
		{"start", `{"type":"start"}`, game.StartGame{}},
		{"use card", `{"type":"use_card","card_index":2}`, game.UseCard{CardIndex: 2}},
		{"quit", `{"type":"quit"}`, game.Quit{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := decodeAction([]byte(tc.data))
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeAction_DropsGarbage(t *testing.T) {
	for _, data := range []string{`not json`, `{"type":"warp"}`, `{}`} {
		_, ok := decodeAction([]byte(data))
		assert.False(t, ok, "payload %q should be dropped", data)
	}
}

func TestEncodeNotification_RoundStart(t *testing.T) {
	point := 10
	payload, ok := encodeNotification(game.RoundStart{
		PlayerName: "alice",
		Pool:       []int{3, -1},
		OwnPoint:   &point,
	})
	require.True(t, ok)
	assert.JSONEq(t,
		`{"type":"round_start","player_name":"alice","pool_contents":[3,-1],"own_point":10}`,
		string(payload))

	payload, ok = encodeNotification(game.RoundStart{PlayerName: "alice", Pool: []int{}})
	require.True(t, ok)
	assert.JSONEq(t,
		`{"type":"round_start","player_name":"alice","pool_contents":[],"own_point":null}`,
		string(payload))
}

func TestEncodeNotification_CardFields(t *testing.T) {
	card := deck.Card{Actions: []deck.Action{
		{Kind: deck.ActionPush, Num: -3},
		{Kind: deck.ActionReverse},
	}}
	payload, ok := encodeNotification(game.OtherUseCard{Card: card})
	require.True(t, ok)
	assert.JSONEq(t,
		`{"type":"other_use_card","card":{"actions":[{"action_type":"push","num":-3},{"action_type":"reverse"}]}}`,
		string(payload))
}

func TestEncodeNotification_NumAlwaysPresentForPushAndAdd(t *testing.T) {
	// a push of zero is drawable; its num must still reach the wire
	card := deck.Card{Actions: []deck.Action{
		{Kind: deck.ActionPush, Num: 0},
		{Kind: deck.ActionAdd, Num: -2},
		{Kind: deck.ActionNegate},
	}}
	payload, ok := encodeNotification(game.OtherUseCard{Card: card})
	require.True(t, ok)
	assert.JSONEq(t,
		`{"type":"other_use_card","card":{"actions":[{"action_type":"push","num":0},{"action_type":"add","num":-2},{"action_type":"negate"}]}}`,
		string(payload))

	payload, ok = encodeNotification(game.NewRound{
		Cards: []deck.Card{{Actions: []deck.Action{{Kind: deck.ActionPush, Num: 0}}}},
		Pool:  []int{},
	})
	require.True(t, ok)
	assert.JSONEq(t,
		`{"type":"new_round","cards":[{"actions":[{"action_type":"push","num":0}]}],"pool_contents":[]}`,
		string(payload))
}

func TestEncodeNotification_GameEndWithoutWinner(t *testing.T) {
	payload, ok := encodeNotification(game.GameEnd{})
	require.True(t, ok)
	assert.JSONEq(t, `{"type":"game_end","winner_name":null}`, string(payload))
}

func TestEncodeNotification_RegisterStaysInternal(t *testing.T) {
	_, ok := encodeNotification(game.Register{ID: 1})
	assert.False(t, ok)
}
