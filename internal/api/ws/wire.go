package ws

import (
	"encoding/json"
	"time"

	"github.com/quailholm/wolfgame-go/internal/api/response"
	"github.com/quailholm/wolfgame-go/internal/model"
)

// wireEvent is the JSON frame put on the socket
type wireEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RoomCode  string    `json:"room_code"`
	PlayerID  string    `json:"player_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// encodeEvent converts a model event to its wire frame. Payloads reuse
// the response package's JSON shapes so the feed and the REST API agree
// on field names.
func encodeEvent(event model.Event) ([]byte, error) {
	return json.Marshal(wireEvent{
		Type:      string(event.Type),
		Timestamp: event.Timestamp,
		RoomCode:  string(event.RoomCode),
		PlayerID:  string(event.PlayerID),
		Payload:   encodePayload(event.Payload),
	})
}

func encodePayload(payload any) any {
	switch p := payload.(type) {
	case nil:
		return nil
	case model.PlayerJoinedPayload:
		return struct {
			Player response.Player `json:"player"`
		}{response.PlayerFromView(p.Player)}
	case model.PlayerLeftPayload:
		return struct {
			PlayerID    string `json:"player_id"`
			DisplayName string `json:"display_name"`
		}{string(p.PlayerID), p.DisplayName}
	case model.GameStartedPayload:
		config := make(map[string]int, len(p.Config))
		for role, n := range p.Config {
			config[string(role)] = n
		}
		return struct {
			PlayerCount int            `json:"player_count"`
			Config      map[string]int `json:"config"`
		}{p.PlayerCount, config}
	case model.RoleAssignedPayload:
		return struct {
			Role    string `json:"role"`
			Faction string `json:"faction"`
		}{string(p.Role), string(p.Faction)}
	case model.PhaseChangedPayload:
		return struct {
			Phase    string `json:"phase"`
			DayCount int    `json:"day_count"`
		}{string(p.Phase), p.DayCount}
	case model.NarrativePayload:
		return struct {
			Entries []string `json:"entries"`
		}{p.Entries}
	case model.ActionReceivedPayload:
		return struct {
			PlayerID string `json:"player_id"`
			Ability  string `json:"ability"`
		}{string(p.PlayerID), string(p.Ability)}
	case model.AllActionsInPayload:
		return struct {
			Phase string `json:"phase"`
		}{string(p.Phase)}
	case model.PeekResultPayload:
		return struct {
			Target  string `json:"target"`
			Faction string `json:"faction"`
		}{string(p.Target), string(p.Faction)}
	case model.WatchResultPayload:
		return struct {
			Target string `json:"target"`
			Active bool   `json:"active"`
		}{string(p.Target), p.Active}
	case model.PlayerReadyPayload:
		return struct {
			PlayerID string `json:"player_id"`
			Ready    int    `json:"ready"`
			Eligible int    `json:"eligible"`
		}{string(p.PlayerID), p.Ready, p.Eligible}
	case model.VoteTallyPayload:
		return struct {
			Tally *response.VoteTally `json:"tally"`
		}{response.VoteTallyFromModel(&p.Tally)}
	case model.VerdictReceivedPayload:
		return struct {
			PlayerID string                 `json:"player_id"`
			Tally    *response.VerdictTally `json:"tally"`
		}{string(p.PlayerID), response.VerdictTallyFromModel(&p.Tally)}
	case model.ExecutionPendingPayload:
		return struct {
			PlayerID    string `json:"player_id"`
			DisplayName string `json:"display_name"`
		}{string(p.PlayerID), p.DisplayName}
	case model.GameEndedPayload:
		return struct {
			Winner string `json:"winner"`
		}{string(p.Winner)}
	default:
		return p
	}
}
