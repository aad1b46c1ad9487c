package response

import (
	"time"

	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/services/auth"
)

// Player represents one player as seen by the requesting viewer. Role and
// faction are omitted unless the viewer is entitled to them.
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsModerator bool   `json:"is_moderator,omitempty"`
	IsBot       bool   `json:"is_bot,omitempty"`
	Connected   bool   `json:"connected"`
	Alive       bool   `json:"alive"`
	Role        string `json:"role,omitempty"`
	Faction     string `json:"faction,omitempty"`
}

// PlayerFromView converts a model.PlayerView to a response Player
func PlayerFromView(p model.PlayerView) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsModerator: p.IsModerator,
		IsBot:       p.IsBot,
		Connected:   p.Connected,
		Alive:       p.Alive,
		Role:        string(p.Role),
		Faction:     string(p.Faction),
	}
}

// VoteTally represents the running day-vote tally
type VoteTally struct {
	Counts map[string]int `json:"counts"`
	Skips  int            `json:"skips"`
	Total  int            `json:"total"`
}

// VoteTallyFromModel converts model.VoteTally
func VoteTallyFromModel(t *model.VoteTally) *VoteTally {
	if t == nil {
		return nil
	}
	counts := make(map[string]int, len(t.Counts))
	for pid, n := range t.Counts {
		counts[string(pid)] = n
	}
	return &VoteTally{
		Counts: counts,
		Skips:  t.Skips,
		Total:  t.Total,
	}
}

// VerdictTally represents the execute/spare count for the accused
type VerdictTally struct {
	Execute int `json:"execute"`
	Spare   int `json:"spare"`
	Total   int `json:"total"`
}

// VerdictTallyFromModel converts model.VerdictTally
func VerdictTallyFromModel(t *model.VerdictTally) *VerdictTally {
	if t == nil {
		return nil
	}
	return &VerdictTally{
		Execute: t.Execute,
		Spare:   t.Spare,
		Total:   t.Total,
	}
}

// Room is the redacted room projection returned to one viewer
type Room struct {
	Code             string         `json:"code"`
	Phase            string         `json:"phase"`
	DayCount         int            `json:"day_count"`
	You              string         `json:"you"`
	Players          []Player       `json:"players"`
	Narrative        []string       `json:"narrative"`
	PendingExecution string         `json:"pending_execution,omitempty"`
	Winner           string         `json:"winner,omitempty"`
	Config           map[string]int `json:"config,omitempty"`
	VoteTally        *VoteTally     `json:"vote_tally,omitempty"`
	VerdictTally     *VerdictTally  `json:"verdict_tally,omitempty"`
}

// RoomFromView converts a model.RoomView
func RoomFromView(v *model.RoomView) Room {
	players := make([]Player, len(v.Players))
	for i, p := range v.Players {
		players[i] = PlayerFromView(p)
	}
	var config map[string]int
	if len(v.Config) > 0 {
		config = make(map[string]int, len(v.Config))
		for role, n := range v.Config {
			config[string(role)] = n
		}
	}
	return Room{
		Code:             string(v.Code),
		Phase:            string(v.Phase),
		DayCount:         v.DayCount,
		You:              string(v.You),
		Players:          players,
		Narrative:        v.Narrative,
		PendingExecution: string(v.PendingExecution),
		Winner:           string(v.Winner),
		Config:           config,
		VoteTally:        VoteTallyFromModel(v.VoteTally),
		VerdictTally:     VerdictTallyFromModel(v.VerdictTally),
	}
}

// SeatResponse is the response for room create and join. The secret token
// re-claims the seat after a dropped connection; the session token
// authenticates API calls.
type SeatResponse struct {
	RoomCode     string    `json:"room_code"`
	PlayerID     string    `json:"player_id"`
	SecretToken  string    `json:"secret_token"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Reconnected  bool      `json:"reconnected,omitempty"`
	Room         Room      `json:"room"`
}

// SeatResponseFromSession builds a SeatResponse for a freshly minted session
func SeatResponseFromSession(s *auth.Session, reconnected bool, view *model.RoomView) SeatResponse {
	return SeatResponse{
		RoomCode:     string(s.RoomCode),
		PlayerID:     string(s.PlayerID),
		SecretToken:  s.PlayerToken,
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
		Reconnected:  reconnected,
		Room:         RoomFromView(view),
	}
}

// ActionReceipt acknowledges an accepted ability submission
type ActionReceipt struct {
	Ability  string `json:"ability"`
	TargetID string `json:"target_id,omitempty"`
	Accepted bool   `json:"accepted"`
}

// ArchivedPlayer is one player's final standing in an archived game
type ArchivedPlayer struct {
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Faction     string `json:"faction"`
	Alive       bool   `json:"alive"`
	IsModerator bool   `json:"is_moderator,omitempty"`
}

// Archive represents a completed game record
type Archive struct {
	ID        string           `json:"id"`
	RoomCode  string           `json:"room_code"`
	Winner    string           `json:"winner"`
	DayCount  int              `json:"day_count"`
	Players   []ArchivedPlayer `json:"players,omitempty"`
	Narrative []string         `json:"narrative,omitempty"`
	StartedAt time.Time        `json:"started_at"`
	EndedAt   time.Time        `json:"ended_at"`
}

// ArchiveFromModel converts a model.GameArchive including players and
// narrative
func ArchiveFromModel(a *model.GameArchive) Archive {
	players := make([]ArchivedPlayer, len(a.Players))
	for i, p := range a.Players {
		players[i] = ArchivedPlayer{
			DisplayName: p.DisplayName,
			Role:        string(p.Role),
			Faction:     string(p.Faction),
			Alive:       p.Alive,
			IsModerator: p.IsModerator,
		}
	}
	return Archive{
		ID:        string(a.ID),
		RoomCode:  string(a.RoomCode),
		Winner:    string(a.Winner),
		DayCount:  a.DayCount,
		Players:   players,
		Narrative: a.Narrative,
		StartedAt: a.StartedAt,
		EndedAt:   a.EndedAt,
	}
}

// ArchiveSummaryFromModel converts a model.GameArchive to its listing form,
// without per-player detail or narrative
func ArchiveSummaryFromModel(a *model.GameArchive) Archive {
	return Archive{
		ID:        string(a.ID),
		RoomCode:  string(a.RoomCode),
		Winner:    string(a.Winner),
		DayCount:  a.DayCount,
		StartedAt: a.StartedAt,
		EndedAt:   a.EndedAt,
	}
}

// ArchiveList is the response for the archive listing endpoint
type ArchiveList struct {
	Archives []Archive `json:"archives"`
}
