package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Seat:
		o.printSeat(v)
	case Room:
		o.printRoom(v)
	case VoteTally:
		o.printVoteTally(v)
	case ActionReceipt:
		o.printActionReceipt(v)
	case Archive:
		o.printArchive(v)
	case ArchiveList:
		o.printArchiveList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
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

// Room response type
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

// Seat response type for room create and join
type Seat struct {
	RoomCode     string    `json:"room_code"`
	PlayerID     string    `json:"player_id"`
	SecretToken  string    `json:"secret_token"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Reconnected  bool      `json:"reconnected,omitempty"`
	Room         Room      `json:"room"`
}

// VoteTally response type
type VoteTally struct {
	Counts map[string]int `json:"counts"`
	Skips  int            `json:"skips"`
	Total  int            `json:"total"`
}

// VerdictTally response type
type VerdictTally struct {
	Execute int `json:"execute"`
	Spare   int `json:"spare"`
	Total   int `json:"total"`
}

// ActionReceipt response type
type ActionReceipt struct {
	Ability  string `json:"ability"`
	TargetID string `json:"target_id,omitempty"`
	Accepted bool   `json:"accepted"`
}

// ArchivedPlayer response type
type ArchivedPlayer struct {
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Faction     string `json:"faction"`
	Alive       bool   `json:"alive"`
	IsModerator bool   `json:"is_moderator,omitempty"`
}

// Archive response type
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

// ArchiveList response type
type ArchiveList struct {
	Archives []Archive `json:"archives"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSeat(s Seat) {
	fmt.Printf("Seated in room %s as %s\n", s.RoomCode, s.PlayerID)
	if s.Reconnected {
		fmt.Println("Reconnected to your previous seat")
	}
	fmt.Printf("Session token: %s\n", s.SessionToken)
	fmt.Printf("Seat secret: %s (use with 'room join --secret' to reconnect)\n", s.SecretToken)
	fmt.Printf("Session expires: %s\n", s.ExpiresAt.Format("2006-01-02 15:04:05"))
	fmt.Println()
	o.printRoom(s.Room)
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Code)
	if r.Phase == "lobby" || r.Phase == "ended" {
		fmt.Printf("Phase: %s\n", r.Phase)
	} else {
		fmt.Printf("Phase: %s (day %d)\n", r.Phase, r.DayCount)
	}
	if r.Winner != "" {
		fmt.Printf("Winner: %s\n", r.Winner)
	}
	if r.PendingExecution != "" {
		fmt.Printf("Accused: %s\n", playerName(r.Players, r.PendingExecution))
	}

	fmt.Printf("Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		fmt.Printf("  - %s (%s)%s\n", p.DisplayName, p.ID, playerMarkers(p, r.You))
	}

	if r.VoteTally != nil && r.VoteTally.Total > 0 {
		fmt.Printf("Votes (%d):\n", r.VoteTally.Total)
		for pid, n := range r.VoteTally.Counts {
			fmt.Printf("  - %s: %d\n", playerName(r.Players, pid), n)
		}
		if r.VoteTally.Skips > 0 {
			fmt.Printf("  - skipped: %d\n", r.VoteTally.Skips)
		}
	}
	if r.VerdictTally != nil && r.VerdictTally.Total > 0 {
		fmt.Printf("Verdict: %d execute, %d spare\n", r.VerdictTally.Execute, r.VerdictTally.Spare)
	}

	if len(r.Narrative) > 0 {
		fmt.Println("Narrative:")
		for _, line := range r.Narrative {
			fmt.Printf("  %s\n", line)
		}
	}
}

// playerMarkers builds the status suffix for one player line
func playerMarkers(p Player, you string) string {
	markers := ""
	if p.Role != "" {
		markers += " - " + p.Role
	}
	if p.ID == you {
		markers += " [you]"
	}
	if p.IsModerator {
		markers += " [moderator]"
	}
	if p.IsBot {
		markers += " [bot]"
	}
	if !p.Alive {
		markers += " [dead]"
	}
	if !p.Connected && !p.IsBot {
		markers += " [offline]"
	}
	return markers
}

// playerName resolves a player id to its display name, falling back to
// the id when the player is not in the list
func playerName(players []Player, id string) string {
	for _, p := range players {
		if p.ID == id {
			return p.DisplayName
		}
	}
	return id
}

func (o *Output) printVoteTally(t VoteTally) {
	fmt.Printf("Ballots in: %d\n", t.Total)
	for pid, n := range t.Counts {
		fmt.Printf("  - %s: %d\n", pid, n)
	}
	if t.Skips > 0 {
		fmt.Printf("  - skipped: %d\n", t.Skips)
	}
}

func (o *Output) printActionReceipt(a ActionReceipt) {
	target := ""
	if a.TargetID != "" {
		target = " -> " + a.TargetID
	}
	if a.Accepted {
		fmt.Printf("Order accepted: %s%s\n", a.Ability, target)
	} else {
		fmt.Printf("Order refused: %s%s\n", a.Ability, target)
	}
}

func (o *Output) printArchive(a Archive) {
	fmt.Printf("Archive: %s\n", a.ID)
	fmt.Printf("Room: %s\n", a.RoomCode)
	fmt.Printf("Winner: %s\n", archiveWinner(a.Winner))
	fmt.Printf("Days: %d\n", a.DayCount)
	fmt.Printf("Started: %s\n", a.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Ended: %s\n", a.EndedAt.Format("2006-01-02 15:04:05"))

	if len(a.Players) > 0 {
		fmt.Println("Players:")
		for _, p := range a.Players {
			line := "  - " + p.DisplayName
			if p.Role != "" {
				line += " - " + p.Role
			}
			if p.IsModerator {
				line += " [moderator]"
			}
			if !p.Alive {
				line += " [dead]"
			}
			fmt.Println(line)
		}
	}

	if len(a.Narrative) > 0 {
		fmt.Println("Narrative:")
		for _, line := range a.Narrative {
			fmt.Printf("  %s\n", line)
		}
	}
}

func (o *Output) printArchiveList(l ArchiveList) {
	fmt.Printf("Archives (%d):\n", len(l.Archives))
	for _, a := range l.Archives {
		fmt.Printf("  - %s  room %s  %s  day %d  %s\n",
			a.ID, a.RoomCode, archiveWinner(a.Winner), a.DayCount,
			a.EndedAt.Format("2006-01-02 15:04"))
	}
}

// archiveWinner renders the winner field, which is empty when the
// moderator ended the game early
func archiveWinner(winner string) string {
	if winner == "" {
		return "no winner"
	}
	return winner + " wins"
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
