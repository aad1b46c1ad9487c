package request

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	ModeratorName string `json:"moderator_name"`
	Passcode      string `json:"passcode,omitempty"`
	Autonomous    bool   `json:"autonomous,omitempty"`
}

// JoinRoomRequest is the request body for joining a room. SecretToken is
// only set when reconnecting to a seat issued earlier.
type JoinRoomRequest struct {
	DisplayName string `json:"display_name"`
	Passcode    string `json:"passcode,omitempty"`
	SecretToken string `json:"secret_token,omitempty"`
}

// AddBotRequest is the request body for seating a bot in the lobby
type AddBotRequest struct {
	DisplayName string `json:"display_name,omitempty"`
}

// StartGameRequest is the request body for starting a game
type StartGameRequest struct {
	Roles map[string]int `json:"roles"`
}

// ActionRequest is the request body for submitting a night or day ability
type ActionRequest struct {
	Ability  string `json:"ability"`
	TargetID string `json:"target_id,omitempty"`
}

// VoteRequest is the request body for a day-vote ballot. An empty target
// is a skip.
type VoteRequest struct {
	TargetID string `json:"target_id,omitempty"`
}

// VerdictRequest is the request body for a final-verdict ballot
type VerdictRequest struct {
	Verdict string `json:"verdict"`
}
