package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events <code>",
		Short: "Stream room events over WebSocket",
		Long: `Connect to the room's event feed and stream events in real-time.

Events include:
  - player_joined / player_left: seat changes
  - game_started: roles have been dealt
  - phase_changed: the room moved to a new phase
  - narrative: new public narrative entries
  - vote_tally: the running day-vote count changed
  - execution_pending: someone stands accused
  - game_ended: a side has won or the moderator ended it

Private events such as role_assigned and peek_result arrive only on the
feed of the player they belong to.

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			return streamEvents(code, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// eventFrame matches the feed's wire format
type eventFrame struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	RoomCode  string          `json:"room_code"`
	PlayerID  string          `json:"player_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func streamEvents(roomCode string, jsonOutput bool) error {
	url := wsURL(cfg.ServerURL) + "/api/v1/rooms/" + roomCode + "/events"

	header := http.Header{}
	if cfg.Token != "" {
		header.Set("Authorization", "Bearer "+cfg.Token)
	}

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connection refused: HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if !jsonOutput {
		fmt.Printf("Connected to room %s\n", roomCode)
	}

	// Handle interrupt
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				done <- err
				return
			}
			printFrame(message, jsonOutput)
		}
	}()

	select {
	case err := <-done:
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			if !jsonOutput {
				fmt.Println("Disconnected")
			}
			return nil
		}
		return fmt.Errorf("stream error: %w", err)
	case <-interrupt:
		// Ask for a clean close, then give the server a moment to ack
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
		if !jsonOutput {
			fmt.Println("\nDisconnected")
		}
		return nil
	}
}

// wsURL converts the configured server URL to its WebSocket scheme
func wsURL(serverURL string) string {
	url := strings.TrimSuffix(serverURL, "/")
	if strings.HasPrefix(url, "https://") {
		return "wss://" + strings.TrimPrefix(url, "https://")
	}
	return "ws://" + strings.TrimPrefix(url, "http://")
}

func printFrame(message []byte, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(string(message))
		return
	}

	var frame eventFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		fmt.Printf("[?] %s\n", string(message))
		return
	}

	timestamp := frame.Timestamp.Format("2006-01-02 15:04:05")

	displayData := string(frame.Payload)
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	displayData = strings.ReplaceAll(displayData, "\n", " ")

	fmt.Printf("[%s] %s: %s\n", timestamp, frame.Type, displayData)
}
