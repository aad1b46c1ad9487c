package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomCloseCmd())
	cmd.AddCommand(newRoomBotsCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var name, passcode string
	var autonomous bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room and take the moderator seat",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"moderator_name": name}
			if passcode != "" {
				req["passcode"] = passcode
			}
			if autonomous {
				req["autonomous"] = true
			}

			var result Seat

			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Moderator display name (required)")
	cmd.Flags().StringVar(&passcode, "passcode", "", "Passcode players must present to join")
	cmd.Flags().BoolVar(&autonomous, "autonomous", false, "Let the server run phase timers instead of the moderator")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRoomJoinCmd() *cobra.Command {
	var name, passcode, secret string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room, or reconnect with --secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if name == "" && secret == "" {
				return fmt.Errorf("--name is required unless reconnecting with --secret")
			}

			req := map[string]any{}
			if name != "" {
				req["display_name"] = name
			}
			if passcode != "" {
				req["passcode"] = passcode
			}
			if secret != "" {
				req["secret_token"] = secret
			}

			var result Seat

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/join", code), req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&passcode, "passcode", "", "Room passcode")
	cmd.Flags().StringVar(&secret, "secret", "", "Seat secret from a previous join, reclaims that seat")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get your view of the room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Room

			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s", code), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <code>",
		Short: "Leave a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/leave", code), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Left room %s", code))
			return nil
		},
	}
}

func newRoomCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <code>",
		Short: "Close a room (moderator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Delete(fmt.Sprintf("/api/v1/rooms/%s", code), nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Room %s closed", code))
			return nil
		},
	}
}

func newRoomBotsCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "bots <code>",
		Short: "Seat bot players in the lobby (moderator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}

			var result Room
			for i := 0; i < count; i++ {
				if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/bots", code), nil, &result); err != nil {
					return err
				}
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "Number of bots to add")

	return cmd
}
