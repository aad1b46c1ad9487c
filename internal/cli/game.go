package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameActionCmd())
	cmd.AddCommand(newGameVoteCmd())
	cmd.AddCommand(newGameVerdictCmd())
	cmd.AddCommand(newGameReadyCmd())
	cmd.AddCommand(newGameAdvanceCmd())
	cmd.AddCommand(newGameEndCmd())
	cmd.AddCommand(newGameResetCmd())

	return cmd
}

func newGameStartCmd() *cobra.Command {
	var roleFlags []string

	cmd := &cobra.Command{
		Use:   "start <code>",
		Short: "Deal roles and start the game (moderator only)",
		Long: `Deal roles and start the game. Role counts are given as repeated
--role flags; seats not covered by a count are dealt as villagers.

Example:
  wolfgame game start ABCDEF --role werewolf=2 --role seer=1 --role guard=1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			roles, err := parseRoleCounts(roleFlags)
			if err != nil {
				return err
			}

			req := map[string]any{"roles": roles}
			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/game", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&roleFlags, "role", nil, "Role count as name=n, repeatable (e.g. werewolf=2)")

	return cmd
}

func parseRoleCounts(flags []string) (map[string]int, error) {
	roles := make(map[string]int, len(flags))
	for _, f := range flags {
		name, countStr, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid role %q, expected name=count", f)
		}
		count, err := strconv.Atoi(countStr)
		if err != nil {
			return nil, fmt.Errorf("invalid count in role %q: %w", f, err)
		}
		roles[name] = count
	}
	return roles, nil
}

func newGameActionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "action <code> <ability> [target-id]",
		Short: "Submit a night or day ability",
		Long: `Submit an ability for the current phase. Most abilities take a target
player id; the witch's save and the lawyer's defend resolve without one
when omitted targets default sensibly.

Abilities:
  wolf_kill  werewolves' shared night kill
  curse      alpha wolf, turns the victim instead of killing
  protect    guard, shields one player for the night
  save       witch, cancels tonight's wolf kill
  poison     witch, kills one player tonight
  peek       seer, learns a player's role
  watch      tracker, sees who a player targets
  mark       hunter, drags the mark down if the hunter dies
  defend     lawyer, voids the day's execution of the chosen client`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			ability := args[1]

			req := map[string]string{"ability": ability}
			if len(args) == 3 {
				req["target_id"] = args[2]
			}

			var result ActionReceipt

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/game/action", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameVoteCmd() *cobra.Command {
	var skip bool

	cmd := &cobra.Command{
		Use:   "vote <code> [target-id]",
		Short: "Cast your day-vote ballot",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if len(args) == 2 && skip {
				return fmt.Errorf("give a target or --skip, not both")
			}
			if len(args) == 1 && !skip {
				return fmt.Errorf("give a target id, or --skip to abstain")
			}

			req := map[string]string{}
			if len(args) == 2 {
				req["target_id"] = args[1]
			}

			var result VoteTally

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/game/vote", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skip, "skip", false, "Abstain instead of naming a target")

	return cmd
}

func newGameVerdictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verdict <code> <execute|spare>",
		Short: "Vote on the accused's fate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			verdict := args[1]

			if verdict != "execute" && verdict != "spare" {
				return fmt.Errorf("verdict must be execute or spare")
			}

			req := map[string]string{"verdict": verdict}

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/game/verdict", code), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Verdict recorded: %s", verdict))
			return nil
		},
	}
}

func newGameReadyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ready <code>",
		Short: "Signal you are ready to move to the vote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/game/ready", code), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Ready signalled")
			return nil
		},
	}
}

func newGameAdvanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <code>",
		Short: "Advance to the next phase (moderator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/game/advance", code), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <code>",
		Short: "End the game without a winner (moderator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Room

			if err := client.Delete(fmt.Sprintf("/api/v1/rooms/%s/game", code), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <code>",
		Short: "Return a finished room to the lobby (moderator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/game/reset", code), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
