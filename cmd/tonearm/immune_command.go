package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newImmuneCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "immune <slot>",
		Short: "Vote to grant a queued track gong immunity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid slot %q: expected a queue position", args[0])
			}
			user, err := ctx.user()
			if err != nil {
				return err
			}
			client, err := ctx.dial()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.ImmuneVote(user, slot)
			if err != nil {
				return err
			}
			if !resp.Accepted {
				fmt.Println(rejectionMessage(resp.Rejection, resp.Track))
				return nil
			}
			if resp.Triggered {
				fmt.Printf("Immunity quorum reached: %s can no longer be gonged\n", resp.Track)
				return nil
			}
			fmt.Printf("Immunity vote recorded for %s in slot %d (%d of %d)\n", resp.Track, resp.Slot, resp.Tally, resp.Needed)
			return nil
		},
	}

	cmd.AddCommand(newImmuneCheckCommand(ctx))
	cmd.AddCommand(newImmuneListCommand(ctx))
	return cmd
}

func newImmuneCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "List open immunity votes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.dial()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.ImmuneVoteCheck()
			if err != nil {
				return err
			}
			printSlotVotes("No immunity votes are open.", resp.Votes)
			return nil
		},
	}
}

func newImmuneListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracks that are immune to gongs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.dial()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.ImmuneList()
			if err != nil {
				return err
			}
			if len(resp.Tracks) == 0 {
				fmt.Println("No tracks are immune.")
				return nil
			}
			rows := make([][]string, 0, len(resp.Tracks))
			for _, track := range resp.Tracks {
				rows = append(rows, []string{track})
			}
			fmt.Println(renderTable([]string{"Immune Track"}, rows))
			return nil
		},
	}
}

func newBanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ban <title> [artist]",
		Short: "Mark a track immune without a vote",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]
			artist := ""
			if len(args) == 2 {
				artist = args[1]
			}
			user, err := ctx.user()
			if err != nil {
				return err
			}
			client, err := ctx.dial()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.Ban(user, title, artist)
			if err != nil {
				return err
			}
			fmt.Printf("%s is now immune to gongs\n", resp.Track)
			return nil
		},
	}
}
