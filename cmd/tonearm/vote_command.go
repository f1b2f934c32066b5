package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tonearm/internal/ipc"
)

func newVoteCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vote <slot>",
		Short: "Vote to promote a queued track to the front",
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

			resp, err := client.Vote(user, slot)
			if err != nil {
				return err
			}
			if !resp.Accepted {
				fmt.Println(rejectionMessage(resp.Rejection, resp.Track))
				return nil
			}
			if resp.Triggered {
				fmt.Printf("Vote quorum reached: moving %s to the front\n", resp.Track)
				return nil
			}
			fmt.Printf("Vote recorded for %s in slot %d (%d of %d)\n", resp.Track, resp.Slot, resp.Tally, resp.Needed)
			return nil
		},
	}

	cmd.AddCommand(newVoteCheckCommand(ctx))
	return cmd
}

func newVoteCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "List open promotion votes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.dial()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.VoteCheck()
			if err != nil {
				return err
			}
			printSlotVotes("No promotion votes are open.", resp.Votes)
			return nil
		},
	}
}

func printSlotVotes(empty string, votes []ipc.SlotVoteStatus) {
	if len(votes) == 0 {
		fmt.Println(empty)
		return
	}
	rows := make([][]string, 0, len(votes))
	for _, v := range votes {
		rows = append(rows, []string{
			strconv.Itoa(v.Slot),
			v.Track,
			fmt.Sprintf("%d of %d", v.Tally, v.Needed),
		})
	}
	fmt.Println(renderTable([]string{"Slot", "Track", "Votes"}, rows))
}
