package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFlushCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Vote to clear the playback queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := ctx.user()
			if err != nil {
				return err
			}
			client, err := ctx.dial()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.Flush(user)
			if err != nil {
				return err
			}
			if !resp.Accepted {
				fmt.Println(rejectionMessage(resp.Rejection, ""))
				return nil
			}
			if resp.Flushed {
				fmt.Println("Flush quorum reached: queue cleared")
				return nil
			}
			if resp.Opened {
				fmt.Printf("Flush vote opened (%d of %d)\n", resp.Tally, resp.Needed)
				return nil
			}
			fmt.Printf("Flush vote recorded (%d of %d)\n", resp.Tally, resp.Needed)
			return nil
		},
	}
}
