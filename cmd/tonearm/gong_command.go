package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGongCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gong",
		Short: "Vote to skip the current track",
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

			resp, err := client.Gong(user)
			if err != nil {
				return err
			}
			if !resp.Accepted {
				fmt.Println(rejectionMessage(resp.Rejection, resp.Track))
				return nil
			}
			if resp.Skipped {
				fmt.Printf("Gong quorum reached: skipping %s\n", resp.Track)
				return nil
			}
			fmt.Printf("Gong recorded for %s (%d of %d)\n", resp.Track, resp.Tally, resp.Needed)
			return nil
		},
	}

	cmd.AddCommand(newGongCheckCommand(ctx))
	return cmd
}

func newGongCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Show the gong tally for the current track",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.dial()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.GongCheck()
			if err != nil {
				return err
			}
			if !resp.Playing {
				fmt.Println("Nothing is playing.")
				return nil
			}
			if resp.Immune {
				fmt.Printf("%s is immune and cannot be gonged.\n", resp.Track)
				return nil
			}
			fmt.Printf("%s: %d gong(s) so far, %d more to skip\n", resp.Track, resp.Tally, resp.Remaining)
			return nil
		},
	}
}
