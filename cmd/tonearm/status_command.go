package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and live limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.dial()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.Status()
			if err != nil {
				return err
			}

			rows := [][]string{
				{"PID", strconv.Itoa(resp.PID)},
				{"Socket", resp.SocketPath},
				{"Immune tracks", strconv.Itoa(resp.ImmuneCount)},
				{"Gong quorum", strconv.Itoa(resp.Limits.GongLimit)},
				{"Vote quorum", strconv.Itoa(resp.Limits.VoteLimit)},
				{"Immunity quorum", strconv.Itoa(resp.Limits.VoteImmuneLimit)},
				{"Flush quorum", strconv.Itoa(resp.Limits.FlushVoteLimit)},
				{"Flush window (min)", strconv.Itoa(resp.Limits.VoteTimeLimitMinutes)},
				{"Per-user gong cap", strconv.Itoa(resp.Limits.UserGongCap)},
				{"Per-user vote cap", strconv.Itoa(resp.Limits.UserVoteCap)},
			}
			if resp.ActionDBPath != "" {
				rows = append(rows, []string{"Action log", resp.ActionDBPath})
			}
			fmt.Println(renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}
}
