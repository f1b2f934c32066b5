package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tonearm/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and adjust the live voting limits",
	}
	cmd.AddCommand(newConfigShowCommand(ctx))
	cmd.AddCommand(newConfigSetCommand(ctx))
	cmd.AddCommand(newConfigInitCommand(ctx))
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the limits the daemon is currently enforcing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.dial()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.LimitsGet()
			if err != nil {
				return err
			}
			printLimits(resp.Limits)
			return nil
		},
	}
}

func newConfigSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key>=<value> [<key>=<value>...]",
		Short: "Update limits on the running daemon",
		Long: `Update one or more voting limits without restarting the daemon.

Known keys: gong_limit, vote_limit, vote_immune_limit, flush_vote_limit,
vote_time_limit_minutes, user_gong_cap, user_vote_cap.

Changes apply to the next ballot and do not persist across restarts;
edit the configuration file to make them permanent.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := parseLimitPatch(args)
			if err != nil {
				return err
			}
			client, err := ctx.dial()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.LimitsSet(patch)
			if err != nil {
				return err
			}
			printLimits(resp.Limits)
			return nil
		},
	}
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a commented sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteSample(*ctx.configFlag)
			if err != nil {
				return err
			}
			fmt.Printf("Wrote sample configuration to %s\n", path)
			return nil
		},
	}
}

func parseLimitPatch(args []string) (config.LimitPatch, error) {
	var patch config.LimitPatch
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return config.LimitPatch{}, fmt.Errorf("invalid argument %q: expected key=value", arg)
		}
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || value <= 0 {
			return config.LimitPatch{}, fmt.Errorf("invalid value for %s: expected a positive integer", key)
		}
		v := value
		switch strings.TrimSpace(key) {
		case "gong_limit":
			patch.GongLimit = &v
		case "vote_limit":
			patch.VoteLimit = &v
		case "vote_immune_limit":
			patch.VoteImmuneLimit = &v
		case "flush_vote_limit":
			patch.FlushVoteLimit = &v
		case "vote_time_limit_minutes":
			patch.VoteTimeLimitMinutes = &v
		case "user_gong_cap":
			patch.UserGongCap = &v
		case "user_vote_cap":
			patch.UserVoteCap = &v
		default:
			return config.LimitPatch{}, fmt.Errorf("unknown limit %q", key)
		}
	}
	return patch, nil
}

func printLimits(limits config.Limits) {
	rows := [][]string{
		{"gong_limit", strconv.Itoa(limits.GongLimit)},
		{"vote_limit", strconv.Itoa(limits.VoteLimit)},
		{"vote_immune_limit", strconv.Itoa(limits.VoteImmuneLimit)},
		{"flush_vote_limit", strconv.Itoa(limits.FlushVoteLimit)},
		{"vote_time_limit_minutes", strconv.Itoa(limits.VoteTimeLimitMinutes)},
		{"user_gong_cap", strconv.Itoa(limits.UserGongCap)},
		{"user_vote_cap", strconv.Itoa(limits.UserVoteCap)},
	}
	fmt.Println(renderTable([]string{"Limit", "Value"}, rows))
}
