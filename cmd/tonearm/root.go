package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var socketFlag string
	var configFlag string
	var userFlag string

	ctx := newCommandContext(&socketFlag, &configFlag, &userFlag)

	rootCmd := &cobra.Command{
		Use:           "tonearm",
		Short:         "Tonearm playback voting CLI",
		Long:          "Cast and inspect the quorum votes that moderate the shared playback queue.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&socketFlag, "socket", "", "Path to the tonearmd socket")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Acting chat user (defaults to $USER)")

	rootCmd.AddCommand(newGongCommand(ctx))
	rootCmd.AddCommand(newVoteCommand(ctx))
	rootCmd.AddCommand(newImmuneCommand(ctx))
	rootCmd.AddCommand(newFlushCommand(ctx))
	rootCmd.AddCommand(newBanCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
