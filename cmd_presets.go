package main

import (
	"fmt"

	"combatlog_check/config"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the accountant presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		data, err := loadGameData(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, name := range data.presets.Names() {
			p := data.presets[name]
			fmt.Fprintf(out, "%-20s %s -> %s, %dms\n",
				name,
				data.abilities.Name(p.Feeder),
				data.abilities.Name(p.Target),
				p.ReductionMs,
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
