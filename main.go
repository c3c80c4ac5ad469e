package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "combatlog_check",
	Short:         "Warcraft Logs cast efficiency analyzer",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Stack().Err(err).Msg("exit")
		os.Exit(1)
	}
}
