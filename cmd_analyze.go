package main

import (
	"os"

	"combatlog_check/analysis"
	"combatlog_check/combatlog"
	"combatlog_check/config"
	"combatlog_check/logger"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <events.json>",
	Short: "Replay a JSON cast event file through a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("preset", "p", "", "preset name")
	analyzeCmd.Flags().IntP("source", "s", 0, "source actor ID")
	analyzeCmd.MarkFlagRequired("preset")
	analyzeCmd.MarkFlagRequired("source")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg.LogLevel, true)

	data, err := loadGameData(cfg)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("preset")
	sourceID, _ := cmd.Flags().GetInt("source")

	preset, ok := data.presets.Lookup(name)
	if !ok {
		return errors.Errorf("unknown preset %q", name)
	}

	fs, err := os.Open(args[0])
	if err != nil {
		return errors.WithStack(err)
	}
	defer fs.Close()

	events, err := combatlog.Decode(fs)
	if err != nil {
		return err
	}

	r := analysis.AnalyzeEvents(preset.Config(data.abilities), data.abilities, events, sourceID)

	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return errors.WithStack(enc.Encode(r))
}
