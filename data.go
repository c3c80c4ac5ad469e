package main

import (
	"bytes"
	"os"

	"combatlog_check/analysis"
	"combatlog_check/config"
	"combatlog_check/wow"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type gameData struct {
	abilities wow.Abilities
	presets   analysis.Presets

	// raw files, used to invalidate caches when the data changes
	abilitiesData []byte
	presetsData   []byte
}

func loadGameData(cfg *config.Config) (*gameData, error) {
	d := &gameData{
		abilities:     wow.Default,
		presets:       analysis.DefaultPresets,
		abilitiesData: wow.Data(),
		presetsData:   analysis.PresetsData(),
	}

	if cfg.AbilitiesFile != "" {
		data, err := os.ReadFile(cfg.AbilitiesFile)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		d.abilities, err = wow.Load(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrapf(err, "abilities %s", cfg.AbilitiesFile)
		}
		d.abilitiesData = data
		log.Info().Str("path", cfg.AbilitiesFile).Int("count", len(d.abilities)).Msg("abilities loaded")
	}

	if cfg.PresetsFile != "" {
		p, data, err := analysis.LoadPresetsFile(cfg.PresetsFile)
		if err != nil {
			return nil, errors.Wrapf(err, "presets %s", cfg.PresetsFile)
		}
		d.presets = p
		d.presetsData = data
		log.Info().Str("path", cfg.PresetsFile).Strs("presets", p.Names()).Msg("presets loaded")
	}

	return d, nil
}
