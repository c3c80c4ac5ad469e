package analysis

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"combatlog_check/analysis/efficiency"
	"combatlog_check/analysis/suggestion"
	"combatlog_check/analysis/wcl"
	"combatlog_check/combatlog"
	"combatlog_check/share"
	"combatlog_check/share/parallel"
	"combatlog_check/wow"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	StateNormal   = "normal"
	StateInvalid  = "invalid"
	StateNotFound = "notfound"
	StateNoLog    = "nolog"
)

// EventSource provides fights and cast events of a report.
type EventSource interface {
	Fights(ctx context.Context, code string, fightIDs []int) (*wcl.Report, error)
	CastEvents(ctx context.Context, code string, fight wcl.Fight, sourceID int) ([]combatlog.CastEvent, error)
}

type Analyzer struct {
	Source    EventSource
	Presets   Presets
	Abilities wow.Abilities
	Workers   int
}

type Result struct {
	UpdatedAt string `json:"updated_at"`
	State     string `json:"state"`

	ReportCode string `json:"report_code"`
	Player     string `json:"player"`
	Preset     string `json:"preset"`
	Feeder     string `json:"feeder"`
	Target     string `json:"target"`
	ReportLink string `json:"report_link"`

	Fights []*FightResult `json:"fights"`
	Total  *FightResult   `json:"total"`
}

// Do analyzes the request and renders the result page into buf. It returns
// false when the analysis could not be completed.
func (a *Analyzer) Do(ctx context.Context, reqData *RequestData, progress func(p string), buf *bytes.Buffer) bool {
	r, err := a.Analyze(ctx, reqData, progress)
	if err != nil {
		share.CaptureError(err)
		return false
	}

	err = tmplResult.Execute(buf, r)
	if err != nil {
		share.CaptureError(errors.WithStack(err))
		return false
	}

	return true
}

func (a *Analyzer) Analyze(ctx context.Context, reqData *RequestData, progress func(p string)) (*Result, error) {
	r := &Result{
		UpdatedAt:  time.Now().Format("2006-01-02 15:04:05"),
		State:      StateInvalid,
		ReportCode: reqData.ReportCode,
	}
	if progress == nil {
		progress = func(string) {}
	}

	if !reqData.CheckOptionValidation() {
		return r, nil
	}
	preset, ok := a.Presets[reqData.Preset]
	if !ok {
		return r, nil
	}
	cfg := preset.Config(a.Abilities)

	r.Preset = preset.Title
	r.Feeder = cfg.FeederName
	r.Target = cfg.TargetName
	r.ReportCode = reqData.ReportCode
	r.ReportLink = fmt.Sprintf("https://www.warcraftlogs.com/reports/%s", reqData.ReportCode)

	logger := log.With().Str("report", reqData.ReportCode).Int("source", reqData.SourceID).Logger()
	logger.Info().Ints("fights", reqData.FightIDs).Str("preset", reqData.Preset).Msg("analysis start")

	////////////////////////////////////////////////////////////////////////////////////////////////////

	progress("[1 / 2] Loading report...")

	report, err := a.Source.Fights(ctx, reqData.ReportCode, reqData.FightIDs)
	if err != nil {
		if errors.Cause(err) == wcl.ErrReportNotFound {
			r.State = StateNotFound
			return r, nil
		}
		return nil, err
	}
	if actor, ok := report.Actor(reqData.SourceID); ok {
		r.Player = actor.Name
	}
	if len(report.Fights) == 0 {
		r.State = StateNoLog
		return r, nil
	}

	////////////////////////////////////////////////////////////////////////////////////////////////////

	workers := a.Workers
	if workers <= 0 {
		workers = 1
	}
	pp := parallel.New(workers)
	pp.Reset(ctx)

	var (
		worked     int
		progressMu sync.Mutex
		nextReport time.Time
	)
	fightProgress := func() {
		progressMu.Lock()
		defer progressMu.Unlock()

		worked++
		n := worked
		if n < len(report.Fights) && time.Now().Before(nextReport) {
			return
		}
		nextReport = time.Now().Add(200 * time.Millisecond)
		progress(fmt.Sprintf("[2 / 2] Analyzing fights... %.2f %%", float32(n)/float32(len(report.Fights))*100))
	}

	r.Fights = make([]*FightResult, len(report.Fights))
	for i, fight := range report.Fights {
		i, fight := i, fight

		pp.Add(func(ctx context.Context) error {
			if ctx.Err() != nil {
				return nil
			}

			events, err := a.Source.CastEvents(ctx, reqData.ReportCode, fight, reqData.SourceID)
			if err != nil {
				return errors.Wrapf(err, "fight %d", fight.ID)
			}

			fr := AnalyzeEvents(cfg, a.Abilities, events, reqData.SourceID)
			fr.FightID = fight.ID
			fr.Name = fight.Name
			fr.Kill = fight.Kill
			fr.Duration = fight.EndTime - fight.StartTime
			r.Fights[i] = fr

			logger.Debug().Int("fight", fight.ID).Int("casts", fr.Counters.TotalCasts).Msg("fight analyzed")
			fightProgress()
			return nil
		})
	}

	if err := pp.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	sort.Slice(
		r.Fights,
		func(i, k int) bool {
			return r.Fights[i].FightID < r.Fights[k].FightID
		},
	)

	r.Total = total(cfg, r.Fights)
	r.State = StateNormal

	logger.Info().Int("casts", r.Total.Counters.TotalCasts).Float64("efficiency", r.Total.Statistic.Efficiency).Msg("analysis done")

	return r, nil
}

// total sums the counters of all fights; ratios are recomputed from the sums.
func total(cfg efficiency.Config, fights []*FightResult) *FightResult {
	t := &FightResult{Name: "Total"}
	for _, f := range fights {
		t.Counters = t.Counters.Add(f.Counters)
		t.Duration += f.Duration
	}

	t.Statistic = t.Counters.Statistic(cfg.ReductionMs)
	t.Suggestions = cfg.Suggestions(t.Counters)
	if t.Suggestions == nil {
		t.Suggestions = []suggestion.Suggestion{}
	}
	return t
}
