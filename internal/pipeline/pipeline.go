package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"wwtp-carbon/internal/analysis"
	"wwtp-carbon/internal/carbon"
	"wwtp-carbon/internal/ingest"
	"wwtp-carbon/internal/model"
	"wwtp-carbon/internal/optimize"
)

// Options selects the reporting month and the what-if settings.
type Options struct {
	// Month defaults to the dataset's latest month.
	Month       string
	AerationPct float64
	PACPct      float64
	Anomaly     analysis.AnomalyConfig
	// Concurrency bounds how many months are enriched at once (default 4).
	Concurrency int
}

// Report is everything the dashboard renders for one month.
type Report struct {
	Month       string    `json:"month"`
	Months      []string  `json:"months"`
	GeneratedAt time.Time `json:"generated_at"`

	Summary      analysis.Summary    `json:"summary"`
	History      []analysis.Summary  `json:"history"`
	DailyStats   analysis.DailyStats `json:"daily_stats"`
	Heatmap      []analysis.HeatCell `json:"heatmap"`
	Flow         analysis.FlowGraph  `json:"flow"`
	Statement    analysis.Statement  `json:"statement"`
	Ranking      analysis.Ranking    `json:"ranking"`
	Anomaly      analysis.Anomaly    `json:"anomaly"`
	Optimization *optimize.Result    `json:"optimization"`

	Records  []model.EnrichedRecord `json:"records"`
	Issues   []model.NumericIssue   `json:"issues,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
}

var ErrNoDataset = errors.New("no dataset loaded")

type monthResult struct {
	table  *model.Table
	issues []model.NumericIssue
}

// Run enriches every month of ds independently, then derives the selected
// month's report. Months share nothing, so they run in parallel; the first
// failing month cancels the rest.
func Run(ctx context.Context, e *carbon.Engine, ds *ingest.Dataset, opts Options) (*Report, error) {
	if ds == nil || ds.Table == nil {
		return nil, ErrNoDataset
	}
	month := opts.Month
	if month == "" {
		month = ds.LatestMonth()
	}
	if !ds.HasMonth(month) {
		return nil, fmt.Errorf("month %q not in dataset", month)
	}
	if opts.Anomaly == (analysis.AnomalyConfig{}) {
		opts.Anomaly = analysis.DefaultAnomalyConfig()
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = 4
	}

	results := make([]monthResult, len(ds.Months))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, m := range ds.Months {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.Run(ds.Month(m))
			if err != nil {
				return fmt.Errorf("month %s: %w", m, err)
			}
			results[i] = monthResult{table: res.Table, issues: res.Issues}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	partition := e.Factors().Display
	history := make([]analysis.Summary, len(ds.Months))
	var current monthResult
	for i, m := range ds.Months {
		history[i] = analysis.Summarize(m, results[i].table, partition)
		if m == month {
			current = results[i]
		}
	}
	summary := history[indexOf(ds.Months, month)]

	opt, err := optimize.Levels(summary, opts.AerationPct, opts.PACPct)
	if err != nil {
		return nil, err
	}

	records := current.table.EnrichedRecords()
	return &Report{
		Month:       month,
		Months:      append([]string(nil), ds.Months...),
		GeneratedAt: time.Now().UTC(),

		Summary:      summary,
		History:      history,
		DailyStats:   analysis.ComputeDailyStats(records),
		Heatmap:      analysis.Heatmap(summary),
		Flow:         analysis.CarbonFlow(summary, partition),
		Statement:    analysis.AccountStatement(summary, partition),
		Ranking:      analysis.RankByEfficiency(summary),
		Anomaly:      analysis.DetectAnomaly(summary, history, opts.Anomaly),
		Optimization: opt,

		Records:  records,
		Issues:   current.issues,
		Warnings: append([]string(nil), ds.Warnings...),
	}, nil
}

func indexOf(xs []string, x string) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}
