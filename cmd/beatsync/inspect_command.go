package main

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"beatsync/internal/audio"
	"beatsync/internal/autosync"
	"beatsync/internal/deps"
	"beatsync/internal/onset"
	"beatsync/internal/services"
)

type inspectReport struct {
	Audio     string         `json:"audio"`
	Analysis  audio.Analysis `json:"analysis"`
	Selection *selectionView `json:"selection,omitempty"`
}

type selectionView struct {
	Strategy    onset.Strategy `json:"strategy"`
	Times       []float64      `json:"times"`
	Synthesized int            `json:"synthesized"`
	Clamped     bool           `json:"clamped"`
}

var (
	onsetColumns = []column{
		{header: "#", numeric: true},
		{header: "Time (s)", numeric: true},
		{header: "Strength", numeric: true},
		{header: "Peak"},
	}
	selectionColumns = []column{
		{header: "Line", numeric: true},
		{header: "Time (s)", numeric: true},
		{header: "Source"},
	}
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <audio>",
		Short: "Show detected onsets and, with --lines, the points that would be selected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if lines < 0 {
				return services.Wrap(services.ErrUsage, "", "", fmt.Sprintf("--lines must not be negative (got %d)", lines), nil)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := deps.Require(deps.CheckBinaries(deps.AnalysisRequirements(cfg))); err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			runCtx := services.WithRunID(cmd.Context(), uuid.NewString())
			analyzer, closeCache := autosync.NewAnalyzer(runCtx, cfg, ctx.cacheDisabled(), logger)
			defer closeCache()
			analysis, err := analyzer.Analyze(services.WithStage(runCtx, "analyze"), args[0])
			if err != nil {
				return err
			}

			report := inspectReport{Audio: args[0], Analysis: analysis}
			if lines > 0 {
				policy := onset.Policy{LeadIn: cfg.Selection.LeadInSeconds, LeadOut: cfg.Selection.LeadOutSeconds}
				sel := onset.Select(analysis.Onsets, lines, analysis.Duration, policy)
				report.Selection = &selectionView{
					Strategy:    sel.Strategy,
					Times:       sel.Times,
					Synthesized: sel.Synthesized,
					Clamped:     sel.Clamped,
				}
			}
			if asJSON {
				return writeJSON(cmd, report)
			}
			renderInspect(cmd, report)
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Also show the points selected for this many lines")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func renderInspect(cmd *cobra.Command, report inspectReport) {
	out := cmd.OutOrStdout()
	analysis := report.Analysis
	fmt.Fprintf(out, "Audio:    %s\n", report.Audio)
	fmt.Fprintf(out, "Duration: %.2fs\n", analysis.Duration)
	fmt.Fprintf(out, "Onsets:   %d\n", analysis.Onsets.Len())

	if analysis.Onsets.Len() > 0 {
		strongest := analysis.Onsets.Strongest()
		rows := make([][]string, 0, analysis.Onsets.Len())
		for i, o := range analysis.Onsets {
			mark := ""
			if i == strongest {
				mark = "*"
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				fmt.Sprintf("%.2f", o.Time),
				fmt.Sprintf("%.3f", o.Strength),
				mark,
			})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(onsetColumns, rows))
	}

	if report.Selection == nil {
		return
	}
	sel := report.Selection
	detected := make(map[float64]struct{}, analysis.Onsets.Len())
	for _, t := range analysis.Onsets.Times() {
		detected[t] = struct{}{}
	}
	rows := make([][]string, 0, len(sel.Times))
	for i, t := range sel.Times {
		source := "fallback"
		if _, ok := detected[t]; ok {
			source = "onset"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), fmt.Sprintf("%.2f", t), source})
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Selection: %s (%d fallback points, clamped: %s)\n", sel.Strategy, sel.Synthesized, yesNo(sel.Clamped))
	fmt.Fprintln(out, renderTable(selectionColumns, rows))
}
