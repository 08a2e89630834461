// Package report aggregates a forecast run into summaries, renders the text
// dashboard and writes the export files.
package report

import (
	"sort"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
)

// Assessment texts for the week-level verdict.
const (
	AssessmentAbove   = "Above-average demand expected this week"
	AssessmentBelow   = "Below-average demand expected this week"
	AssessmentTypical = "Typical demand expected this week"
)

// assessmentBandPct is the symmetric band around the historical mean within
// which a week counts as typical.
const assessmentBandPct = 15.0

// Summarize aggregates the forecast days against the historical distribution.
func Summarize(days []model.ForecastDay, stats model.DemandStats) model.WeekSummary {
	if len(days) == 0 {
		return model.WeekSummary{Assessment: AssessmentTypical}
	}

	var summary model.WeekSummary
	peak := days[0]
	for _, d := range days {
		summary.Total += d.PredictedDemand
		if d.PredictedDemand >= stats.P75 {
			summary.HighDemandDays++
		}
		if d.PredictedDemand > peak.PredictedDemand {
			peak = d
		}
	}
	summary.Average = summary.Total / float64(len(days))
	summary.PeakDate = peak.Date
	summary.PeakDemand = peak.PredictedDemand

	if stats.Mean != 0 {
		summary.VsHistoricalPc = (summary.Average - stats.Mean) / stats.Mean * 100
	}

	switch {
	case summary.VsHistoricalPc > assessmentBandPct:
		summary.Assessment = AssessmentAbove
	case summary.VsHistoricalPc < -assessmentBandPct:
		summary.Assessment = AssessmentBelow
	default:
		summary.Assessment = AssessmentTypical
	}

	return summary
}

// PriorityDays returns up to n forecast days ordered by descending predicted
// demand, for the operator's attention list. Ties keep date order.
func PriorityDays(days []model.ForecastDay, n int) []model.ForecastDay {
	out := make([]model.ForecastDay, len(days))
	copy(out, days)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PredictedDemand > out[j].PredictedDemand
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}
