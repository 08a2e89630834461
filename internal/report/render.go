package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
)

// Role selects which audience's recommendations the dashboard shows.
type Role string

const (
	RolePlatform   Role = "platform"
	RoleRestaurant Role = "restaurant"
)

// RenderContext carries the presentation options for a text render.
type RenderContext struct {
	Role     Role
	Detailed bool // include per-day recommendation paragraphs
}

// RenderText renders the run as a plain-text dashboard.
func RenderText(run *model.ForecastRun, rc RenderContext) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	fmt.Fprintf(&b, "7-Day Demand Forecast — generated %s\n", run.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "Model: %s (R² %.4f, RMSE %.2f, schema %s)\n",
		run.Model.Name, run.Model.R2, run.Model.RMSE, run.Model.SchemaVersion)
	if run.Stats.Fallback {
		b.WriteString("Note: historical demand source unavailable; tiers use the fallback distribution.\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%-12s %-10s %8s %8s %8s %10s  %s\n",
		"Date", "Weekday", "Max °C", "Min °C", "Rain mm", "Demand", "Tier")
	for _, d := range run.Days {
		p.Fprintf(&b, "%-12s %-10s %8.1f %8.1f %8.1f %10d  %s\n",
			d.Date.Format("2006-01-02"), d.Date.Weekday().String(),
			d.TempMax, d.TempMin, d.Precipitation,
			int64(d.PredictedDemand+0.5), string(d.Tier))
	}
	b.WriteString("\n")

	p.Fprintf(&b, "Week: avg %d searches/day, total %d (%+.1f%% vs historical mean)\n",
		int64(run.Week.Average+0.5), int64(run.Week.Total+0.5), run.Week.VsHistoricalPc)
	p.Fprintf(&b, "Peak: %s (%d). High-demand days: %d.\n",
		run.Week.PeakDate.Format("Mon 2006-01-02"), int64(run.Week.PeakDemand+0.5), run.Week.HighDemandDays)
	fmt.Fprintf(&b, "%s\n", run.Week.Assessment)

	if top := PriorityDays(run.Days, 3); len(top) > 0 {
		b.WriteString("\nPriority days:\n")
		for _, d := range top {
			p.Fprintf(&b, "  %s — %d (%s, %s percentile)\n",
				d.Date.Format("Mon 2006-01-02"), int64(d.PredictedDemand+0.5),
				string(d.Tier), d.PercentileBand)
		}
	}

	if rc.Detailed {
		for _, d := range run.Days {
			fmt.Fprintf(&b, "\n%s (%s):\n", d.Date.Format("Monday, 2 January 2006"), string(d.Tier))
			base, weatherNote := d.Platform, d.PlatformWeather
			if rc.Role == RoleRestaurant {
				base, weatherNote = d.Restaurant, d.RestaurantWeather
			}
			fmt.Fprintf(&b, "  %s\n", base)
			if weatherNote != "" {
				fmt.Fprintf(&b, "  Weather: %s\n", weatherNote)
			}
		}
	}

	return b.String()
}
