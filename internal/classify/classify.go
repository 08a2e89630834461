// Package classify maps predicted demand onto discrete tiers and builds the
// role-specific recommendation narratives.
package classify

import "github.com/cedricly-git/BADS-Capstone-repo/internal/model"

// Recommendation is the tier plus the base narrative per audience.
type Recommendation struct {
	Tier       model.Tier
	Platform   string
	Restaurant string
}

// Classify assigns a demand tier from historical percentile thresholds.
//
// The branches are evaluated strictly in this order: CRITICAL (>= p90), HIGH
// (>= p75), LOW (<= p25), NORMAL otherwise. The LOW check uses <= but only
// runs after the upper checks fail; with degenerate percentile bands from a
// small or skewed sample the upper tiers therefore win ties. Keep this order.
func Classify(value float64, stats model.DemandStats) Recommendation {
	switch {
	case value >= stats.P90:
		return Recommendation{
			Tier: model.TierCritical,
			Platform: "Demand is expected to be much higher than on a normal day. " +
				"Plan significantly more active riders (e.g. +20-30% vs a typical day), " +
				"ensure enough budget for boosts and surges, and closely monitor " +
				"delivery times and service quality.",
			Restaurant: "Prepare for a very busy service compared with a typical day. " +
				"Add extra kitchen staff for peak periods, simplify the menu if needed, " +
				"and pre-prepare your best-selling dishes to avoid bottlenecks and stock-outs.",
		}
	case value >= stats.P75:
		return Recommendation{
			Tier: model.TierHigh,
			Platform: "Demand should be above average. Schedule a few additional riders " +
				"(e.g. +10-15%), and consider moderate incentives during the main peak periods.",
			Restaurant: "Expect a busy but manageable service. Slightly increase kitchen " +
				"staffing and make sure you have enough stock of your core dishes so you " +
				"don't run out at peak time.",
		}
	case value <= stats.P25:
		return Recommendation{
			Tier: model.TierLow,
			Platform: "Demand is likely to be below normal. No need to push for maximum " +
				"volume; you can keep incentives low and focus on targeted marketing or " +
				"retention campaigns.",
			Restaurant: "Expect a quieter day than usual. Avoid over-staffing and be careful " +
				"with fresh-product orders to keep waste under control. If you want more " +
				"volume, use small promotions rather than large stock increases.",
		}
	default:
		return Recommendation{
			Tier: model.TierNormal,
			Platform: "Demand is expected to be close to a typical day. Keep your usual " +
				"number of active riders and standard incentive schemes, but monitor the " +
				"forecast in case local events change the picture.",
			Restaurant: "Plan for a normal service. Maintain your standard staffing and " +
				"stock levels and treat this as a baseline week to compare with future " +
				"high- or low-demand periods.",
		}
	}
}

// PercentileBand labels where a value falls in the historical distribution,
// for display next to each forecast day.
func PercentileBand(value float64, stats model.DemandStats) string {
	switch {
	case value >= stats.P90:
		return "90th+"
	case value >= stats.P75:
		return "75th-90th"
	case value <= stats.P25:
		return "25th or below"
	default:
		return "25th-75th"
	}
}
