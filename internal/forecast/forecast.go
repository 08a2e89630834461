// Package forecast runs the sequential demand prediction loop and the
// end-to-end pipeline that feeds it.
package forecast

import (
	"github.com/rotisserie/eris"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/features"
)

// Predictor is the injected point-prediction capability. Predict consumes a
// feature vector ordered exactly as features.FeatureOrder; Schema reports the
// feature schema version the predictor was fitted against.
type Predictor interface {
	Predict(vector []float64) (float64, error)
	Schema() string
}

// Sequential walks the forecast-window rows in date order, predicting each
// day and propagating the prediction into the demand lag features of later
// rows before those are vectorized. This loop is strictly sequential: row
// i's demand_lag1 may be row i-1's prediction.
//
// The table is mutated in place; rows before ForecastStart are never touched.
// A predictor failure aborts the whole run: by lag propagation it would taint
// every later day, and a silently substituted default is worse than a visible
// failure.
func Sequential(table *features.Table, p Predictor) ([]float64, error) {
	if p.Schema() != features.SchemaVersion {
		return nil, eris.Wrapf(features.ErrSchemaMismatch,
			"forecast: predictor schema %q, expected %q", p.Schema(), features.SchemaVersion)
	}

	predictions := make([]float64, 0, table.ForecastLen())
	for i := table.ForecastStart; i < len(table.Rows); i++ {
		row := &table.Rows[i]

		vector, err := row.Vector(features.FeatureOrder)
		if err != nil {
			return nil, eris.Wrapf(err, "forecast: vectorize %s", row.Date.Format("2006-01-02"))
		}

		y, err := p.Predict(vector)
		if err != nil {
			return nil, eris.Wrapf(err, "forecast: predict %s", row.Date.Format("2006-01-02"))
		}

		predictions = append(predictions, y)
		row.Demand = y
		if i+1 < len(table.Rows) {
			table.Rows[i+1].DemandLag1 = y
		}
		if i+7 < len(table.Rows) {
			table.Rows[i+7].DemandLag7 = y
		}
	}

	return predictions, nil
}
