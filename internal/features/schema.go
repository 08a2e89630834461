package features

import "github.com/rotisserie/eris"

// SchemaVersion identifies the feature schema the point-predictor must be
// fitted against. Bump whenever FeatureOrder changes.
const SchemaVersion = "v1"

// ErrSchemaMismatch is returned when a requested feature vector diverges from
// the schema the predictor expects. This must never be silently coerced: a
// reordered vector produces plausible-looking but wrong predictions.
var ErrSchemaMismatch = eris.New("features: schema mismatch")

// Feature names. The predictor's weights file refers to these keys.
const (
	FIsWeekend            = "is_weekend"
	FIsHoliday            = "is_holiday"
	FWeekdaySin           = "dayofweek_sin"
	FWeekdayCos           = "dayofweek_cos"
	FMonthSin             = "month_sin"
	FMonthCos             = "month_cos"
	FTempMax              = "temp_max"
	FTempMin              = "temp_min"
	FPrecipitation        = "precipitation"
	FTempRange            = "temp_range"
	FTempComfort          = "temp_comfort"
	FPrecipBinary         = "precip_binary"
	FPrecipHeavy          = "precip_heavy"
	FTempMaxLag1          = "temp_max_lag1"
	FTempMinLag1          = "temp_min_lag1"
	FPrecipitationLag1    = "precipitation_lag1"
	FDemandLag1           = "demand_lag1"
	FDemandLag7           = "demand_lag7"
	FTempMaxLag7          = "temp_max_lag7"
	FTempMinLag7          = "temp_min_lag7"
	FPrecipitationLag7    = "precipitation_lag7"
	FTempMax7d            = "temp_max_7d"
	FPrecipitation7d      = "precipitation_7d"
	FTempMaxSquared       = "temp_max_squared"
	FTempMaxWeekend       = "temp_max_weekend"
	FPrecipitationWeekend = "precipitation_weekend"
	FTempComfortWeekend   = "temp_comfort_weekend"
)

// FeatureOrder is the exact, versioned field order the point-predictor was
// fitted with. Both vector extraction and predictor schema validation consume
// this single constant; never inline a field list at a call site.
var FeatureOrder = []string{
	FIsWeekend, FIsHoliday, FWeekdaySin, FWeekdayCos,
	FMonthSin, FMonthCos,
	FTempMax, FTempMin, FPrecipitation, FTempRange, FTempComfort,
	FPrecipBinary, FPrecipHeavy,
	FTempMaxLag1, FTempMinLag1, FPrecipitationLag1, FDemandLag1,
	FDemandLag7,
	FTempMaxLag7, FTempMinLag7, FPrecipitationLag7,
	FTempMax7d, FPrecipitation7d,
	FTempMaxSquared,
	FTempMaxWeekend, FPrecipitationWeekend, FTempComfortWeekend,
}

// CategoricalFeatures are the flags the predictor expects as exact integers.
var CategoricalFeatures = map[string]bool{
	FIsWeekend:    true,
	FIsHoliday:    true,
	FPrecipBinary: true,
	FPrecipHeavy:  true,
}
