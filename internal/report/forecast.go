package report

// MinForecastHistory is the minimum number of daily points needed before a
// trend line is fitted. With fewer points the forecast is reported as
// unavailable, which is informational rather than an error.
const MinForecastHistory = 7

// ForecastResult holds a short-horizon projection of daily sales.
// This is a plain least-squares line over the recent history, not a
// validated time-series model; treat it as a rough trend indicator.
type ForecastResult struct {
	Available bool      `json:"available"`
	Reason    string    `json:"reason,omitempty"`
	Values    []float64 `json:"values,omitempty"`
	Sum       float64   `json:"sum"`
	Mean      float64   `json:"mean"`
	GrowthPct float64   `json:"growth_pct"`
}

// Forecast fits sales(day) = a + b*day over the historical daily series and
// projects it horizon days past the end of the series. GrowthPct compares the
// forecast mean against the historical mean and is zero when the history
// averaged zero.
func Forecast(daily []DailyBucket, horizon int) ForecastResult {
	if horizon <= 0 {
		horizon = 7
	}
	if len(daily) < MinForecastHistory {
		return ForecastResult{
			Available: false,
			Reason:    "not enough history: forecasting needs at least 7 days of data",
		}
	}

	// Ordinary least squares over (index, sales).
	n := float64(len(daily))
	var sumX, sumY, sumXY, sumXX float64
	for i, b := range daily {
		x := float64(i)
		sumX += x
		sumY += b.Sales
		sumXY += x * b.Sales
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	var slope float64
	if denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
	}
	intercept := (sumY - slope*sumX) / n

	result := ForecastResult{
		Available: true,
		Values:    make([]float64, horizon),
	}
	for i := 0; i < horizon; i++ {
		v := intercept + slope*float64(len(daily)+i)
		result.Values[i] = v
		result.Sum += v
	}
	result.Mean = result.Sum / float64(horizon)

	historicalMean := sumY / n
	if historicalMean != 0 {
		result.GrowthPct = (result.Mean - historicalMean) / historicalMean * 100
	}
	return result
}
