package domain

// SeriesName identifies one of the streams shown on the dashboard.
type SeriesName string

const (
	SeriesGenerated SeriesName = "generated" // Synthetic random values, produced every tick
	SeriesDatabase  SeriesName = "database"  // Tail of the persisted log of generated values
	SeriesStock     SeriesName = "stock"     // Polled quote for one tracked symbol
)

// Outcome records how the observation added to a series on the latest tick was obtained.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeFallback Outcome = "fallback" // Source failed, a zero value was substituted
	OutcomeStale    Outcome = "stale"    // Store unavailable, previous points are shown
)
