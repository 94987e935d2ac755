package domain

import "time"

// Series is a read-only view of one bounded window at publish time.
type Series struct {
	Name    SeriesName    `json:"name"`
	Symbol  string        `json:"symbol,omitempty"` // Set for stock series only
	Points  []Observation `json:"points"`
	Outcome Outcome       `json:"outcome"`
}

// Key returns a stable identifier for the series, e.g. "generated" or "stock:AAPL".
func (s Series) Key() string {
	if s.Symbol == "" {
		return string(s.Name)
	}
	return string(s.Name) + ":" + s.Symbol
}

// Snapshot is what the render boundary receives after every tick.
type Snapshot struct {
	Session string    `json:"session"`
	Tick    uint64    `json:"tick"`
	TakenAt time.Time `json:"takenAt"`
	Series  []Series  `json:"series"`
}

// Find returns the series with the given key.
func (s Snapshot) Find(key string) (Series, bool) {
	for _, series := range s.Series {
		if series.Key() == key {
			return series, true
		}
	}
	return Series{}, false
}
