package sales

// Record accumulates one app's figures for a single report date.
// Installs and Revenue only ever grow during a parse pass; Revenue is
// normalized to USD before accumulation. IconURL is filled in later by
// the metadata enrichment step, after parsing.
type Record struct {
	AppID    string
	Title    string
	Country  string
	IconURL  string
	Installs int
	Revenue  float64
}

// Snapshot holds the three parsed report dates used for one comparison
// run. PrevDay and PrevWeek may be empty when no comparable report
// exists; a missing app in either is treated as a zero baseline.
type Snapshot struct {
	Day      map[string]*Record
	PrevDay  map[string]*Record
	PrevWeek map[string]*Record
}
