package market

import "time"

// Session is one of the four major FX trading sessions, in UTC hours.
// Sessions that wrap midnight have OpenUTC > CloseUTC.
type Session struct {
	Name     string
	OpenUTC  int
	CloseUTC int
}

var Sessions = []Session{
	{Name: "Sydney", OpenUTC: 22, CloseUTC: 6},
	{Name: "Tokyo", OpenUTC: 0, CloseUTC: 8},
	{Name: "London", OpenUTC: 8, CloseUTC: 16},
	{Name: "New York", OpenUTC: 13, CloseUTC: 21},
}

// Overlap is a window where two major sessions are open at once,
// typically the highest-liquidity hours for the pairs traded in both.
type Overlap struct {
	ID       string
	Name     string
	StartUTC int
	EndUTC   int
}

var Overlaps = []Overlap{
	{ID: "LDN-TKY", Name: "London/Tokyo", StartUTC: 8, EndUTC: 9},
	{ID: "SYD-TKY", Name: "Sydney/Tokyo", StartUTC: 0, EndUTC: 6},
	{ID: "LDN-NYK", Name: "London/New York", StartUTC: 13, EndUTC: 16},
}

// PairOverlaps maps a currency pair to the overlap windows where it is
// most actively traded.
var PairOverlaps = map[string][]string{
	"EUR/USD": {"LDN-NYK"},
	"GBP/USD": {"LDN-NYK"},
	"USD/CHF": {"LDN-NYK"},
	"USD/CAD": {"LDN-NYK"},
	"USD/JPY": {"LDN-TKY", "SYD-TKY"},
	"AUD/USD": {"SYD-TKY"},
	"NZD/USD": {"SYD-TKY"},
}

// IsOpen reports whether the global forex market is open at t.
// The market runs from Sunday 21:00 UTC to Friday 21:00 UTC.
func IsOpen(t time.Time) bool {
	utc := t.UTC()
	day := utc.Weekday()
	hour := utc.Hour()

	switch day {
	case time.Saturday:
		return false
	case time.Friday:
		return hour < 21
	case time.Sunday:
		return hour >= 21
	default:
		return true
	}
}

// InOverlap reports whether t falls inside the given overlap window.
func InOverlap(o Overlap, t time.Time) bool {
	hour := t.UTC().Hour()
	return hour >= o.StartUTC && hour < o.EndUTC
}

// ActiveOverlaps returns the overlap windows active for a pair at t,
// or nil when none apply.
func ActiveOverlaps(pair string, t time.Time) []Overlap {
	if !IsOpen(t) {
		return nil
	}

	var active []Overlap
	for _, id := range PairOverlaps[pair] {
		for _, o := range Overlaps {
			if o.ID == id && InOverlap(o, t) {
				active = append(active, o)
			}
		}
	}
	return active
}
