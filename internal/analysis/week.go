package analysis

import "time"

// WeekStart returns the Monday 00:00:00 preceding or equal to t, evaluated in
// loc. The location is an explicit input: sessions logged near midnight on a
// week boundary bucket differently depending on the zone, so callers must be
// deliberate about which zone their weeks live in.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	// time.Weekday counts Sunday as 0; shift so Monday is 0.
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-daysSinceMonday, 0, 0, 0, 0, loc)
}
