package cab

import "time"

// toLocalTime decomposes t, converted to local time, into the civil
// calendar fields CFFILE.date/CFFILE.time are built from.
func toLocalTime(t time.Time) localTime {
	l := t.Local()
	return localTime{
		year:   l.Year(),
		month:  int(l.Month()),
		day:    l.Day(),
		hour:   l.Hour(),
		minute: l.Minute(),
		second: l.Second(),
	}
}

// toTime reconstructs a time.Time in the local zone from a CFFILE
// date/time pair's decomposed civil calendar fields.
func (t localTime) toTime() time.Time {
	return time.Date(t.year, time.Month(t.month), t.day, t.hour, t.minute, t.second, 0, time.Local)
}
