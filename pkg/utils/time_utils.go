package utils

import "time"

// Lusaka time (CAT, +02:00); listings and dashboards are displayed in it.
var catLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Africa/Lusaka"); err == nil {
		return loc
	}
	return time.FixedZone("CAT", 2*3600)
}()

func NowUnixSeconds() int64 { return time.Now().Unix() }

// FromUnixSeconds converts epoch seconds to local time.
// Returns zero time if t<=0 to let callers decide how to render.
func FromUnixSeconds(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).In(catLoc)
}

func FormatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(catLoc).Format(time.RFC3339)
}

func FormatDisplay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(catLoc).Format("2 January 2006")
}
