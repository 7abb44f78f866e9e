package ics

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// compactDateTime matches ICS compact date/date-time values once '-' and
// ':' separators have been stripped: YYYYMMDD[THHMMSS[Z]].
var compactDateTime = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})(?:T(\d{2})(\d{2})(\d{2})?)?(Z)?$`)

// isoLayouts are tried first so already-normalized strings pass through
// without touching the compact path.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDateTime turns an ICS-style date/time string into an absolute
// instant. A trailing Z means UTC, otherwise the value is interpreted in
// the local time zone. Missing time-of-day defaults to 00:00:00. Returns
// nil when the string matches no known form.
func ParseDateTime(value string) *time.Time {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}

	for _, layout := range isoLayouts {
		var t time.Time
		var err error
		if strings.HasSuffix(layout, "Z07:00") {
			t, err = time.Parse(layout, v)
		} else {
			t, err = time.ParseInLocation(layout, v, time.Local)
		}
		if err == nil {
			return &t
		}
	}

	compact := strings.NewReplacer("-", "", ":", "").Replace(v)
	m := compactDateTime.FindStringSubmatch(compact)
	if m == nil {
		return nil
	}

	year := atoi(m[1])
	month := atoi(m[2])
	day := atoi(m[3])
	hour := atoi(m[4])
	minute := atoi(m[5])
	second := atoi(m[6])

	loc := time.Local
	if m[7] == "Z" {
		loc = time.UTC
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	return &t
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
