package race

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the compact date format used in addresses and file names.
const DateLayout = "20060102"

var kanjiDatePattern = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)

// ParseDate parses a calendar day. Returns the zero time if parsing fails.
// Supports formats: "20250501", "2025-05-01", "2025/05/01", "2025年5月1日"
func ParseDate(text string) time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}
	}

	for _, layout := range []string{DateLayout, "2006-01-02", "2006/01/02", "2006/1/2"} {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return t
		}
	}

	if m := kanjiDatePattern.FindStringSubmatch(text); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.Local)
		// time.Date normalizes 2月30日 into March; reject instead
		if t.Month() == time.Month(mo) && t.Day() == d {
			return t
		}
	}

	return time.Time{}
}

// FormatDate renders t as YYYYMMDD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ShiftDays returns t moved by n calendar days.
func ShiftDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}
