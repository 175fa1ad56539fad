package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate parses YYYY-MM-DD in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(layoutDate, strings.TrimSpace(s))
}

// FormatDate formats time to YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS".
func FormatDateTime(t time.Time) string {
	return t.Format(layoutDateTime)
}

// FormatInstant renders a resolved instant for API payloads; zero time
// renders empty so unresolved instants never show a bogus date.
func FormatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02T15:04:05")
}

// FormatDurationShort renders a duration as "12h 30m" for display.
func FormatDurationShort(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
