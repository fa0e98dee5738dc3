// Package dateutil parses loosely formatted dates, formats them for the
// contract, and derives lease durations.
package dateutil

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultFilenameFormat stamps downloaded files.
const DefaultFilenameFormat = "YYYYMMDD"

// Local is the zone contract dates are printed in (Indochina Time, no DST).
var Local = time.FixedZone("ICT", 7*60*60)

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":     "YYYY-MM-DD",
	"vn":      "DD/MM/YYYY",
	"compact": "YYYYMMDD",
}

// ParseDateFormat converts a user-friendly format string to Go's time format.
// Tokens: YYYY, YY, MM, M, DD, D, HH, mm. Presets (iso, vn, compact) are
// accepted case-insensitively. Use brackets to escape literal text.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

// Format renders t in the Local zone with a user-friendly format.
func Format(t time.Time, format string) (string, error) {
	goFmt, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.In(Local).Format(goFmt), nil
}

// layouts accepted by ParseLoose, tried in order. Day-first slashes follow
// Vietnamese usage.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
}

// ParseLoose parses a date string in any of the accepted layouts.
// Date-only values are midnight UTC; the result is always UTC.
func ParseLoose(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// millisThreshold separates unix seconds from unix milliseconds: seconds
// values above it would be past the year 5000.
const millisThreshold = 1e11

// FromUnix converts unix seconds or milliseconds to a UTC time.
func FromUnix(v float64) time.Time {
	if v > millisThreshold {
		return time.UnixMilli(int64(math.Round(v))).UTC()
	}
	return time.Unix(int64(v), 0).UTC()
}

// MonthsBetween returns the calendar month difference between start and end,
// ignoring the day of month. Never negative.
func MonthsBetween(start, end time.Time) int {
	start, end = start.In(Local), end.In(Local)
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months < 0 {
		return 0
	}
	return months
}

// DaysInclusive counts calendar days from start to end, both included.
func DaysInclusive(start, end time.Time) int {
	s := civil(start)
	e := civil(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

func civil(t time.Time) time.Time {
	y, m, d := t.In(Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Short renders a date as DD/MM/YYYY, or "" for the zero time.
func Short(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Local).Format("02/01/2006")
}

// Stamp renders a timestamp as HH:mm DD/MM/YYYY, or "" for the zero time.
func Stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Local).Format("15:04 02/01/2006")
}

// Long renders a date the way Vietnamese contracts spell it out.
func Long(t time.Time) string {
	if t.IsZero() {
		return "ngày ... tháng ... năm ......"
	}
	t = t.In(Local)
	return fmt.Sprintf("ngày %02d tháng %02d năm %d", t.Day(), int(t.Month()), t.Year())
}
