package record

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-leasepdf/internal/dateutil"
)

// fields is a raw object with a convention-insensitive key index.
type fields struct {
	raw  map[string]any
	norm map[string]string // normalized key -> raw key
}

// newFields indexes m. When two raw keys normalize to the same form, the
// lexicographically smallest one wins so lookups stay deterministic.
func newFields(m map[string]any) fields {
	f := fields{raw: m, norm: make(map[string]string, len(m))}
	for k := range m {
		nk := normKey(k)
		if prev, ok := f.norm[nk]; !ok || k < prev {
			f.norm[nk] = k
		}
	}
	return f
}

// normKey folds camelCase, PascalCase, snake_case and kebab-case to one form.
func normKey(k string) string {
	var b strings.Builder
	b.Grow(len(k))
	for _, r := range strings.ToLower(k) {
		switch r {
		case '_', '-', ' ', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// lookup returns the first non-empty value among aliases.
func (f fields) lookup(aliases []string) (any, bool) {
	if f.raw == nil {
		return nil, false
	}
	for _, a := range aliases {
		if v, ok := f.raw[a]; ok && !isEmpty(v) {
			return v, true
		}
		if k, ok := f.norm[normKey(a)]; ok {
			if v := f.raw[k]; !isEmpty(v) {
				return v, true
			}
		}
	}
	return nil, false
}

func (f fields) str(aliases []string) string {
	v, _ := f.lookup(aliases)
	return toString(v)
}

func (f fields) text(aliases []string) string {
	if s := f.str(aliases); s != "" {
		return s
	}
	return Placeholder
}

func (f fields) money(aliases []string) int64 {
	v, _ := f.lookup(aliases)
	n, _ := toMoney(v)
	return n
}

func (f fields) decimal(aliases []string) float64 {
	v, _ := f.lookup(aliases)
	d, _ := toDecimal(v)
	return d
}

func (f fields) date(aliases []string) time.Time {
	v, _ := f.lookup(aliases)
	t, _ := toTime(v)
	return t
}

func (f fields) object(aliases []string) (fields, bool) {
	v, ok := f.lookup(aliases)
	if !ok {
		return fields{}, false
	}
	m, ok := toObject(v)
	if !ok {
		return fields{}, false
	}
	return newFields(m), true
}

func (f fields) list(aliases []string) []any {
	v, _ := f.lookup(aliases)
	return toList(v)
}

func (f fields) image(aliases []string) string {
	v, _ := f.lookup(aliases)
	return toImageRef(v)
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case interface{ String() string }:
		return strings.TrimSpace(t.String())
	}
	return ""
}

// toMoney accepts numbers and strings such as "3.500.000 đ" or "3,500,000".
// Vietnamese amounts carry no minor unit, so every non-digit is a separator.
func toMoney(v any) (int64, bool) {
	switch t := v.(type) {
	case string:
		var digits strings.Builder
		for _, r := range t {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		if digits.Len() == 0 {
			return 0, false
		}
		n, err := strconv.ParseInt(digits.String(), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		d, ok := toDecimal(v)
		if !ok {
			return 0, false
		}
		return int64(math.Round(d)), true
	}
}

var decimalPattern = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)

// toDecimal accepts numbers and strings such as "25,5m2".
func toDecimal(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case interface{ Float64() (float64, error) }:
		f, err := t.Float64()
		return f, err == nil
	case string:
		m := decimalPattern.FindString(t)
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
		return f, err == nil
	}
	return 0, false
}

// toTime accepts date strings, unix seconds or milliseconds, time.Time values
// and Firestore-style {"seconds": n} objects. Results are in UTC.
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t.UTC(), true
	case string:
		return dateutil.ParseLoose(t)
	case map[string]any:
		f := newFields(t)
		if secs, ok := f.lookup([]string{"seconds", "_seconds"}); ok {
			if d, ok := toDecimal(secs); ok {
				return time.Unix(int64(d), 0).UTC(), true
			}
		}
		return time.Time{}, false
	default:
		d, ok := toDecimal(v)
		if !ok || d <= 0 {
			return time.Time{}, false
		}
		return dateutil.FromUnix(d), true
	}
}

func toObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[toString(k)] = val
		}
		return m, true
	}
	return nil, false
}

// toList accepts arrays and array-like objects keyed "0", "1", ...
func toList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	}
	m, ok := toObject(v)
	if !ok || len(m) == 0 {
		return nil
	}
	idx := make([]int, 0, len(m))
	for k := range m {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil
		}
		idx = append(idx, n)
	}
	sort.Ints(idx)
	out := make([]any, 0, len(idx))
	for _, n := range idx {
		out = append(out, m[strconv.Itoa(n)])
	}
	return out
}

// toImageRef accepts a reference string or an object carrying one.
func toImageRef(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	m, ok := toObject(v)
	if !ok {
		return ""
	}
	return newFields(m).str(imageRefKeys)
}
