package storage

import (
	"strconv"
	"strings"
	"time"
)

// Record is one result row keyed by column name (or alias).
//
// Drivers disagree on the Go types they hand back for the same column, so the
// typed accessors below normalise what SQLite and PostgreSQL return. A missing
// column or a NULL value yields the zero value.
type Record map[string]any

// IsNull reports whether the column is absent or NULL.
func (r Record) IsNull(key string) bool {
	v, ok := r[key]
	return !ok || v == nil
}

func (r Record) Int64(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// StringPtr is like String but keeps NULL distinguishable from "".
func (r Record) StringPtr(key string) *string {
	if r.IsNull(key) {
		return nil
	}
	s := r.String(key)
	return &s
}

func (r Record) Bytes(key string) []byte {
	switch v := r[key].(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}

// SQLite keeps DATETIME as text, and aggregate columns such as MAX(sent_at)
// lose the declared type, so strings are parsed with these layouts.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Time returns the column as a UTC time.
func (r Record) Time(key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v.UTC()
	case string:
		return parseTime(v)
	case []byte:
		return parseTime(string(v))
	case int64:
		return time.Unix(v, 0).UTC()
	default:
		return time.Time{}
	}
}

// TimePtr is like Time but keeps NULL distinguishable from the zero time.
func (r Record) TimePtr(key string) *time.Time {
	if r.IsNull(key) {
		return nil
	}
	t := r.Time(key)
	return &t
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
