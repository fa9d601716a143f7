package forumpb

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// String returns the string field key of s, or "" when absent.
func String(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

// OptString returns nil when field key is absent or null.
func OptString(s *structpb.Struct, key string) *string {
	v, ok := s.GetFields()[key]
	if !ok || v == nil {
		return nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil
	}
	str := v.GetStringValue()
	return &str
}

// Int64 returns the numeric field key of s truncated to an integer.
func Int64(s *structpb.Struct, key string) int64 {
	return int64(s.GetFields()[key].GetNumberValue())
}

func Bool(s *structpb.Struct, key string) bool {
	return s.GetFields()[key].GetBoolValue()
}

// Time parses an RFC 3339 string field. Malformed or absent values yield
// the zero time.
func Time(s *structpb.Struct, key string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, String(s, key))
	return t
}

// Struct returns the nested object at key, or nil.
func Struct(s *structpb.Struct, key string) *structpb.Struct {
	return s.GetFields()[key].GetStructValue()
}

// List returns the nested objects of the list at key. Non-object elements
// are skipped.
func List(s *structpb.Struct, key string) []*structpb.Struct {
	values := s.GetFields()[key].GetListValue().GetValues()
	out := make([]*structpb.Struct, 0, len(values))
	for _, v := range values {
		if st := v.GetStructValue(); st != nil {
			out = append(out, st)
		}
	}
	return out
}

// FormatTime renders t the way Time reads it back.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// NewStruct is structpb.NewStruct that accepts []map[string]any values in
// addition to the types structpb understands.
func NewStruct(fields map[string]any) (*structpb.Struct, error) {
	return structpb.NewStruct(normalize(fields).(map[string]any))
}

func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalize(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *time.Time:
		if x == nil {
			return nil
		}
		return FormatTime(*x)
	case time.Time:
		return FormatTime(x)
	default:
		return v
	}
}
