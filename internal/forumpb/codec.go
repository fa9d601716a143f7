package forumpb

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// Marshal converts a message into its Struct form.
func Marshal(msg any) (*structpb.Struct, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return structpb.NewStruct(fields)
}

// Unmarshal fills msg from s. Absent keys leave fields at their zero value;
// a value of the wrong type is an error.
func Unmarshal(s *structpb.Struct, msg any) error {
	// encoding/json prints whole floats below 1e21 without an exponent, so
	// integer fields decode exactly up to 2^53
	b, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	if err := json.Unmarshal(b, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
