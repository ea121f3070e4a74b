// Package jsonutil provides shared helpers for JSON decoding with
// contextual error messages.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v interface{}, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// DecodeBody unmarshals a request or response body into v, tagging decode
// failures with the route they came from. A nil or empty body is an error;
// every payload in the student records API is a JSON object.
func DecodeBody(data []byte, v interface{}, route string) error {
	if len(data) == 0 {
		return fmt.Errorf("%s: empty body", route)
	}
	return UnmarshalWithContext(data, v, route)
}
