// Package iojson reads and writes JSON for command line output.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is the fallback document written when a value cannot be marshaled.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func jsonError(msg string, jsonErr error) string {
	bits, err := json.Marshal(Error{Message: msg, Data: map[string]any{"json_error": jsonErr.Error()}})
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, msg)
	}
	return string(bits)
}

// WriteWith writes obj as indented JSON to w. Marshaling failures are
// reported to ew as an Error document instead.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, werr := fmt.Fprintln(ew, jsonError("error marshaling output", err))
		if werr != nil {
			return werr
		}
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}
