package ledgerclient

import (
	"encoding/json"
	"slices"
)

// errorMessage extracts a human readable message from an error body.
//
// Checked in order: message, detail and error keys, a top level string array,
// non_field_errors and finally the first field error by key order.
func errorMessage(body []byte) string {
	var list []string
	if err := json.Unmarshal(body, &list); err == nil {
		return first(list)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}

	for _, key := range []string{"message", "detail", "error", "non_field_errors"} {
		if msg := text(obj[key]); msg != "" {
			return msg
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	for _, k := range keys {
		if msg := text(obj[k]); msg != "" {
			return k + ": " + msg
		}
	}

	return ""
}

func text(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return first(list)
	}

	return ""
}

func first(list []string) string {
	if len(list) == 0 {
		return ""
	}

	return list[0]
}
