// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package webhook

import (
	"encoding/json"
)

// textKeys are the object fields checked for response text, in priority
// order. The first present string field wins.
var textKeys = []string{"response", "text", "answer", "message"}

// =============================================================================
// RESPONSE NORMALIZATION
// =============================================================================

// Normalize reduces an arbitrary workflow JSON response to display text.
//
// Rules, applied top to bottom:
//  1. An array is unwrapped to its first element.
//  2. A plain string is used verbatim.
//  3. An object is checked for response/text/answer/message fields in that
//     order; the first present string value is used.
//  4. Anything else is serialized as a pretty-printed fenced JSON block.
//
// A body that is not valid JSON at all is returned as raw text.
func Normalize(body []byte) string {
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return string(body)
	}

	if list, ok := value.([]any); ok {
		if len(list) == 0 {
			return fallback(value)
		}
		value = list[0]
	}

	switch v := value.(type) {
	case string:
		return v
	case map[string]any:
		for _, key := range textKeys {
			if text, ok := v[key].(string); ok {
				return text
			}
		}
		return fencedJSON(v)
	default:
		return fallback(value)
	}
}

// fencedJSON pretty-prints a JSON value inside a fenced code block.
func fencedJSON(value any) string {
	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "The workflow returned a response that could not be displayed."
	}
	return "```json\n" + string(pretty) + "\n```"
}

// fallback reports that no text could be extracted, embedding the raw
// pretty-printed structure.
func fallback(value any) string {
	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "The workflow returned a response that could not be displayed."
	}
	return "I received a response from the workflow but couldn't find any text in it:\n\n```json\n" +
		string(pretty) + "\n```"
}
