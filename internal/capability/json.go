// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capability

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// fencedJSONPattern matches a ```json ... ``` block in a conversational
// response.
var fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// unmarshalStrict parses raw as exactly one JSON object.
func unmarshalStrict(raw string, dst any) error {
	return json.Unmarshal([]byte(strings.TrimSpace(raw)), dst)
}

// ExtractJSON coerces a backend response that may wrap its JSON in prose or
// markdown fences into dst. It tries, in order: the whole trimmed text, the
// first fenced code block, and the outermost brace span. Used uniformly
// wherever a backend does not respect structured output.
func ExtractJSON(raw string, dst any) error {
	text := strings.TrimSpace(raw)
	if text == "" {
		return fmt.Errorf("empty response")
	}

	if err := json.Unmarshal([]byte(text), dst); err == nil {
		return nil
	}

	if m := fencedJSONPattern.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(m[1]), dst); err == nil {
			return nil
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), dst); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no JSON object found in response")
}
