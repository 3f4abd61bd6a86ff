package llm

import (
	"fmt"
	"strings"
)

// ParseFencedJSON extracts the JSON payload from a model response. Models
// wrap JSON in markdown fences inconsistently, so three shapes are accepted,
// tried in order:
//
//	```json ... ```
//	``` ... ```
//	raw text containing a JSON object
//
// The returned bytes are ready for json.Unmarshal; this function does not
// validate the JSON itself.
func ParseFencedJSON(content string) ([]byte, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty model response")
	}

	if inner, ok := cutFence(content, "```json"); ok {
		return []byte(inner), nil
	}
	if inner, ok := cutFence(content, "```"); ok {
		return []byte(inner), nil
	}

	// Raw response: take the outermost object.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model response")
	}
	return []byte(content[start : end+1]), nil
}

// cutFence returns the content between an opening fence marker and the next
// closing ``` fence.
func cutFence(content, marker string) (string, bool) {
	idx := strings.Index(content, marker)
	if idx == -1 {
		return "", false
	}
	rest := content[idx+len(marker):]
	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}
