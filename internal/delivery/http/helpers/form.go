package helpers

import (
	"encoding/json"
	"strings"
)

// FormList returns the values of a repeated form field. A single value holding a JSON array
// of strings is expanded into its items.
func FormList(values []string) []string {
	if len(values) == 1 {
		v := strings.TrimSpace(values[0])
		if strings.HasPrefix(v, "[") {
			var items []string
			if err := json.Unmarshal([]byte(v), &items); err == nil {
				return items
			}
		}
	}
	return values
}
