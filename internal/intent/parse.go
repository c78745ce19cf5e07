package intent

import (
	"encoding/json"
	"strings"
)

// parseOracleOutput runs the first two stages of the parsing cascade: a
// strict parse of the whole output, then a loose parse of the first
// brace-delimited span. The deterministic fallback (stage three) belongs to
// the caller. The first stage that yields a JSON object wins; an empty
// sql_query inside that object is the caller's problem, not a parse failure.
func parseOracleOutput(raw string) (Intent, bool) {
	cleaned := stripJSONFences(raw)

	var strict Intent
	if err := json.Unmarshal([]byte(cleaned), &strict); err == nil {
		return strict, true
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return Intent{}, false
	}

	var loose Intent
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &loose); err != nil {
		return Intent{}, false
	}
	return loose, true
}

func stripJSONFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
