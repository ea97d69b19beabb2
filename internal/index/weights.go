package index

import (
	"fmt"
	"strconv"
	"strings"
)

// MatchIndicator resolves a user-supplied key to one of the configured
// indicator columns. Exact matches win; otherwise a case-insensitive
// substring match is accepted when it is unambiguous.
func MatchIndicator(key string, indicators []string) (string, bool) {
	for _, col := range indicators {
		if col == key {
			return col, true
		}
	}
	lk := strings.ToLower(strings.TrimSpace(key))
	if lk == "" {
		return "", false
	}
	var found string
	for _, col := range indicators {
		if strings.Contains(strings.ToLower(col), lk) {
			if found != "" {
				return "", false
			}
			found = col
		}
	}
	return found, found != ""
}

// ResolveWeights maps raw weight keys onto the indicator set. Keys follow
// MatchIndicator rules, so keys that lost their casing on a config-file
// round trip and shorthands like "gdp" both land on the real column name.
// Negative values are rejected, matching ParseWeights.
func ResolveWeights(raw map[string]float64, indicators []string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no weights given")
	}
	out := make(map[string]float64, len(raw))
	for key, v := range raw {
		if v < 0 {
			return nil, fmt.Errorf("weight for %q must be non-negative", key)
		}
		col, ok := MatchIndicator(key, indicators)
		if !ok {
			return nil, fmt.Errorf("unknown indicator %q", strings.TrimSpace(key))
		}
		out[col] = v
	}
	return out, nil
}

// ParseWeights parses a "key=value,key=value" specification against the
// given indicator set. Keys follow MatchIndicator rules.
func ParseWeights(spec string, indicators []string) (map[string]float64, error) {
	raw := make(map[string]float64)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid weight %q, expected key=value", part)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight value in %q: %w", part, err)
		}
		raw[key] = v
	}
	return ResolveWeights(raw, indicators)
}
