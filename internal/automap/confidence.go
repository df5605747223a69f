package automap

import "strings"

// scoreMatch computes the advisory confidence for a rule hit. Base
// confidence comes from the rule; a search string that already contains
// the target slot's leaf token is a stronger signal (+0.1), while a path
// match is a weaker one than a bare-name match (-0.1). The result is
// clamped to [0, 1].
func scoreMatch(rule Rule, search string) float64 {
	confidence := rule.Confidence
	lower := strings.ToLower(search)
	if leaf := slotLeafToken(rule.SlotPath()); leaf != "" && strings.Contains(lower, leaf) {
		confidence += 0.1
	}
	if strings.Contains(search, "/") {
		confidence -= 0.1
	}
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

func slotLeafToken(slotPath string) string {
	if idx := strings.LastIndex(slotPath, "/"); idx >= 0 {
		return strings.ToLower(slotPath[idx+1:])
	}
	return strings.ToLower(slotPath)
}
