package automap

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule binds a match pattern to a target slot. Patterns are regular
// expressions applied case-insensitively in search (not anchored) mode.
type Rule struct {
	Pattern    string
	Group      string
	Slot       string
	Confidence float64
	Learned    bool

	re *regexp.Regexp
}

// NewRule validates and compiles a rule.
func NewRule(pattern, group, slot string, confidence float64) (Rule, error) {
	rule := Rule{Pattern: pattern, Group: group, Slot: slot, Confidence: confidence}
	if err := rule.compile(); err != nil {
		return Rule{}, err
	}
	return rule, nil
}

func (r *Rule) compile() error {
	if strings.TrimSpace(r.Pattern) == "" {
		return fmt.Errorf("rule: empty pattern")
	}
	if strings.TrimSpace(r.Group) == "" || strings.TrimSpace(r.Slot) == "" {
		return fmt.Errorf("rule %q: missing target group or slot", r.Pattern)
	}
	re, err := regexp.Compile("(?i)" + r.Pattern)
	if err != nil {
		return fmt.Errorf("rule %q: %w", r.Pattern, err)
	}
	r.re = re
	return nil
}

// Matches reports whether the pattern occurs in the search string.
func (r *Rule) Matches(search string) bool {
	if r.re == nil {
		return false
	}
	return r.re.MatchString(search)
}

// SlotPath returns the full canonical slot path the rule targets.
func (r Rule) SlotPath() string {
	return r.Group + "/" + r.Slot
}
