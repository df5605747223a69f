package automap

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"avatarforge/internal/errs"
	"avatarforge/internal/logging"
)

// rulesDocument is the PCS_RULES.yaml shape:
//
//	aliases:
//	  - match: "eye[_ -]?l.*open"
//	    map: {group: Eyes, slot: EyeL/state/open}
//	    confidence: 0.85
type rulesDocument struct {
	Aliases []aliasEntry `yaml:"aliases"`
}

type aliasEntry struct {
	Match      string      `yaml:"match"`
	Map        aliasTarget `yaml:"map"`
	Confidence float64     `yaml:"confidence,omitempty"`
	Learned    bool        `yaml:"learned,omitempty"`
}

type aliasTarget struct {
	Group string `yaml:"group"`
	Slot  string `yaml:"slot"`
}

// LoadRulesYAML reads a PCS_RULES.yaml rule set. Entries whose pattern
// does not compile are skipped with a warning, never fatally.
func LoadRulesYAML(path string, logger *slog.Logger) ([]Rule, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "automap", "load rules", path, err)
	}
	var doc rulesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrInput, "automap", "parse rules", path, err)
	}
	rules := make([]Rule, 0, len(doc.Aliases))
	for _, alias := range doc.Aliases {
		confidence := alias.Confidence
		if confidence <= 0 {
			confidence = 0.7
		}
		rule, err := NewRule(alias.Match, alias.Map.Group, alias.Map.Slot, confidence)
		if err != nil {
			logger.Warn("skipping invalid rule",
				logging.Args(logging.Rule(alias.Match), logging.Error(err))...)
			continue
		}
		rule.Learned = alias.Learned
		rules = append(rules, rule)
	}
	return rules, nil
}

// MarshalRulesYAML serializes rules into the PCS_RULES.yaml format.
func MarshalRulesYAML(rules []Rule) ([]byte, error) {
	doc := rulesDocument{Aliases: make([]aliasEntry, 0, len(rules))}
	for _, rule := range rules {
		doc.Aliases = append(doc.Aliases, aliasEntry{
			Match:      rule.Pattern,
			Map:        aliasTarget{Group: rule.Group, Slot: rule.Slot},
			Confidence: rule.Confidence,
			Learned:    rule.Learned,
		})
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal rules: %w", err)
	}
	return data, nil
}

// SaveRulesYAML writes rules to path in the PCS_RULES.yaml format.
func SaveRulesYAML(path string, rules []Rule) error {
	data, err := MarshalRulesYAML(rules)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrIO, "automap", "save rules", path, err)
	}
	return nil
}
