package automap

import (
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"avatarforge/internal/errs"
	"avatarforge/internal/logging"
	"avatarforge/internal/slice"
)

// LearnedConfidence is the base confidence of rules synthesized from
// manual corrections. A human said so; only an exact-name hit can apply.
const LearnedConfidence = 0.95

// Match is one accepted slot proposal.
type Match struct {
	Slice      *slice.Slice
	SlotPath   string
	Confidence float64
	Pattern    string
}

// Result is the outcome of a mapping pass.
type Result struct {
	Mapped   []Match
	Unmapped []*slice.Slice
}

// Mapper is the rule engine. Bootstrap rules are scanned in declaration
// order, then learned rules in the order they were added.
type Mapper struct {
	logger    *slog.Logger
	bootstrap []Rule
	learned   []Rule
}

// New returns a mapper seeded with the built-in bootstrap rules.
func New(logger *slog.Logger) *Mapper {
	return NewWithRules(logger, BootstrapRules())
}

// NewWithRules returns a mapper whose bootstrap set is the given rules,
// kept in the order supplied.
func NewWithRules(logger *slog.Logger, rules []Rule) *Mapper {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Mapper{logger: logging.WithComponent(logger, "automap")}
	for _, rule := range rules {
		if rule.Learned {
			m.learned = append(m.learned, rule)
		} else {
			m.bootstrap = append(m.bootstrap, rule)
		}
	}
	return m
}

// AddLearned appends a pre-built learned rule (e.g. restored from the
// rule store), deduplicated by (pattern, slot path).
func (m *Mapper) AddLearned(rule Rule) (bool, error) {
	if err := rule.compile(); err != nil {
		return false, errs.Wrap(errs.ErrInput, "automap", "add rule", rule.Pattern, err)
	}
	rule.Learned = true
	for _, existing := range m.learned {
		if existing.Pattern == rule.Pattern && existing.SlotPath() == rule.SlotPath() {
			return false, nil
		}
	}
	m.learned = append(m.learned, rule)
	return true, nil
}

// Learned returns the learned rule tail in append order.
func (m *Mapper) Learned() []Rule {
	return append([]Rule{}, m.learned...)
}

// Rules returns all active rules: bootstrap first, then learned.
func (m *Mapper) Rules() []Rule {
	all := make([]Rule, 0, len(m.bootstrap)+len(m.learned))
	all = append(all, m.bootstrap...)
	all = append(all, m.learned...)
	return all
}

// MapSlices proposes a slot for every slice. First match across
// search-string order and rule order wins; confidence is advisory and
// never gates acceptance.
func (m *Mapper) MapSlices(slices []*slice.Slice) Result {
	var result Result
	for _, s := range slices {
		match, ok := m.mapOne(s)
		if !ok {
			result.Unmapped = append(result.Unmapped, s)
			continue
		}
		result.Mapped = append(result.Mapped, match)
	}
	m.logger.Info("mapping pass complete",
		logging.Args(
			logging.Int("total", len(slices)),
			logging.Int("mapped", len(result.Mapped)),
			logging.Int("unmapped", len(result.Unmapped)))...)
	return result
}

func (m *Mapper) mapOne(s *slice.Slice) (Match, bool) {
	for _, search := range searchStrings(s) {
		for _, rule := range m.Rules() {
			if !rule.Matches(search) {
				continue
			}
			confidence := scoreMatch(rule, search)
			m.logger.Debug("rule matched",
				logging.Args(
					logging.Slice(s.Name),
					logging.String("search", search),
					logging.Rule(rule.Pattern),
					logging.Slot(rule.SlotPath()),
					logging.Float64("confidence", confidence))...)
			return Match{
				Slice:      s,
				SlotPath:   rule.SlotPath(),
				Confidence: confidence,
				Pattern:    rule.Pattern,
			}, true
		}
	}
	m.logger.Debug("no rule matched", logging.Args(logging.Slice(s.Name))...)
	return Match{}, false
}

// ManualMap records a human override for s and learns a literal rule for
// the slice's name so future imports map it automatically. The returned
// bool reports whether a new rule was actually added (false when the
// exact rule already exists).
func (m *Mapper) ManualMap(s *slice.Slice, slotPath string) (Match, bool, error) {
	group, rest, ok := strings.Cut(strings.TrimSpace(slotPath), "/")
	if !ok || group == "" || rest == "" {
		return Match{}, false, errs.Wrap(errs.ErrInput, "automap", "manual map", "slot path must be group/slot: "+slotPath, nil)
	}
	pattern := "^" + regexp.QuoteMeta(normalize(s.Name)) + "$"
	rule, err := NewRule(pattern, group, rest, LearnedConfidence)
	if err != nil {
		return Match{}, false, errs.Wrap(errs.ErrInput, "automap", "manual map", s.Name, err)
	}
	rule.Learned = true
	added, err := m.AddLearned(rule)
	if err != nil {
		return Match{}, false, err
	}
	if added {
		m.logger.Info("learned rule from manual correction",
			logging.Args(logging.Slice(s.Name), logging.Slot(slotPath), logging.Rule(pattern))...)
	}
	return Match{Slice: s, SlotPath: slotPath, Confidence: 1.0, Pattern: pattern}, added, nil
}

// searchStrings derives the candidate strings a slice is matched by, in
// priority order: raw name, full source path, the path's leaf segment,
// and the path with separators replaced by spaces.
func searchStrings(s *slice.Slice) []string {
	candidates := []string{
		s.Name,
		s.SourcePath,
		s.Leaf(),
		strings.ReplaceAll(s.SourcePath, "/", " "),
	}
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		normalized := normalize(candidate)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

// normalize applies NFKC folding so width-variant and composed Unicode
// from art tools compares like its plain form.
func normalize(value string) string {
	return norm.NFKC.String(strings.TrimSpace(value))
}
