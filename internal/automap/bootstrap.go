package automap

// bootstrapSpecs is the built-in rule table in declaration order. Order
// is the tie-breaker: multi-letter viseme patterns come before their
// single-letter cousins so "mouth mbp" never lands on viseme M-adjacent
// rules further down.
var bootstrapSpecs = []struct {
	pattern    string
	group      string
	slot       string
	confidence float64
}{
	// Eyes
	{`eyes?[_ /-]*l\b.*open`, "Eyes", "EyeL/state/open", 0.85},
	{`eyes?[_ /-]*l\b.*clos`, "Eyes", "EyeL/state/closed", 0.85},
	{`eyes?[_ /-]*l\b.*half`, "Eyes", "EyeL/state/half", 0.85},
	{`eyes?[_ /-]*l\b.*happy`, "Eyes", "EyeL/state/happy", 0.8},
	{`eyes?[_ /-]*l\b.*wink`, "Eyes", "EyeL/state/wink", 0.8},
	{`eyes?[_ /-]*r\b.*open`, "Eyes", "EyeR/state/open", 0.85},
	{`eyes?[_ /-]*r\b.*clos`, "Eyes", "EyeR/state/closed", 0.85},
	{`eyes?[_ /-]*r\b.*half`, "Eyes", "EyeR/state/half", 0.85},
	{`eyes?[_ /-]*r\b.*happy`, "Eyes", "EyeR/state/happy", 0.8},
	{`eyes?[_ /-]*r\b.*wink`, "Eyes", "EyeR/state/wink", 0.8},

	// Mouth visemes
	{`mouth[_ /-]?(mbp|m|b|p)\b`, "Mouth", "viseme/MBP", 0.8},
	{`mouth[_ /-]?(sil|silence)\b`, "Mouth", "viseme/SIL", 0.8},
	{`mouth[_ /-]?(rest|closed|normal|neutral)\b`, "Mouth", "viseme/REST", 0.8},
	{`mouth[_ /-]?a(i)?\b`, "Mouth", "viseme/AI", 0.8},
	{`mouth[_ /-]?e\b`, "Mouth", "viseme/E", 0.8},
	{`mouth[_ /-]?u\b`, "Mouth", "viseme/U", 0.8},
	{`mouth[_ /-]?o\b`, "Mouth", "viseme/O", 0.8},
	{`mouth[_ /-]?(fv|f|v)\b`, "Mouth", "viseme/FV", 0.8},
	{`mouth[_ /-]?l\b`, "Mouth", "viseme/L", 0.8},
	{`mouth[_ /-]?(wq|w|q)\b`, "Mouth", "viseme/WQ", 0.8},

	// Brows
	{`(eye)?brows?[_ /-]*l\b`, "Brows", "BrowL/shape/neutral", 0.75},
	{`(eye)?brows?[_ /-]*r\b`, "Brows", "BrowR/shape/neutral", 0.75},

	// Hair layers
	{`hair.*front|front.*hair`, "Hair", "front", 0.8},
	{`hair.*back|back.*hair`, "Hair", "back", 0.8},
	{`hair.*side|side.*hair`, "Hair", "side", 0.8},

	// Body
	{`torso|\bbody\b`, "Body", "torso", 0.7},
	{`\bhead\b`, "Body", "head", 0.7},
	{`\bneck\b`, "Body", "neck", 0.7},
	{`arm[_ /-]*l\b|left[_ /-]*arm`, "Body", "armL", 0.7},
	{`arm[_ /-]*r\b|right[_ /-]*arm`, "Body", "armR", 0.7},
	{`leg[_ /-]*l\b|left[_ /-]*leg`, "Body", "legL", 0.7},
	{`leg[_ /-]*r\b|right[_ /-]*leg`, "Body", "legR", 0.7},

	// Accessories and effects
	{`glasses|spectacle`, "Accessories", "glasses", 0.7},
	{`\bhat\b|\bcap\b`, "Accessories", "hat", 0.7},
	{`ribbon|bow\b`, "Accessories", "ribbon", 0.7},
	{`blush`, "FX", "blush", 0.7},
	{`sparkle`, "FX", "sparkles", 0.7},
}

// BootstrapRules returns the built-in rule set in declaration order.
func BootstrapRules() []Rule {
	rules := make([]Rule, 0, len(bootstrapSpecs))
	for _, spec := range bootstrapSpecs {
		rule, err := NewRule(spec.pattern, spec.group, spec.slot, spec.confidence)
		if err != nil {
			// Bootstrap patterns are compiled at build time by tests; a bad
			// one is a programming error.
			panic(err)
		}
		rules = append(rules, rule)
	}
	return rules
}
