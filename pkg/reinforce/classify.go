package reinforce

import (
	"regexp"
	"strings"

	"reinforcebot/pkg/ocr"
)

// headerMarker starts a line that echoes the chat command behind a banner card.
const headerMarker = "@"

// Matcher reports whether flattened text contains a phrase.
type Matcher func(flat string) bool

// Rule maps a phrase match to a result. Rules are evaluated in order and the
// first match wins.
type Rule struct {
	Name   string
	Match  Matcher
	Result Result
}

// Contains matches any of the literal phrases.
func Contains(phrases ...string) Matcher {
	return func(flat string) bool {
		for _, p := range phrases {
			if strings.Contains(flat, p) {
				return true
			}
		}
		return false
	}
}

// Pattern matches any of the regular expressions.
func Pattern(exprs ...string) Matcher {
	res := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		res[i] = regexp.MustCompile(e)
	}
	return func(flat string) bool {
		for _, re := range res {
			if re.MatchString(flat) {
				return true
			}
		}
		return false
	}
}

// Any matches when at least one of ms matches.
func Any(ms ...Matcher) Matcher {
	return func(flat string) bool {
		for _, m := range ms {
			if m(flat) {
				return true
			}
		}
		return false
	}
}

// All matches when every one of ms matches.
func All(ms ...Matcher) Matcher {
	return func(flat string) bool {
		for _, m := range ms {
			if !m(flat) {
				return false
			}
		}
		return true
	}
}

// The verbs below allow a single glyph inserted or merged inside them. 획 often
// loses its final consonant and comes back as 회.
var (
	acquired     = Pattern(`[획회].?득`)
	plusLevel    = Pattern(`\+\d+`)
	goldShortage = Pattern(`골드가?부.?족`)
)

// HeaderRules apply to command-echo lines only.
var HeaderRules = []Rule{
	{Name: "sold", Match: Pattern(`판.?매`), Result: Keep},
	{Name: "destroyed", Match: Pattern(`파.?괴`), Result: Destroy},
}

// BodyRules apply to the whole flattened card.
var BodyRules = []Rule{
	{
		Name: "kept",
		Match: Any(
			Contains("레벨이유지되었습니다", "레벨이유지되었습", "레벨이유지되었"),
			Pattern(`유.?지되.?었`),
		),
		Result: Keep,
	},
	{
		Name: "destroyed",
		Match: Any(
			Pattern(`파.?괴되.?었`, `파.?괴되었습`),
			Contains("소멸되었습니다", "소멸되었습", "부서졌"),
		),
		Result: Destroy,
	},
	{
		Name:   "acquired",
		Match:  All(acquired, plusLevel),
		Result: Success,
	},
}

// Classifier maps raw OCR text to a Result.
type Classifier struct {
	Header []Rule
	Body   []Rule
}

// DefaultClassifier uses HeaderRules and BodyRules.
var DefaultClassifier = &Classifier{Header: HeaderRules, Body: BodyRules}

// Classify scans command-echo lines first, then the whole text.
func Classify(raw string) Result {
	return DefaultClassifier.Classify(raw)
}

// Classify returns the first matching rule's result, or Unknown.
func (c *Classifier) Classify(raw string) Result {
	for _, line := range strings.FieldsFunc(raw, isNewline) {
		if !strings.Contains(line, headerMarker) {
			continue
		}
		if r, ok := firstMatch(c.Header, ocr.Flatten(line)); ok {
			return r
		}
	}
	if r, ok := firstMatch(c.Body, ocr.Flatten(raw)); ok {
		return r
	}
	return Unknown
}

// IsGoldShortage reports whether the card says there is not enough gold.
func IsGoldShortage(raw string) bool {
	return goldShortage(ocr.Flatten(raw))
}

func firstMatch(rules []Rule, flat string) (Result, bool) {
	if flat == "" {
		return Unknown, false
	}
	for _, r := range rules {
		if r.Match(flat) {
			return r.Result, true
		}
	}
	return Unknown, false
}

func isNewline(r rune) bool { return r == '\n' || r == '\r' }
