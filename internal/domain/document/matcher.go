package document

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// codePattern matches a booking code embedded in a file name: the ORD
// prefix, a 4-digit year and a sequence of 3 or more digits, optionally
// separated by hyphens or underscores, case-insensitive.
var codePattern = regexp.MustCompile(`(?i)ORD[-_]?(\d{4})[-_]?(\d{3,})`)

// MatcherConfig holds the confidence score bands for the simulated OCR.
// Scores for files with an extracted code fall in [HighMin, HighMax],
// all others in [LowMin, LowMax].
type MatcherConfig struct {
	HighMin int
	HighMax int
	LowMin  int
	LowMax  int
}

// DefaultMatcherConfig returns the default score bands
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		HighMin: 92,
		HighMax: 99,
		LowMin:  45,
		LowMax:  79,
	}
}

// Matcher extracts booking codes from POD file names and scores the
// match. Scoring is a pure function of the file name, so identical
// inputs always produce identical results.
type Matcher struct {
	cfg MatcherConfig
}

// NewMatcher creates a matcher with the given score bands
func NewMatcher(cfg MatcherConfig) *Matcher {
	if cfg.HighMax < cfg.HighMin {
		cfg.HighMax = cfg.HighMin
	}
	if cfg.LowMax < cfg.LowMin {
		cfg.LowMax = cfg.LowMin
	}
	return &Matcher{cfg: cfg}
}

// ExtractCode scans a file name for an embedded booking code and returns
// the canonical uppercase, hyphen-separated rendering. The second return
// value is false when the file name carries no code.
func ExtractCode(fileName string) (string, bool) {
	m := codePattern.FindStringSubmatch(fileName)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(fmt.Sprintf("ORD-%s-%s", m[1], m[2])), true
}

// Match produces a PodDocument for an uploaded file name: the extracted
// booking code (if any), a deterministic confidence score and the
// derived verdict. Matching has no side effects.
func (m *Matcher) Match(fileName string) PodDocument {
	code, ok := ExtractCode(fileName)
	score := m.score(fileName, ok)

	return PodDocument{
		FileName:      fileName,
		ExtractedCode: code,
		MatchPercent:  score,
		Verdict:       VerdictForScore(score),
		UploadedAt:    time.Now(),
	}
}

// score derives a confidence score from the file name alone. The seed is
// the sum of the file name's byte values modulo a small prime, spread
// across the configured band.
func (m *Matcher) score(fileName string, codeFound bool) int {
	seed := 0
	for _, c := range []byte(fileName) {
		seed += int(c)
	}
	seed %= 97

	if codeFound {
		return m.cfg.HighMin + seed%(m.cfg.HighMax-m.cfg.HighMin+1)
	}
	return m.cfg.LowMin + seed%(m.cfg.LowMax-m.cfg.LowMin+1)
}
