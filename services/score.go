package services

import (
	"regexp"
	"strconv"
	"strings"
)

// ScoreUnknown is recorded when the model response carries no usable score
// line. It is a completed-round value, not an error.
const ScoreUnknown = "N/A"

var (
	scorePattern     = regexp.MustCompile(`SCORE:\s*\*?(\d+(?:\.\d)?)\s*/`)
	scoreBarePattern = regexp.MustCompile(`SCORE:\s*\*?(\d+(?:\.\d)?)`)
)

// ParseScore extracts the first numeric score from the model's free-form
// response. It first requires the trailing "/" of the "X / 10.0" form and
// falls back to a bare "SCORE: X" match for truncated output. Matches
// outside [0, 10] are rejected and treated the same as no match.
func ParseScore(text string) string {
	match := scorePattern.FindStringSubmatch(text)
	if match == nil {
		match = scoreBarePattern.FindStringSubmatch(text)
	}
	if match == nil {
		return ScoreUnknown
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil || value < 0 || value > 10 {
		return ScoreUnknown
	}
	return match[1]
}

// StripScoreLines removes every line containing a SCORE: token so the
// feedback body can be shown under the big numeric header without
// repeating the score.
func StripScoreLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.Contains(line, "SCORE:") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
