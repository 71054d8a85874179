package process

import (
	"regexp"
	"strconv"
)

// yearsPattern matches stated experience requirements such as "5+ years",
// "3-5 years", "minimum of 4 years", "at least 2 yrs". Only the first number
// is captured, so a range reports its low bound.
var yearsPattern = regexp.MustCompile(`(?i)(?:min|minimum|at least)?\s*(\d+)\s*(?:[-–]\s*\d+)?\+?\s*y(?:ea)?rs?`)

// noiseCapYears discards absurd matches ("22 years" is usually a company
// anniversary, not a requirement).
const noiseCapYears = 15

// extractMinYears returns the highest stated minimum years-of-experience
// found in text, or 0 if none. "Windows 10" and "HTML5" do not match because
// the pattern is anchored to a trailing year word.
func extractMinYears(text string) int {
	matches := yearsPattern.FindAllStringSubmatch(text, -1)

	highest := 0
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil || n >= noiseCapYears {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest
}
