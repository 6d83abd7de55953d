package narrator

import (
	"regexp"
	"strings"
)

// ChoiceCount is the number of choices attached to every turn.
const ChoiceCount = 3

// cuePattern matches the cue phrase followed by three numbered lines.
// The model is prompted to use exactly this shape, but its output is
// not contractually guaranteed, so a line-scan fallback exists below.
var cuePattern = regexp.MustCompile(`(?i)What do you choose\?\s*\n1\.\s*(.+)\n2\.\s*(.+)\n3\.\s*(.+)`)

// numberedLine matches a line that contributes a choice in the
// fallback path.
var numberedLine = regexp.MustCompile(`^[123]\.\s*`)

// ParseResponse splits raw model output into narrative text and
// exactly three choices.
//
// The primary path locates the cue phrase followed by lines "1. ",
// "2. ", "3. "; the narrative is everything before the cue. Failing
// that, every line starting with a 1-3 marker contributes a choice and
// the remaining non-empty lines are joined as the narrative. Missing
// choices are padded with the fixed generics, extras are truncated.
// Parsing is best effort and never fails; a degenerate input yields an
// empty narrative and the three generic choices.
func ParseResponse(raw string) (string, []string) {
	if loc := cuePattern.FindStringSubmatchIndex(raw); loc != nil {
		narrative := strings.TrimSpace(raw[:loc[0]])
		choices := []string{
			strings.TrimSpace(raw[loc[2]:loc[3]]),
			strings.TrimSpace(raw[loc[4]:loc[5]]),
			strings.TrimSpace(raw[loc[6]:loc[7]]),
		}
		return narrative, choices
	}

	var choices []string
	var narrativeLines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if numberedLine.MatchString(line) {
			choices = append(choices, strings.TrimSpace(numberedLine.ReplaceAllString(line, "")))
			continue
		}
		narrativeLines = append(narrativeLines, line)
	}

	narrative := strings.TrimSpace(strings.Join(narrativeLines, "\n"))

	if len(choices) < ChoiceCount {
		choices = append(choices, genericChoices[len(choices):]...)
	}
	return narrative, choices[:ChoiceCount]
}
