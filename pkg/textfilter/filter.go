// Package textfilter cleans up raw model output and player-supplied
// text before it reaches the parser or the save file.
package textfilter

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	fencePattern     = regexp.MustCompile("(?m)^```[a-zA-Z]*\\s*$")
	blankRunPattern  = regexp.MustCompile(`\n{3,}`)
	trailingWSOnLine = regexp.MustCompile(`(?m)[ \t]+$`)

	titleCaser = cases.Title(language.AmericanEnglish)
)

// CleanNarrative normalizes raw LLM output: markdown code fences are
// dropped, trailing whitespace is stripped per line, and runs of blank
// lines are collapsed. Numbered choice lines are left untouched so the
// parser still sees them.
func CleanNarrative(raw string) string {
	s := fencePattern.ReplaceAllString(raw, "")
	s = trailingWSOnLine.ReplaceAllString(s, "")
	s = blankRunPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// TitleName normalizes a player-supplied name to title case.
func TitleName(name string) string {
	return titleCaser.String(strings.TrimSpace(name))
}
