// Package parser extracts structured profile fields from the free-text replies
// members send during onboarding. All functions are pure; malformed input is
// reported through error returns, never panics.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrNoMatch = errors.New("no match")

// Classes a member can belong to. Role names reuse these values verbatim.
var validClasses = map[string]struct{}{
	"6": {}, "7": {}, "8": {}, "9": {},
	"10": {}, "11": {}, "12": {},
}

var (
	ordinalPattern = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)`)
	numberPattern  = regexp.MustCompile(`\b(\d+)\b`)
	nameSeparators = regexp.MustCompile(`[,\-\s]+`)
)

var classWords = map[string]string{
	"sixth": "6", "six": "6",
	"seventh": "7", "seven": "7",
	"eighth": "8", "eight": "8",
	"ninth": "9", "nine": "9",
	"tenth": "10", "ten": "10",
	"eleventh": "11", "eleven": "11",
	"twelfth": "12", "twelve": "12",
}

// ValidClass reports whether class is one of the accepted grade numbers.
func ValidClass(class string) bool {
	_, ok := validClasses[class]
	return ok
}

// ClassAndName splits a reply like "John Smith, Class 10" into the member's
// name and class number. The class may appear as a bare number, an ordinal
// ("10th"), a word ("tenth") or annotated ("class 10", "grade 10", "std 10").
// Failing to find a valid class, or being left with a name shorter than two
// characters after stripping the class tokens, both yield ErrNoMatch.
func ClassAndName(text string) (name, class string, err error) {
	class = extractClass(text)
	if class == "" {
		return "", "", ErrNoMatch
	}

	name = stripClassTokens(text, class)
	if len(name) < 2 {
		return "", "", ErrNoMatch
	}
	return name, class, nil
}

func extractClass(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return ""
	}

	if ValidClass(text) {
		return text
	}

	if match := ordinalPattern.FindStringSubmatch(text); match != nil {
		if ValidClass(match[1]) {
			return match[1]
		}
	}

	for word, number := range classWords {
		if strings.Contains(text, word) {
			return number
		}
	}

	if match := numberPattern.FindStringSubmatch(text); match != nil {
		if ValidClass(match[1]) {
			return match[1]
		}
	}

	return ""
}

func stripClassTokens(text, class string) string {
	patterns := []*regexp.Regexp{
		regexp.MustCompile(fmt.Sprintf(`(?i)\b(?:class|grade|std)\s*%s\b`, class)),
		regexp.MustCompile(fmt.Sprintf(`(?i)\b%s(?:st|nd|rd|th)?\b`, class)),
		regexp.MustCompile(`(?i)\bclass\b`),
		regexp.MustCompile(`(?i)\bgrade\b`),
		regexp.MustCompile(`(?i)\bstd\b`),
	}
	for word, number := range classWords {
		if number == class {
			patterns = append(patterns, regexp.MustCompile(`(?i)\b`+word+`\b`))
		}
	}
	for _, pattern := range patterns {
		text = pattern.ReplaceAllString(text, "")
	}

	return strings.TrimSpace(nameSeparators.ReplaceAllString(text, " "))
}
