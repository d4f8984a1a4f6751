package parser

import (
	"regexp"
	"strings"
)

// Phone numbers without a country code are assumed to be Indian.
const defaultCountryCode = "91"

var (
	gmailPattern     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@gmail\.com$`)
	phoneFormatting  = regexp.MustCompile(`[\s\-\(\)\+]`)
	allDigitsPattern = regexp.MustCompile(`^[0-9]+$`)
)

var skipKeywords = map[string]struct{}{
	"none": {}, "no": {}, "skip": {}, "n/a": {}, "na": {},
}

// IsSkip reports whether the member explicitly declined an optional field.
func IsSkip(text string) bool {
	_, ok := skipKeywords[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

// Email validates a Gmail address. The gmail.com restriction is a product
// constraint: the community runs on Google Workspace tooling.
func Email(text string) (string, error) {
	email := strings.TrimSpace(text)
	if !gmailPattern.MatchString(strings.ToLower(email)) {
		return "", ErrNoMatch
	}
	return email, nil
}

// Phone normalises a phone number into international format. Whitespace,
// hyphens, parentheses and a leading + are stripped before digit counting:
// ten digits get the default country code, twelve digits already starting
// with it just get a +, and anything from ten digits up is taken as an
// international number verbatim.
func Phone(text string) (string, error) {
	cleaned := phoneFormatting.ReplaceAllString(strings.TrimSpace(text), "")
	if !allDigitsPattern.MatchString(cleaned) {
		return "", ErrNoMatch
	}

	switch {
	case len(cleaned) == 10:
		return "+" + defaultCountryCode + cleaned, nil
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, defaultCountryCode):
		return "+" + cleaned, nil
	case len(cleaned) >= 10:
		return "+" + cleaned, nil
	}
	return "", ErrNoMatch
}
