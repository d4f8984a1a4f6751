// Package dateparse handles the flexible date formats accepted for birthday
// registration. It is shared between the onboarding flow and the standalone
// birthday registration endpoint.
package dateparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

// Accepted input shapes. A year, when present, is only used to check that the
// combination is a real calendar date (e.g. leap days) and is discarded.
var formats = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{1,2})-(\d{1,2})$`),           // MM-DD
	regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`),           // MM/DD
	regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`),   // MM-DD-YYYY
	regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`),   // MM/DD/YYYY
}

// MonthDay is a recurring calendar date with no year semantics.
type MonthDay struct {
	Month int
	Day   int
}

// Parse extracts a MonthDay from one of the supported date formats.
func Parse(text string) (MonthDay, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return MonthDay{}, ErrInvalidDate
	}

	for _, format := range formats {
		match := format.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		month, _ := strconv.Atoi(match[1])
		day, _ := strconv.Atoi(match[2])
		year := time.Now().Year()
		if len(match) == 4 {
			year, _ = strconv.Atoi(match[3])
		}

		if !isValidDate(month, day, year) {
			return MonthDay{}, ErrInvalidDate
		}
		return MonthDay{Month: month, Day: day}, nil
	}

	return MonthDay{}, ErrInvalidDate
}

func isValidDate(month, day, year int) bool {
	if month < 1 || month > 12 {
		return false
	}
	if day < 1 || day > 31 {
		return false
	}
	if year < 1900 || year > time.Now().Year()+1 {
		return false
	}

	// time.Date normalises overflowing values (Feb 30 becomes Mar 2), so a
	// round-trip mismatch means the combination was not a real date.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && t.Month() == time.Month(month) && t.Day() == day
}

// String renders the storage form, e.g. "03-15".
func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", md.Month, md.Day)
}

// Display renders the human form, e.g. "March 15".
func (md MonthDay) Display() string {
	return fmt.Sprintf("%s %d", time.Month(md.Month).String(), md.Day)
}

// FormatString parses a stored "MM-DD" value and renders its display form.
// The raw value is returned unchanged when it does not parse.
func FormatString(stored string) string {
	md, err := Parse(stored)
	if err != nil {
		return stored
	}
	return md.Display()
}

// SupportedFormats lists format examples for user-facing help text.
func SupportedFormats() []string {
	return []string{
		"MM-DD (e.g., 03-15 for March 15)",
		"MM/DD (e.g., 03/15 for March 15)",
		"MM-DD-YYYY (e.g., 03-15-1995)",
		"MM/DD/YYYY (e.g., 03/15/1995)",
	}
}
