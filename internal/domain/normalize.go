package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugPattern matches a URL-safe slug: lowercase alphanumeric words joined by single hyphens.
var SlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9_\s-]`)
	slugSeparators = regexp.MustCompile(`[\s_]+`)
	slugHyphens    = regexp.MustCompile(`-+`)

	timePattern = regexp.MustCompile(`^(0?[1-9]|1[0-2]):[0-5][0-9]\s?([AaPp][Mm])$`)

	emailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("time must be in format H:MM AM/PM (e.g. 9:00 AM)")
)

// Slugify derives the URL slug of a title. The result either matches SlugPattern or is empty.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = foldDiacritics(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsValidSlug reports whether s is a well-formed slug.
func IsValidSlug(s string) bool {
	return SlugPattern.MatchString(s)
}

// foldDiacritics strips combining marks so that "café" slugs as "cafe".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeDate parses a calendar date in any common layout and returns it as YYYY-MM-DD (UTC).
func NormalizeDate(value string) (string, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(value), time.UTC)
	if err != nil {
		return "", errInvalidDate
	}
	return t.UTC().Format("2006-01-02"), nil
}

// NormalizeTime validates an H:MM AM/PM time and returns it trimmed with an uppercase suffix.
func NormalizeTime(value string) (string, error) {
	s := strings.TrimSpace(value)
	if !timePattern.MatchString(s) {
		return "", errInvalidTime
	}
	return s[:len(s)-2] + strings.ToUpper(s[len(s)-2:]), nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
