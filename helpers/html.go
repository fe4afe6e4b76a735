// Package helpers holds the text, name and date normalization shared by
// the extractor and the serializers.
package helpers

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)
	multiSpaceRegex = regexp.MustCompile(`\s+`)
)

// NormalizeWhitespace maps control characters to spaces, collapses runs of
// whitespace into one space and trims.
func NormalizeWhitespace(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = multiSpaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// IsHTML checks if a string appears to contain HTML markup.
func IsHTML(s string) bool {
	return htmlTagRegex.MatchString(s)
}

// StripMarkup removes HTML tags and decodes entities. Abstracts exported
// by INSPIRE and CDS sometimes carry escaped <sup>, <i> or <p> markup.
// Strings without markup are only whitespace-normalized.
func StripMarkup(s string) string {
	if !IsHTML(s) {
		return NormalizeWhitespace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return NormalizeWhitespace(htmlTagRegex.ReplaceAllString(s, " "))
	}
	return NormalizeWhitespace(doc.Text())
}

var braceReplacer = strings.NewReplacer("{", "", "}", "")

// BalancedBraces reports whether every "}" in s closes an earlier "{".
func BalancedBraces(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// BalanceBraces returns s unchanged when its braces balance. Otherwise
// every brace is removed and whitespace normalized again.
func BalanceBraces(s string) string {
	if BalancedBraces(s) {
		return s
	}
	return NormalizeWhitespace(braceReplacer.Replace(s))
}
