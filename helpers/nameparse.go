package helpers

import (
	"regexp"
	"strings"
)

var (
	// Name prefixes (nobiliary particles)
	prefixes = []string{"van", "von", "de", "del", "della", "di", "da", "le", "la", "du", "des", "den", "der", "het", "ter", "ten", "op", "mc", "mac", "o'", "d'", "al-", "el-", "ibn"}

	// Pattern for "Last, First Middle" format
	invertedNameRegex = regexp.MustCompile(`^([^,]+),\s*(.*)$`)
)

// FormatPersonalName converts a personal name into BibTeX notation:
// the family name is braced and given names are joined with "~" so
// BibTeX never breaks a line inside them.
//
//	"Smith, John Robert" -> "{Smith}, John~Robert"
//	"John Robert Smith"  -> "{Smith}, John~Robert"
//	"Anna van der Berg"  -> "{van der Berg}, Anna"
//	"Smith"              -> "{Smith}"
//
// Stray braces are removed before wrapping, so one malformed name cannot
// unbalance a whole author list. Names of one character or less are
// dropped. The result is not meant to be fed back in: formatting an
// already formatted name wraps it again.
func FormatPersonalName(raw string) string {
	name := BalanceBraces(NormalizeWhitespace(raw))
	if len(name) <= 1 {
		return ""
	}

	var family string
	var given []string
	if m := invertedNameRegex.FindStringSubmatch(name); m != nil {
		family = strings.TrimSpace(m[1])
		given = strings.Fields(m[2])
	} else {
		parts := strings.Fields(name)
		familyStart := len(parts) - 1
		// Particles before the last word belong to the family name; the
		// first word always stays a given name.
		for familyStart > 1 && isPrefix(parts[familyStart-1]) {
			familyStart--
		}
		family = strings.Join(parts[familyStart:], " ")
		given = parts[:familyStart]
	}

	if family == "" {
		return ""
	}
	if len(given) == 0 {
		return "{" + family + "}"
	}
	return "{" + family + "}, " + strings.Join(given, "~")
}

// isPrefix checks if a word is a nobiliary particle.
func isPrefix(word string) bool {
	lower := strings.ToLower(word)
	for _, prefix := range prefixes {
		if lower == prefix || lower == strings.TrimSuffix(prefix, "'") {
			return true
		}
	}
	return false
}

// FormatCollaborationName returns a group name unchanged. Collaborations
// are not personal names and get no family/given treatment.
func FormatCollaborationName(raw string) string {
	return raw
}

// FormatAuthors formats every name and joins them with " and ".
// Personal names go through FormatPersonalName, group names through
// FormatCollaborationName. Names that format to nothing are skipped.
func FormatAuthors(names []string, personal bool) string {
	var formatted []string
	for _, n := range names {
		var f string
		if personal {
			f = FormatPersonalName(n)
		} else {
			f = FormatCollaborationName(strings.TrimSpace(n))
		}
		if f != "" {
			formatted = append(formatted, f)
		}
	}
	return strings.Join(formatted, " and ")
}

// SplitNames splits a string containing multiple names.
// Handles semicolon and " and " separators.
func SplitNames(names string) []string {
	if names == "" {
		return nil
	}

	if strings.Contains(names, ";") {
		return cleanNameList(strings.Split(names, ";"))
	}

	if strings.Contains(names, " and ") {
		return cleanNameList(strings.Split(names, " and "))
	}

	return []string{strings.TrimSpace(names)}
}

func cleanNameList(parts []string) []string {
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
