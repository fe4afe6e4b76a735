package hub

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	arxivNewRegex   = regexp.MustCompile(`^\d{4}\.\d{4,5}(v\d+)?$`)
	arxivOldRegex   = regexp.MustCompile(`^[a-z]+(-[a-z]+)?(\.[A-Z]{2})?/\d{7}(v\d+)?$`)
	inspireRecRegex = regexp.MustCompile(`^\d+$`)
)

// ArxivID extracts the arXiv identifier from an abstract or PDF URL such
// as "http://arxiv.org/abs/2511.11447v2" or "https://arxiv.org/pdf/2511.11447v2.pdf"
// and strips the version suffix. Bare identifiers and "arXiv:" prefixed
// identifiers are accepted too; other URLs yield "".
func ArxivID(raw string) string {
	id := strings.TrimSpace(raw)
	if idx := strings.LastIndex(id, "/abs/"); idx >= 0 {
		id = id[idx+5:]
	} else if idx := strings.LastIndex(id, "/pdf/"); idx >= 0 {
		id = strings.TrimSuffix(id[idx+5:], ".pdf")
	} else if strings.Contains(id, "://") {
		// Any other URL (the API reports errors as entry ids) is not an eprint.
		return ""
	}
	if len(id) > 6 && strings.EqualFold(id[:6], "arxiv:") {
		id = id[6:]
	}
	// Strip version suffix (v1, v2, etc.)
	if idx := strings.LastIndex(id, "v"); idx > 0 {
		if _, err := strconv.Atoi(id[idx+1:]); err == nil {
			id = id[:idx]
		}
	}
	return strings.TrimSpace(id)
}

// IsArxivID reports whether value looks like an old- or new-style arXiv identifier.
func IsArxivID(value string) bool {
	value = strings.TrimSpace(value)
	if len(value) > 6 && strings.EqualFold(value[:6], "arxiv:") {
		value = value[6:]
	}
	return arxivNewRegex.MatchString(value) || arxivOldRegex.MatchString(value)
}

// DetectSource guesses which catalog an identifier belongs to:
// arXiv ids and arxiv.org URLs go to "arxiv", bare integers are INSPIRE
// record ids and anything else is treated as a CDS report number.
func DetectSource(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	switch {
	case identifier == "":
		return ""
	case strings.Contains(strings.ToLower(identifier), "arxiv.org/"), IsArxivID(identifier):
		return "arxiv"
	case inspireRecRegex.MatchString(identifier):
		return "inspire"
	default:
		return "cds"
	}
}
