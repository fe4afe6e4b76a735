package profile

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/lehigh-university-libraries/hepbib/hub"
)

// Resolution is everything needed to fetch and extract one record.
type Resolution struct {
	Profile       *Profile
	QueryURL      string
	BaseRecordURL string
}

// KindAuto picks the source from the shape of the identifier.
const KindAuto Kind = "auto"

// Resolve maps a source and identifier to its query URL and rule set.
// The profile is looked up by the source name, so a user profile named
// "cds" replaces the embedded one.
func (r *Registry) Resolve(kind Kind, identifier string) (*Resolution, error) {
	if strings.EqualFold(strings.TrimSpace(string(kind)), string(KindAuto)) {
		kind = Kind(hub.DetectSource(identifier))
	}
	k, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("%s: empty identifier", k)
	}

	p, ok := r.Get(string(k))
	if !ok {
		return nil, fmt.Errorf("%w: no profile registered for %s", hub.ErrUnsupportedSource, k)
	}

	if k == KindArxiv {
		id := hub.ArxivID(identifier)
		if id == "" {
			return nil, fmt.Errorf("%s: %q is not an arXiv identifier", k, identifier)
		}
		identifier = id
	}

	return &Resolution{
		Profile:       p,
		QueryURL:      strings.ReplaceAll(p.QueryURL, "{id}", url.QueryEscape(identifier)),
		BaseRecordURL: p.BaseRecordURL(),
	}, nil
}

// Resolve resolves against the embedded profiles.
func Resolve(kind Kind, identifier string) (*Resolution, error) {
	r, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	return r.Resolve(kind, identifier)
}
