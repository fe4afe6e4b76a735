// Package extract evaluates profile rule tables against catalog documents
// and assembles canonical bibliographic entries.
package extract

import (
	"github.com/lehigh-university-libraries/hepbib/catalog"
	"github.com/lehigh-university-libraries/hepbib/helpers"
	"github.com/lehigh-university-libraries/hepbib/hub"
	"github.com/lehigh-university-libraries/hepbib/profile"
)

// Lookup applies the rule's queries in order and returns the first
// non-empty value. Whitespace-only nodes count as not found, so an empty
// subfield never masks a populated fallback. The rule default is used
// when nothing matches; ok is false only when there is no value at all.
func Lookup(doc *catalog.Document, rule *profile.FieldRule) (value string, ok bool) {
	if rule == nil {
		return "", false
	}
	for _, q := range rule.Compiled() {
		for _, raw := range q.Values(doc) {
			v := transform(rule.Transform, helpers.NormalizeWhitespace(raw))
			if v != "" {
				return v, true
			}
		}
	}
	if rule.Default != "" {
		return rule.Default, true
	}
	return "", false
}

// Extract returns the rule's value. An unmatched optional rule yields ""
// and no error; an unmatched required rule yields hub.ErrFieldNotFound.
func Extract(doc *catalog.Document, rule *profile.FieldRule) (string, error) {
	v, ok := Lookup(doc, rule)
	if !ok && rule != nil && rule.Required {
		return "", hub.ErrFieldNotFound
	}
	return v, nil
}

// ExtractAll returns every non-empty value of every query, in rule order
// and then document order. The default is returned alone when nothing matches.
func ExtractAll(doc *catalog.Document, rule *profile.FieldRule) []string {
	if rule == nil {
		return nil
	}
	var values []string
	for _, q := range rule.Compiled() {
		for _, raw := range q.Values(doc) {
			if v := transform(rule.Transform, helpers.NormalizeWhitespace(raw)); v != "" {
				values = append(values, v)
			}
		}
	}
	if len(values) == 0 && rule.Default != "" {
		values = append(values, rule.Default)
	}
	return values
}

func transform(name, v string) string {
	if v == "" {
		return ""
	}
	switch name {
	case profile.TransformYear:
		return helpers.Year(v)
	case profile.TransformMonth:
		return helpers.Month(v)
	case profile.TransformArxivID:
		return hub.ArxivID(v)
	case profile.TransformStripMarkup:
		return helpers.StripMarkup(v)
	}
	return v
}
