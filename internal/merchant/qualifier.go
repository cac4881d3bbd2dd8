// Package merchant decides whether a transaction description refers to an
// IRS-qualified merchant category.
package merchant

import "strings"

// qualifiedTerms is the fixed qualified-merchant vocabulary.
var qualifiedTerms = []string{
	"doctor",
	"hospital",
	"pharmacy",
	"clinic",
	"dentist",
	"optometrist",
	"chiropractor",
}

// Qualifier matches descriptions against a term vocabulary.
type Qualifier struct {
	terms []string
}

// NewQualifier returns a qualifier over the given terms, or over the
// default vocabulary when none are given. Terms are matched lower-cased.
func NewQualifier(terms ...string) *Qualifier {
	if len(terms) == 0 {
		terms = qualifiedTerms
	}
	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}
	return &Qualifier{terms: lowered}
}

// IsQualified reports whether the description contains any qualified term,
// case-insensitively. This is plain substring containment: no word
// boundaries, so "Optometrist Ave Cafe" qualifies.
func (q *Qualifier) IsQualified(description string) bool {
	d := strings.ToLower(description)
	for _, term := range q.terms {
		if strings.Contains(d, term) {
			return true
		}
	}
	return false
}
