package domain

import "strings"

// CompanyProfile holds the profile facts used to build the company
// reference vector. All fields are optional; empty ones are skipped.
type CompanyProfile struct {
	Name        string
	Products    []string
	Services    []string
	Categories  []string
	Audience    string
	SiteExcerpt string
}

// maxExcerptRunes bounds the scraped-text excerpt so a single long page
// cannot dominate the reference embedding.
const maxExcerptRunes = 1500

// ReferenceText concatenates the profile facts into the text that is
// embedded once per pipeline run as the company reference vector.
func (p *CompanyProfile) ReferenceText() string {
	var parts []string

	if p.Name != "" {
		parts = append(parts, p.Name)
	}
	if len(p.Products) > 0 {
		parts = append(parts, "Products: "+strings.Join(p.Products, ", "))
	}
	if len(p.Services) > 0 {
		parts = append(parts, "Services: "+strings.Join(p.Services, ", "))
	}
	if len(p.Categories) > 0 {
		parts = append(parts, "Categories: "+strings.Join(p.Categories, ", "))
	}
	if p.Audience != "" {
		parts = append(parts, "Audience: "+p.Audience)
	}
	if p.SiteExcerpt != "" {
		excerpt := p.SiteExcerpt
		if runes := []rune(excerpt); len(runes) > maxExcerptRunes {
			excerpt = string(runes[:maxExcerptRunes])
		}
		parts = append(parts, excerpt)
	}

	return strings.Join(parts, ". ")
}

// IsEmpty reports whether the profile carries no usable facts.
func (p *CompanyProfile) IsEmpty() bool {
	return p.ReferenceText() == ""
}
