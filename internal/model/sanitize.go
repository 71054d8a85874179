package model

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// stripHTML converts an HTML (or HTML-encoded) fragment to plain text with
// whitespace runs and newlines collapsed to single spaces.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	unescaped := html.UnescapeString(s)
	if strings.Contains(unescaped, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(unescaped)); err == nil {
			unescaped = doc.Text()
		}
	}
	return strings.Join(strings.Fields(unescaped), " ")
}

// Sanitize cleans the display fields in place: HTML stripped, newlines
// collapsed, whitespace trimmed. Location falls back to "Remote" when empty
// after cleaning.
func (j *JobListing) Sanitize() {
	j.Title = stripHTML(j.Title)
	j.Company = stripHTML(j.Company)
	j.Location = stripHTML(j.Location)
	if j.Location == "" {
		j.Location = "Remote"
	}
	if j.Description != "" {
		j.Description = stripHTML(j.Description)
	}
}

// MissingFields reports which required fields are empty after sanitization.
// A listing is valid iff this returns nil. Callers drop invalid records but
// must log the result so data loss is never silent.
func (j JobListing) MissingFields() []string {
	var missing []string
	if j.ID == "" {
		missing = append(missing, "id")
	}
	if j.Title == "" {
		missing = append(missing, "title")
	}
	if j.Company == "" {
		missing = append(missing, "company")
	}
	if j.URL == "" {
		missing = append(missing, "url")
	}
	return missing
}

// IsValid reports whether all required fields are present.
func (j JobListing) IsValid() bool {
	return len(j.MissingFields()) == 0
}
