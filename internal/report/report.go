// Package report flattens findings into the entries a downstream
// document generator consumes. Markdown formatting is stripped from
// narrative bodies and asset slugs are expanded to display names, so
// the generator never has to understand the storage conventions.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joshsymonds/lantern/internal/models"
)

// Entry is one finding in generator-ready form.
type Entry struct {
	Num         string `json:"num"`
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Asset       string `json:"asset"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

var titleCaser = cases.Title(language.English)

// Build converts findings to entries, preserving input order.
func Build(findings []models.Finding) []Entry {
	entries := make([]Entry, 0, len(findings))
	for _, f := range findings {
		entries = append(entries, Entry{
			Num:         f.Seq.String(),
			Title:       f.Title,
			Severity:    f.Severity.String(),
			Asset:       DisplayName(f.Asset),
			Date:        f.Date,
			Location:    f.Location,
			Description: PlainText(f.Body),
			Status:      f.Status.String(),
		})
	}
	return entries
}

// WriteJSON writes entries as an indented JSON array.
func WriteJSON(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding report entries: %w", err)
	}
	return nil
}

// DisplayName expands a normalized asset name back into a
// human-readable form: underscores become spaces and each word is
// title-cased.
func DisplayName(asset string) string {
	return titleCaser.String(strings.ReplaceAll(asset, "_", " "))
}

var (
	linkPattern    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	headingPattern = regexp.MustCompile(`(?m)^#{1,6}\s+`)
)

// PlainText strips common markdown formatting from a narrative body:
// headings, emphasis markers, inline code, and links. Paragraph breaks
// are kept.
func PlainText(body string) string {
	text := headingPattern.ReplaceAllString(body, "")
	text = linkPattern.ReplaceAllString(text, "$1")
	for _, marker := range []string{"**", "__", "`"} {
		text = strings.ReplaceAll(text, marker, "")
	}
	return strings.TrimSpace(text)
}
