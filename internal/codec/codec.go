// Package codec parses and serializes the plain-text finding and asset
// formats: a metadata block plus free-text body. Two metadata conventions
// are accepted and auto-detected from the document's first non-blank line:
// a fenced YAML front-matter header, or a leading heading with labelled
// bullet lines. Both normalize to the same in-memory record; the
// front-matter form is canonical on write.
package codec

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joshsymonds/lantern/internal/models"
)

// Error reports a malformed or ambiguous source document.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("malformed document: %s", e.Reason)
}

// frontMatter mirrors the fenced metadata header of a finding document.
type frontMatter struct {
	Title    string `yaml:"title"`
	Severity string `yaml:"severity,omitempty"`
	Asset    string `yaml:"asset,omitempty"`
	Date     string `yaml:"date,omitempty"`
	Location string `yaml:"location,omitempty"`
	Status   string `yaml:"status,omitempty"`
}

// ParseFinding parses a finding document. fallbackTitle (normally the source
// folder's slug) is used when the document carries no title. Missing fields
// take their defaults; unknown severity or status tokens fail with a
// models.InvalidEnumValueError rather than silently defaulting.
func ParseFinding(raw, fallbackTitle string) (*models.Finding, error) {
	f := models.NewFinding(fallbackTitle)
	f.Title = fallbackTitle

	first := firstNonBlankLine(raw)
	switch {
	case strings.HasPrefix(first, "---"):
		if err := parseFrontMatterFinding(raw, f); err != nil {
			return nil, err
		}
	case strings.HasPrefix(first, "# "):
		if err := parseHeadingFinding(raw, f); err != nil {
			return nil, err
		}
	default:
		// No metadata at all: the whole document is narrative.
		f.Body = strings.TrimSpace(raw)
	}

	return f, nil
}

// RenderFinding serializes a finding to its canonical document form:
// YAML front matter followed by the narrative body.
func RenderFinding(f *models.Finding) (string, error) {
	fm := frontMatter{
		Title:    f.Title,
		Severity: f.Severity.String(),
		Asset:    f.Asset,
		Date:     f.Date,
		Location: f.Location,
		Status:   f.Status.String(),
	}

	head, err := yaml.Marshal(&fm)
	if err != nil {
		return "", fmt.Errorf("marshaling metadata: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(head)
	b.WriteString("---\n")
	if f.Body != "" {
		b.WriteString("\n")
		b.WriteString(f.Body)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// ParseAsset parses a single asset block: a "# name" heading followed by
// labelled bullet lines. Only the name is required; the other fields keep
// the "-" placeholder.
func ParseAsset(raw string) (*models.Asset, error) {
	a := &models.Asset{
		Description: models.DefaultField,
		Contact:     models.DefaultField,
		Criticality: models.DefaultField,
		DNSOrIP:     models.DefaultField,
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "# ") {
			a.Name = models.NormalizeAssetName(strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
			continue
		}

		if v, ok := extractField(trimmed, "description"); ok && v != "" {
			a.Description = v
		} else if v, ok := extractField(trimmed, "contact"); ok && v != "" {
			a.Contact = v
		} else if v, ok := extractField(trimmed, "criticality"); ok && v != "" {
			a.Criticality = v
		} else if v, ok := extractField(trimmed, "dns/ip"); ok && v != "" {
			a.DNSOrIP = v
		}
	}

	if a.Name == "" {
		return nil, &Error{Reason: "asset block is missing a name heading"}
	}
	return a, nil
}

// RenderAsset serializes an asset to its canonical document form.
func RenderAsset(a *models.Asset) string {
	return fmt.Sprintf(
		"# %s\n\n- **Description:** %s\n- **Contact:** %s\n- **Criticality:** %s\n- **DNS/IP:** %s\n",
		a.Name, a.Description, a.Contact, a.Criticality, a.DNSOrIP,
	)
}

// SplitAssetBlocks splits a bulk asset file on horizontal-rule lines into
// independent blocks. Empty blocks around leading or trailing rules are
// dropped, not treated as errors.
func SplitAssetBlocks(raw string) []string {
	var blocks []string
	var current []string

	flush := func() {
		block := strings.TrimSpace(strings.Join(current, "\n"))
		if block != "" {
			blocks = append(blocks, block)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		if isHorizontalRule(line) {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

// ---------------------------------------------------------------------------
// Finding conventions
// ---------------------------------------------------------------------------

func parseFrontMatterFinding(raw string, f *models.Finding) error {
	trimmed := strings.TrimLeft(raw, " \t\r\n")
	rest := trimmed[len("---"):]

	// Skip the remainder of the opening fence line.
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[idx+1:]
	} else {
		rest = ""
	}

	end := strings.Index(rest, "\n---")
	if end < 0 {
		// Opening fence without a closing one: lenient, all narrative.
		f.Body = strings.TrimSpace(raw)
		return nil
	}

	head := rest[:end]
	body := rest[end+len("\n---"):]
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		body = body[idx+1:]
	} else {
		body = ""
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(head), &fm); err != nil {
		return &Error{Reason: fmt.Sprintf("invalid metadata header: %v", err)}
	}

	if err := applyMetadata(f, fm); err != nil {
		return err
	}
	f.Body = strings.TrimSpace(body)
	return nil
}

// parseHeadingFinding handles the heading-plus-bullets convention: the
// first "# " heading is the title, the following labelled bullet lines are
// metadata, and everything after them is the body.
func parseHeadingFinding(raw string, f *models.Finding) error {
	lines := strings.Split(raw, "\n")
	fm := frontMatter{}

	i := 0
	// Locate the heading.
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		fm.Title = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		i++
		break
	}

	// Consume the contiguous metadata bullet block.
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if v, ok := extractField(trimmed, "severity"); ok {
			fm.Severity = v
		} else if v, ok := extractField(trimmed, "asset"); ok {
			fm.Asset = v
		} else if v, ok := extractField(trimmed, "date"); ok {
			fm.Date = v
		} else if v, ok := extractField(trimmed, "location"); ok {
			fm.Location = v
		} else if v, ok := extractField(trimmed, "status"); ok {
			fm.Status = v
		} else {
			break
		}
	}

	if err := applyMetadata(f, fm); err != nil {
		return err
	}
	f.Body = strings.TrimSpace(strings.Join(lines[i:], "\n"))
	return nil
}

// applyMetadata copies parsed metadata onto the finding, validating the
// enumerated fields and normalizing the asset reference.
func applyMetadata(f *models.Finding, fm frontMatter) error {
	if fm.Title != "" {
		f.Title = fm.Title
	}
	if fm.Severity != "" {
		sev, err := models.ParseSeverity(fm.Severity)
		if err != nil {
			return err
		}
		f.Severity = sev
	}
	if fm.Status != "" {
		st, err := models.ParseStatus(fm.Status)
		if err != nil {
			return err
		}
		f.Status = st
	}
	if fm.Asset != "" {
		f.Asset = models.NormalizeAssetName(fm.Asset)
	}
	f.Date = strings.TrimSpace(fm.Date)
	f.Location = strings.TrimSpace(fm.Location)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func firstNonBlankLine(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// extractField pulls a value from a labelled bullet line, handling both
// "- **Field:** value" and "- Field: value". The label must lead the
// line so field-like text inside values cannot match.
func extractField(line, field string) (string, bool) {
	stripped := strings.TrimLeft(strings.TrimSpace(line), "-* \t")
	lower := strings.ToLower(stripped)
	for _, pat := range []string{field + ":**", field + ":"} {
		if strings.HasPrefix(lower, pat) {
			return strings.TrimSpace(stripped[len(pat):]), true
		}
	}
	return "", false
}

func isHorizontalRule(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 3 {
		return false
	}
	return strings.Trim(trimmed, "-") == "" || strings.Trim(trimmed, "*") == ""
}
