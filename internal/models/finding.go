package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Identifier is the per-asset sequence number assigned to a finding at
// creation. It renders as a fixed-width hex tag, e.g. 1 -> "0x001".
type Identifier int

// String renders the identifier in its canonical hex form.
func (i Identifier) String() string {
	return fmt.Sprintf("0x%03X", int(i))
}

// ParseIdentifier parses an identifier in either hex-tag ("0x001") or plain
// decimal form.
func ParseIdentifier(s string) (Identifier, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		n, err := strconv.ParseInt(rest, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing identifier %q: %w", s, err)
		}
		return Identifier(n), nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing identifier %q: %w", s, err)
	}
	return Identifier(n), nil
}

// Finding is a single recorded security observation.
type Finding struct {
	// ID is the database row id; zero for findings not yet persisted.
	ID int64
	// Seq is the per-asset identifier; zero until allocated.
	Seq Identifier
	// Slug is the stable name derived from the import-source folder,
	// e.g. "sql-injection". Together with Asset it is the upsert key.
	Slug     string
	Title    string
	Severity Severity
	// Asset is the normalized name of the asset the finding belongs to.
	Asset string
	// Date the finding was recorded, "YYYY/MM/DD", empty if unknown.
	Date     string
	Location string
	// Body is the free-text narrative of the finding.
	Body   string
	Status Status
	// Images holds store-relative attachment paths, e.g. "img/proof.png".
	Images []string
}

// NewFinding creates an unpersisted finding with placeholder defaults.
func NewFinding(slug string) *Finding {
	return &Finding{
		Slug:     slug,
		Title:    slug,
		Severity: SeverityInfo,
		Asset:    "unknown",
		Status:   StatusOpen,
	}
}

// HexID renders the finding's identifier, e.g. "0x001".
func (f *Finding) HexID() string {
	return f.Seq.String()
}

// DirName is the finding's directory name inside its asset directory.
func (f *Finding) DirName() string {
	return fmt.Sprintf("%s_%s", f.HexID(), f.Slug)
}
