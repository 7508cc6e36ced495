package models

import "strings"

// DefaultField is the placeholder for optional asset metadata.
const DefaultField = "-"

// Asset is a target under assessment. Name is the natural key, unique per
// client, always stored in normalized form.
type Asset struct {
	// ID is the database row id; zero for assets not yet persisted.
	ID          int64
	Name        string
	Description string
	Contact     string
	Criticality string
	// DNSOrIP is the asset's network identifier.
	DNSOrIP string
}

// NewAsset creates an asset with every optional field defaulted. The name is
// normalized.
func NewAsset(name string) *Asset {
	return &Asset{
		Name:        NormalizeAssetName(name),
		Description: DefaultField,
		Contact:     DefaultField,
		Criticality: DefaultField,
		DNSOrIP:     DefaultField,
	}
}

// NormalizeAssetName lowercases a raw asset name and maps every
// non-alphanumeric run to a single underscore, stripping leading and
// trailing underscores. The same normalization applies whether the name
// comes from a finding's asset reference or an asset record, so the two
// always match. An empty result becomes "unknown".
func NormalizeAssetName(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(lower))
	prevUnderscore := true // strips leading underscores
	for _, r := range lower {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			b.WriteRune(r)
			prevUnderscore = false
			continue
		}
		if !prevUnderscore {
			b.WriteByte('_')
			prevUnderscore = true
		}
	}

	name := strings.TrimRight(b.String(), "_")
	if name == "" {
		return "unknown"
	}
	return name
}
