package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/lantern/internal/models"
)

const sampleFrontMatter = `---
title: SQL Injection
severity: Critical
asset: Nexus Portal
date: 2026/01/15
location: https://portal.nexus.corp/api/users?id=1
status: Open
---

User input is directly concatenated into SQL query without sanitization.
This allows an attacker to execute arbitrary SQL commands.
`

const sampleHeadingBullets = `# SQL Injection

- **Severity:** Critical
- **Asset:** Nexus Portal
- **Date:** 2026/01/15
- **Location:** https://portal.nexus.corp/api/users?id=1
- **Status:** Open

User input is directly concatenated into SQL query without sanitization.
This allows an attacker to execute arbitrary SQL commands.
`

func TestParseFindingFrontMatter(t *testing.T) {
	f, err := ParseFinding(sampleFrontMatter, "sql-injection")
	require.NoError(t, err)

	assert.Equal(t, "SQL Injection", f.Title)
	assert.Equal(t, models.SeverityCritical, f.Severity)
	assert.Equal(t, "nexus_portal", f.Asset)
	assert.Equal(t, "2026/01/15", f.Date)
	assert.Equal(t, "https://portal.nexus.corp/api/users?id=1", f.Location)
	assert.Equal(t, models.StatusOpen, f.Status)
	assert.Contains(t, f.Body, "directly concatenated")
}

func TestParseFindingHeadingBullets(t *testing.T) {
	f, err := ParseFinding(sampleHeadingBullets, "sql-injection")
	require.NoError(t, err)

	assert.Equal(t, "SQL Injection", f.Title)
	assert.Equal(t, models.SeverityCritical, f.Severity)
	assert.Equal(t, "nexus_portal", f.Asset)
	assert.Equal(t, "2026/01/15", f.Date)
	assert.Equal(t, models.StatusOpen, f.Status)
	assert.Contains(t, f.Body, "directly concatenated")
}

// The two conventions must normalize to the same record.
func TestConventionsAreEquivalent(t *testing.T) {
	a, err := ParseFinding(sampleFrontMatter, "sql-injection")
	require.NoError(t, err)
	b, err := ParseFinding(sampleHeadingBullets, "sql-injection")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParseFindingDefaults(t *testing.T) {
	f, err := ParseFinding("---\ntitle: Buffer Overflow\n---\n\nStack smash.\n", "buffer-overflow")
	require.NoError(t, err)

	assert.Equal(t, "Buffer Overflow", f.Title)
	assert.Equal(t, models.SeverityInfo, f.Severity)
	assert.Equal(t, "unknown", f.Asset)
	assert.Empty(t, f.Date)
	assert.Equal(t, models.StatusOpen, f.Status)
	assert.Equal(t, "Stack smash.", f.Body)
}

func TestParseFindingNoMetadata(t *testing.T) {
	f, err := ParseFinding("Just a raw description.\n", "raw-finding")
	require.NoError(t, err)

	assert.Equal(t, "raw-finding", f.Title)
	assert.Equal(t, "Just a raw description.", f.Body)
}

func TestParseFindingUnterminatedFence(t *testing.T) {
	f, err := ParseFinding("---\ntitle: Oops\nno closing fence here\n", "oops")
	require.NoError(t, err)

	// Treated as all narrative with the fallback title.
	assert.Equal(t, "oops", f.Title)
	assert.Contains(t, f.Body, "no closing fence")
}

func TestParseFindingRejectsUnknownSeverity(t *testing.T) {
	_, err := ParseFinding("---\ntitle: X\nseverity: severe\n---\n", "x")
	var enumErr *models.InvalidEnumValueError
	require.ErrorAs(t, err, &enumErr)
	assert.Equal(t, "severity", enumErr.Field)
	assert.Equal(t, "severe", enumErr.Value)
}

func TestParseFindingRejectsUnknownStatus(t *testing.T) {
	_, err := ParseFinding("# X\n\n- **Status:** closed\n", "x")
	var enumErr *models.InvalidEnumValueError
	require.ErrorAs(t, err, &enumErr)
	assert.Equal(t, "status", enumErr.Field)
}

func TestParseFindingMalformedHeader(t *testing.T) {
	_, err := ParseFinding("---\n\t: bad yaml [\n---\n", "x")
	var codecErr *Error
	assert.ErrorAs(t, err, &codecErr)
}

func TestFindingRoundTrip(t *testing.T) {
	findings := []*models.Finding{
		{
			Slug:     "sql-injection",
			Title:    "SQL Injection",
			Severity: models.SeverityCritical,
			Asset:    "nexus_portal",
			Date:     "2026/01/15",
			Location: "https://portal.nexus.corp/api/users?id=1",
			Body:     "User input is directly concatenated into SQL query.",
			Status:   models.StatusOpen,
		},
		{
			Slug:     "weak-tls",
			Title:    "Weak TLS: legacy ciphers enabled",
			Severity: models.SeverityLow,
			Asset:    "orion_gateway",
			Body:     "TLS 1.0 is still accepted.\n\nDisable legacy protocol versions.",
			Status:   models.StatusFalsePositive,
		},
		{
			Slug:     "empty-body",
			Title:    "Empty Body",
			Severity: models.SeverityInfo,
			Asset:    "unknown",
			Status:   models.StatusOpen,
		},
	}

	for _, want := range findings {
		t.Run(want.Slug, func(t *testing.T) {
			doc, err := RenderFinding(want)
			require.NoError(t, err)

			got, err := ParseFinding(doc, want.Slug)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// Idempotent: render(parse(render)) parses identically.
			doc2, err := RenderFinding(got)
			require.NoError(t, err)
			again, err := ParseFinding(doc2, want.Slug)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestParseAsset(t *testing.T) {
	raw := `# Nexus Portal

- **Description:** Customer-facing web portal
- **Contact:** Platform Team <platform@nexus.corp>
- **Criticality:** Critical
- **DNS/IP:** portal.nexus.corp
`
	a, err := ParseAsset(raw)
	require.NoError(t, err)

	assert.Equal(t, "nexus_portal", a.Name)
	assert.Equal(t, "Customer-facing web portal", a.Description)
	assert.Equal(t, "Platform Team <platform@nexus.corp>", a.Contact)
	assert.Equal(t, "Critical", a.Criticality)
	assert.Equal(t, "portal.nexus.corp", a.DNSOrIP)
}

func TestParseAssetMinimal(t *testing.T) {
	a, err := ParseAsset("# Helix Mobile\n")
	require.NoError(t, err)

	assert.Equal(t, "helix_mobile", a.Name)
	assert.Equal(t, models.DefaultField, a.Description)
	assert.Equal(t, models.DefaultField, a.Contact)
	assert.Equal(t, models.DefaultField, a.Criticality)
	assert.Equal(t, models.DefaultField, a.DNSOrIP)
}

func TestParseAssetPlainBullets(t *testing.T) {
	a, err := ParseAsset("# Orion Gateway\n\n- Description: API gateway\n- Criticality: High\n")
	require.NoError(t, err)

	assert.Equal(t, "API gateway", a.Description)
	assert.Equal(t, "High", a.Criticality)
}

func TestParseAssetMissingName(t *testing.T) {
	_, err := ParseAsset("- **Description:** nameless\n")
	var codecErr *Error
	require.ErrorAs(t, err, &codecErr)
	assert.Contains(t, err.Error(), "name heading")
}

func TestAssetRoundTrip(t *testing.T) {
	want := &models.Asset{
		Name:        "nexus_portal",
		Description: "Customer-facing web portal",
		Contact:     "Platform Team <platform@nexus.corp>",
		Criticality: "Critical",
		DNSOrIP:     "portal.nexus.corp",
	}

	got, err := ParseAsset(RenderAsset(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSplitAssetBlocks(t *testing.T) {
	raw := `---
# Alpha

- **Criticality:** High
---
# Beta
---

---
`
	blocks := SplitAssetBlocks(raw)
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0], "# Alpha")
	assert.Contains(t, blocks[1], "# Beta")
}

func TestSplitAssetBlocksSingle(t *testing.T) {
	blocks := SplitAssetBlocks("# Only One\n")
	require.Len(t, blocks, 1)
	assert.Equal(t, "# Only One", blocks[0])
}
