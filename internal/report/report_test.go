package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/lantern/internal/models"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		asset string
		want  string
	}{
		{asset: "nexus_portal", want: "Nexus Portal"},
		{asset: "api_server_v2", want: "Api Server V2"},
		{asset: "unknown", want: "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.asset))
	}
}

func TestPlainText(t *testing.T) {
	body := `## Impact

The **attacker** can read [internal records](https://example.corp/db)
using ` + "`UNION SELECT`" + ` payloads.`

	want := `Impact

The attacker can read internal records
using UNION SELECT payloads.`

	assert.Equal(t, want, PlainText(body))
}

func TestBuild(t *testing.T) {
	f := models.NewFinding("sql_injection")
	f.Seq = 1
	f.Title = "SQL Injection in Login"
	f.Severity = models.SeverityCritical
	f.Asset = "nexus_portal"
	f.Date = "2026/03/14"
	f.Location = "https://portal.example.corp/login"
	f.Body = "The **login form** is vulnerable."
	f.Status = models.StatusOpen

	entries := Build([]models.Finding{*f})
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "0x001", e.Num)
	assert.Equal(t, "SQL Injection in Login", e.Title)
	assert.Equal(t, "Critical", e.Severity)
	assert.Equal(t, "Nexus Portal", e.Asset)
	assert.Equal(t, "2026/03/14", e.Date)
	assert.Equal(t, "The login form is vulnerable.", e.Description)
	assert.Equal(t, "Open", e.Status)
}

func TestWriteJSON(t *testing.T) {
	f := models.NewFinding("sqli")
	f.Seq = 2
	f.Asset = "web_app"

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Build([]models.Finding{*f})))

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "0x002", decoded[0]["num"])

	// Empty input still yields a valid array.
	buf.Reset()
	require.NoError(t, WriteJSON(&buf, Build(nil)))
	assert.Equal(t, "[]\n", buf.String())
}
