package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    Severity
		wantErr bool
	}{
		{name: "canonical", token: "Critical", want: SeverityCritical},
		{name: "lowercase", token: "high", want: SeverityHigh},
		{name: "uppercase", token: "MEDIUM", want: SeverityMedium},
		{name: "padded", token: "  Low  ", want: SeverityLow},
		{name: "informational alias", token: "informational", want: SeverityInfo},
		{name: "unknown token", token: "severe", wantErr: true},
		{name: "empty", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeverity(tt.token)
			if tt.wantErr {
				var enumErr *InvalidEnumValueError
				require.ErrorAs(t, err, &enumErr)
				assert.Equal(t, "severity", enumErr.Field)
				assert.Equal(t, tt.token, enumErr.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    Status
		wantErr bool
	}{
		{name: "open", token: "Open", want: StatusOpen},
		{name: "compact in progress", token: "InProgress", want: StatusInProgress},
		{name: "spaced in progress", token: "in progress", want: StatusInProgress},
		{name: "resolved", token: "resolved", want: StatusResolved},
		{name: "false positive", token: "False Positive", want: StatusFalsePositive},
		{name: "unknown token", token: "closed", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.token)
			if tt.wantErr {
				var enumErr *InvalidEnumValueError
				require.ErrorAs(t, err, &enumErr)
				assert.Equal(t, "status", enumErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentifierRendering(t *testing.T) {
	assert.Equal(t, "0x001", Identifier(1).String())
	assert.Equal(t, "0x00A", Identifier(10).String())
	assert.Equal(t, "0xFFF", Identifier(4095).String())
	// Widens past three digits instead of wrapping.
	assert.Equal(t, "0x1000", Identifier(4096).String())
}

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Identifier
		wantErr bool
	}{
		{name: "hex tag", input: "0x001", want: 1},
		{name: "hex uppercase", input: "0x00A", want: 10},
		{name: "decimal", input: "12", want: 12},
		{name: "garbage", input: "0xzz", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIdentifier(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeAssetName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Web App", "web_app"},
		{"  API Server  ", "api_server"},
		{"My  Cool  App", "my_cool_app"},
		{"already_ok", "already_ok"},
		{"Nexus Portal", "nexus_portal"},
		{"a--b", "a_b"},
		{"__trimmed__", "trimmed"},
		{"", "unknown"},
		{"***", "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeAssetName(tt.raw), "input %q", tt.raw)
	}
}

func TestNewFindingDefaults(t *testing.T) {
	f := NewFinding("sql-injection")
	assert.Equal(t, "sql-injection", f.Slug)
	assert.Equal(t, "sql-injection", f.Title)
	assert.Equal(t, SeverityInfo, f.Severity)
	assert.Equal(t, "unknown", f.Asset)
	assert.Equal(t, StatusOpen, f.Status)
	assert.Empty(t, f.Date)
	assert.Empty(t, f.Body)
}

func TestFindingDirName(t *testing.T) {
	f := NewFinding("sql-injection")
	f.Seq = 1
	assert.Equal(t, "0x001_sql-injection", f.DirName())
}

func TestNewAssetDefaults(t *testing.T) {
	a := NewAsset("Nexus Portal")
	assert.Equal(t, "nexus_portal", a.Name)
	assert.Equal(t, DefaultField, a.Description)
	assert.Equal(t, DefaultField, a.Contact)
	assert.Equal(t, DefaultField, a.Criticality)
	assert.Equal(t, DefaultField, a.DNSOrIP)
}

func TestSeverityCounts(t *testing.T) {
	var c SeverityCounts
	c.Add(SeverityCritical, 2)
	c.Add(SeverityInfo, 1)
	assert.Equal(t, 2, c.Critical)
	assert.Equal(t, 1, c.Info)
	assert.Equal(t, 3, c.Total)
	assert.Equal(t, 2, c.Count(SeverityCritical))
	assert.Equal(t, 0, c.Count(SeverityLow))
}

func TestInvalidEnumValueErrorMessage(t *testing.T) {
	err := error(&InvalidEnumValueError{Field: "severity", Value: "severe"})
	assert.Equal(t, `invalid severity value: "severe"`, err.Error())
	var enumErr *InvalidEnumValueError
	assert.True(t, errors.As(err, &enumErr))
}
