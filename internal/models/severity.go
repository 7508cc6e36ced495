// Package models contains the core record types shared by the codec,
// database, and query layers: findings, assets, and their closed
// severity/status enumerations.
package models

import "strings"

// Severity is the impact level of a finding.
type Severity string

// Severity levels in descending order of impact.
const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
	SeverityInfo     Severity = "Info"
)

// Severities lists all severity levels, most severe first.
func Severities() []Severity {
	return []Severity{
		SeverityCritical,
		SeverityHigh,
		SeverityMedium,
		SeverityLow,
		SeverityInfo,
	}
}

// String returns the canonical display form, e.g. "Critical".
func (s Severity) String() string {
	return string(s)
}

// Rank returns the sort position of the severity, 0 being most severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	case SeverityInfo:
		return 4
	default:
		return 5
	}
}

// ParseSeverity parses a severity token case-insensitively. Unknown tokens
// are rejected with an InvalidEnumValueError rather than silently defaulted.
func ParseSeverity(token string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "critical":
		return SeverityCritical, nil
	case "high":
		return SeverityHigh, nil
	case "medium":
		return SeverityMedium, nil
	case "low":
		return SeverityLow, nil
	case "info", "informational":
		return SeverityInfo, nil
	default:
		return "", &InvalidEnumValueError{Field: "severity", Value: token}
	}
}

// SeverityCounts holds per-severity finding totals.
type SeverityCounts struct {
	Critical int
	High     int
	Medium   int
	Low      int
	Info     int
	Total    int
}

// Count returns the tally for a single severity level.
func (c SeverityCounts) Count(s Severity) int {
	switch s {
	case SeverityCritical:
		return c.Critical
	case SeverityHigh:
		return c.High
	case SeverityMedium:
		return c.Medium
	case SeverityLow:
		return c.Low
	case SeverityInfo:
		return c.Info
	default:
		return 0
	}
}

// Add increments the tally for a single severity level.
func (c *SeverityCounts) Add(s Severity, n int) {
	switch s {
	case SeverityCritical:
		c.Critical += n
	case SeverityHigh:
		c.High += n
	case SeverityMedium:
		c.Medium += n
	case SeverityLow:
		c.Low += n
	case SeverityInfo:
		c.Info += n
	}
	c.Total += n
}
