package models

import "strings"

// Status is the workflow state of a finding.
type Status string

// Workflow states. The display form keeps the space ("In Progress"); parsing
// accepts both the spaced and compact spellings.
const (
	StatusOpen          Status = "Open"
	StatusInProgress    Status = "In Progress"
	StatusResolved      Status = "Resolved"
	StatusFalsePositive Status = "False Positive"
)

// Statuses lists all workflow states.
func Statuses() []Status {
	return []Status{
		StatusOpen,
		StatusInProgress,
		StatusResolved,
		StatusFalsePositive,
	}
}

// String returns the canonical display form, e.g. "In Progress".
func (s Status) String() string {
	return string(s)
}

// ParseStatus parses a status token case-insensitively, ignoring internal
// whitespace. Unknown tokens are rejected with an InvalidEnumValueError.
func ParseStatus(token string) (Status, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(token)), " ", "") {
	case "open":
		return StatusOpen, nil
	case "inprogress":
		return StatusInProgress, nil
	case "resolved":
		return StatusResolved, nil
	case "falsepositive":
		return StatusFalsePositive, nil
	default:
		return "", &InvalidEnumValueError{Field: "status", Value: token}
	}
}
