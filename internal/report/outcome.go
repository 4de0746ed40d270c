// Package report summarizes manual assessment results for reports.
package report

import (
	"fmt"
	"strings"
)

// ManualTestStatus is the result of a manually assessed step.
type ManualTestStatus uint8

// Manual test statuses.
const (
	StatusPass ManualTestStatus = iota
	StatusFail
	StatusUnknown
)

// String returns the status name.
func (s ManualTestStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusUnknown:
		return "UNKNOWN"
	default:
		return fmt.Sprintf("ManualTestStatus(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s ManualTestStatus) MarshalText() ([]byte, error) {
	if s > StatusUnknown {
		return nil, fmt.Errorf("invalid manual test status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ManualTestStatus) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "PASS":
		*s = StatusPass
	case "FAIL":
		*s = StatusFail
	case "UNKNOWN":
		*s = StatusUnknown
	default:
		return fmt.Errorf("invalid manual test status %q", text)
	}
	return nil
}

// OutcomeType is how a status is presented in a report.
type OutcomeType string

// Outcome types.
const (
	OutcomePass       OutcomeType = "pass"
	OutcomeFail       OutcomeType = "fail"
	OutcomeIncomplete OutcomeType = "incomplete"
)

// OutcomeTypeFromTestStatus maps a manual test status to its outcome.
func OutcomeTypeFromTestStatus(s ManualTestStatus) OutcomeType {
	switch s {
	case StatusPass:
		return OutcomePass
	case StatusFail:
		return OutcomeFail
	default:
		return OutcomeIncomplete
	}
}

// StepResult is the recorded result of one assessment step.
type StepResult struct {
	StepFinalResult ManualTestStatus `json:"stepFinalResult"`
	IsStepScanned   bool             `json:"isStepScanned"`
}

// OutcomeStats counts steps per outcome.
type OutcomeStats struct {
	Pass       int `json:"pass"`
	Fail       int `json:"fail"`
	Incomplete int `json:"incomplete"`
}

// Add counts one step with outcome t.
func (o *OutcomeStats) Add(t OutcomeType) {
	switch t {
	case OutcomePass:
		o.Pass++
	case OutcomeFail:
		o.Fail++
	default:
		o.Incomplete++
	}
}

// Total returns the number of counted steps.
func (o OutcomeStats) Total() int {
	return o.Pass + o.Fail + o.Incomplete
}

// OutcomeStatsFromManualTestStatus counts the outcomes of a set of steps keyed by step name.
func OutcomeStatsFromManualTestStatus(steps map[string]StepResult) OutcomeStats {
	var stats OutcomeStats
	for _, step := range steps {
		stats.Add(OutcomeTypeFromTestStatus(step.StepFinalResult))
	}
	return stats
}
