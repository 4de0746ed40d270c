package report

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/insights/internal/json"
)

func TestOutcomeTypeFromTestStatus(t *testing.T) {
	tests := []struct {
		status ManualTestStatus
		want   OutcomeType
	}{
		{StatusPass, OutcomePass},
		{StatusFail, OutcomeFail},
		{StatusUnknown, OutcomeIncomplete},
	}
	for _, tc := range tests {
		if got := OutcomeTypeFromTestStatus(tc.status); got != tc.want {
			t.Errorf("OutcomeTypeFromTestStatus(%s) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestOutcomeStatsEmpty(t *testing.T) {
	stats := OutcomeStatsFromManualTestStatus(map[string]StepResult{})
	assert.Equal(t, OutcomeStats{}, stats)
	assert.Zero(t, stats.Total())

	assert.Equal(t, OutcomeStats{}, OutcomeStatsFromManualTestStatus(nil))
}

func generateSteps(pass, fail, incomplete int) map[string]StepResult {
	steps := make(map[string]StepResult)
	i := 0
	add := func(n int, status ManualTestStatus) {
		for range n {
			i++
			steps[fmt.Sprintf("step%d", i)] = StepResult{StepFinalResult: status, IsStepScanned: true}
		}
	}
	add(pass, StatusPass)
	add(fail, StatusFail)
	add(incomplete, StatusUnknown)
	return steps
}

func TestOutcomeStatsPopulated(t *testing.T) {
	stats := OutcomeStatsFromManualTestStatus(generateSteps(10, 20, 30))
	assert.Equal(t, OutcomeStats{Pass: 10, Fail: 20, Incomplete: 30}, stats)
	assert.Equal(t, 60, stats.Total())
}

func TestManualTestStatusJSON(t *testing.T) {
	var steps map[string]StepResult
	require.NoError(t, json.Unmarshal([]byte(`{
		"step1": {"stepFinalResult": "PASS", "isStepScanned": true},
		"step2": {"stepFinalResult": "FAIL", "isStepScanned": false}
	}`), &steps))

	assert.Equal(t, OutcomeStats{Pass: 1, Fail: 1}, OutcomeStatsFromManualTestStatus(steps))

	out, err := json.Marshal(StepResult{StepFinalResult: StatusUnknown})
	require.NoError(t, err)
	assert.JSONEq(t, `{"stepFinalResult":"UNKNOWN","isStepScanned":false}`, string(out))

	var s ManualTestStatus
	assert.Error(t, s.UnmarshalText([]byte("MAYBE")))
}
