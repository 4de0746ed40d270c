package luarules

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dshills/insights/internal/rules"
)

const labelRules = `
rule {
    id = "LabelOverlap",
    description = "Labels must not overlap.",
    how_to_fix = function(props)
        return "Move the label " .. props["label"] .. " apart.", { "layout_margin" }
    end,
    include = function(props) return props["Severity"] ~= "Low" end,
}

rule {
    id = "FocusOrder",
    description = "Focus order must be logical.",
    how_to_fix = "Set nextFocusForward on the element.",
    code = { "nextFocusForward" },
}
`

func newLoader(t *testing.T, opts ...StateOption) *Loader {
	t.Helper()
	l := NewLoader(zaptest.NewLogger(t), opts...)
	t.Cleanup(l.Close)
	return l
}

func TestLoadString(t *testing.T) {
	l := newLoader(t)

	defs, err := l.LoadString("labels", labelRules)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	overlap := defs[0]
	assert.Equal(t, rules.RuleID("LabelOverlap"), overlap.RuleID)
	assert.Equal(t, "Labels must not overlap.", overlap.RuleDescription)

	res, err := overlap.Resolution(rules.RuleResultsData{Props: map[string]any{"label": "Name"}})
	require.NoError(t, err)
	assert.Equal(t, "Move the label Name apart.", res.HowToFixSummary)
	assert.Equal(t, []string{"layout_margin"}, res.HowToFixFormat.FormatAsCode)

	assert.True(t, overlap.Include(rules.RuleResultsData{Props: map[string]any{"Severity": "High"}}))
	assert.False(t, overlap.Include(rules.RuleResultsData{Props: map[string]any{"Severity": "Low"}}))

	focus := defs[1]
	res, err = focus.Resolution(rules.RuleResultsData{})
	require.NoError(t, err)
	assert.Equal(t, "Set nextFocusForward on the element.", res.HowToFixFormat.HowToFix)
	assert.Equal(t, []string{"nextFocusForward"}, res.HowToFixFormat.FormatAsCode)
	assert.True(t, focus.Include(rules.RuleResultsData{}))
}

func TestRegisterIntoProvider(t *testing.T) {
	l := newLoader(t)
	defs, err := l.LoadString("labels", labelRules)
	require.NoError(t, err)

	p := rules.NewProvider()
	require.NoError(t, Register(p, defs))
	assert.NotNil(t, p.GetRuleInformation("FocusOrder"))
	assert.NotNil(t, p.GetRuleInformation(rules.ColorContrast))

	assert.ErrorIs(t, Register(p, defs), rules.ErrDuplicateRule)
}

func TestInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"missing id", `rule { how_to_fix = "x" }`},
		{"missing how_to_fix", `rule { id = "A" }`},
		{"bad include", `rule { id = "A", how_to_fix = "x", include = true }`},
		{"bad code list", `rule { id = "A", how_to_fix = "x", code = "minWidth" }`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := newLoader(t)
			defs, err := l.LoadString(tc.name, tc.code)
			require.Error(t, err)
			assert.Contains(t, err.Error(), ErrInvalidDefinition.Error())
			assert.Nil(t, defs)
		})
	}
}

func TestBadReturn(t *testing.T) {
	l := newLoader(t)
	defs, err := l.LoadString("bad", `
rule { id = "Nothing", how_to_fix = function(props) end }
rule { id = "Number", how_to_fix = function(props) return 42 end }
rule { id = "Fails", how_to_fix = function(props) error("boom") end }
`)
	require.NoError(t, err)
	require.Len(t, defs, 3)

	for _, d := range defs[:2] {
		_, err := d.Resolution(rules.RuleResultsData{})
		assert.ErrorIs(t, err, ErrBadReturn, "rule %s", d.RuleID)
	}
	_, err = defs[2].Resolution(rules.RuleResultsData{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestSandbox(t *testing.T) {
	l := newLoader(t)
	for _, code := range []string{
		`io.open("/etc/passwd")`,
		`os.execute("true")`,
		`dofile("x.lua")`,
		`require("os")`,
		`load("return 1")()`,
	} {
		_, err := l.LoadString("sandbox", code)
		assert.Error(t, err, code)
	}
}

func TestExecutionTimeout(t *testing.T) {
	l := newLoader(t, WithExecutionTimeout(50*time.Millisecond))
	_, err := l.LoadString("loop", `while true do end`)
	require.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`rule { id = "B", how_to_fix = "b" }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`rule { id = "A", how_to_fix = "a" }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not lua`), 0o644))

	l := newLoader(t)
	defs, err := l.LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, rules.RuleID("A"), defs[0].RuleID)
	assert.Equal(t, rules.RuleID("B"), defs[1].RuleID)

	defs, err = l.LoadDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestClosedState(t *testing.T) {
	l := NewLoader(nil)
	defs, err := l.LoadString("x", `rule { id = "X", how_to_fix = function() return "x" end }`)
	require.NoError(t, err)
	l.Close()

	_, err = defs[0].Resolution(rules.RuleResultsData{})
	assert.ErrorIs(t, err, ErrStateClosed)
}
