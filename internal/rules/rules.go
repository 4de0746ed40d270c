// Package rules turns raw platform scan results into remediation text.
//
// A Provider maps rule ids to RuleInformation entries. Each entry carries a
// static description, a formatter that renders how-to-fix text from the
// properties of one scan result, and a predicate deciding whether a result is
// reported at all.
package rules

import (
	"fmt"
	"slices"
	"sync"
)

// RuleID identifies an accessibility rule.
type RuleID string

// RuleResultsData is one rule result reported by a platform scan.
type RuleResultsData struct {
	AxeViewID string         `json:"axeViewId"`
	RuleID    RuleID         `json:"ruleId"`
	Status    string         `json:"status"`
	Props     map[string]any `json:"props"`
}

// HowToFixFormat is remediation text plus the substrings to render as code.
type HowToFixFormat struct {
	HowToFix     string   `json:"howToFix"`
	FormatAsCode []string `json:"formatAsCode"`
}

// UnifiedFormattableResolution is the rendered remediation of one result.
type UnifiedFormattableResolution struct {
	HowToFixSummary string         `json:"howToFixSummary"`
	HowToFixFormat  HowToFixFormat `json:"howToFixFormat"`
}

// FormatFunc renders the remediation for one result.
type FormatFunc func(RuleResultsData) (UnifiedFormattableResolution, error)

// IncludeFunc reports whether a result should be reported.
type IncludeFunc func(RuleResultsData) bool

// RuleInformation is the static metadata of one rule.
type RuleInformation struct {
	RuleID            RuleID
	RuleDescription   string
	HowToFixFormat    FormatFunc
	IncludeThisResult IncludeFunc
}

// Resolution renders the remediation for a result.
func (r *RuleInformation) Resolution(result RuleResultsData) (UnifiedFormattableResolution, error) {
	res, err := r.HowToFixFormat(result)
	if err != nil {
		return UnifiedFormattableResolution{}, fmt.Errorf("rule %s: %w", r.RuleID, err)
	}
	return res, nil
}

// Include applies the inclusion predicate. A rule without one includes every result.
func (r *RuleInformation) Include(result RuleResultsData) bool {
	if r.IncludeThisResult == nil {
		return true
	}
	return r.IncludeThisResult(result)
}

// Provider looks up rule information by id.
type Provider struct {
	mu      sync.RWMutex
	rules   map[RuleID]*RuleInformation
	builtin map[RuleID]bool
}

// NewProvider creates a provider holding the built-in rules.
func NewProvider() *Provider {
	p := &Provider{
		rules:   make(map[RuleID]*RuleInformation),
		builtin: make(map[RuleID]bool),
	}
	for _, r := range builtinRules() {
		p.rules[r.RuleID] = r
		p.builtin[r.RuleID] = true
	}
	return p
}

// GetRuleInformation returns the rule for id, or nil if the id is unknown.
func (p *Provider) GetRuleInformation(id RuleID) *RuleInformation {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rules[id]
}

// Register adds a rule. Ids must be unique.
func (p *Provider) Register(r *RuleInformation) error {
	if r == nil || r.RuleID == "" || r.HowToFixFormat == nil {
		return ErrInvalidRule
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.rules[r.RuleID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, r.RuleID)
	}
	p.rules[r.RuleID] = r
	return nil
}

// IsBuiltin reports whether id names a built-in rule.
func (p *Provider) IsBuiltin(id RuleID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.builtin[id]
}

// Replace adds or overwrites a rule. Built-in rules cannot be replaced.
func (p *Provider) Replace(r *RuleInformation) error {
	if r == nil || r.RuleID == "" || r.HowToFixFormat == nil {
		return ErrInvalidRule
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.builtin[r.RuleID] {
		return fmt.Errorf("%w: %s is built in", ErrDuplicateRule, r.RuleID)
	}
	p.rules[r.RuleID] = r
	return nil
}

// Remove drops a registered rule and reports whether it was present.
// Built-in rules are never removed.
func (p *Provider) Remove(id RuleID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.builtin[id] {
		return false
	}
	if _, ok := p.rules[id]; !ok {
		return false
	}
	delete(p.rules, id)
	return true
}

// RuleIDs returns the registered ids in sorted order.
func (p *Provider) RuleIDs() []RuleID {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]RuleID, 0, len(p.rules))
	for id := range p.rules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// FilterResults keeps the results whose rule is known and whose inclusion
// predicate accepts them, preserving order.
func (p *Provider) FilterResults(results []RuleResultsData) []RuleResultsData {
	out := make([]RuleResultsData, 0, len(results))
	for _, r := range results {
		info := p.GetRuleInformation(r.RuleID)
		if info == nil || !info.Include(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}
