package stores

import (
	"slices"

	"github.com/dshills/insights/internal/actions"
	"github.com/dshills/insights/internal/flux"
)

// Scoping input types.
const (
	ScopingInclude = "include"
	ScopingExclude = "exclude"
)

// ScopingStoreData maps an input type to its selectors. A selector is a path
// of CSS selectors through nested frames.
type ScopingStoreData struct {
	Selectors map[string][][]string `json:"selectors"`
}

func (d ScopingStoreData) clone() ScopingStoreData {
	out := ScopingStoreData{Selectors: make(map[string][][]string, len(d.Selectors))}
	for k, sels := range d.Selectors {
		cp := make([][]string, len(sels))
		for i, sel := range sels {
			cp[i] = slices.Clone(sel)
		}
		out.Selectors[k] = cp
	}
	return out
}

// ScopingStore holds include/exclude selectors.
type ScopingStore struct {
	*flux.Store[ScopingStoreData]
}

// NewScopingStore creates the store and binds it to the scoping actions.
func NewScopingStore(a *actions.ScopingActions) *ScopingStore {
	initial := ScopingStoreData{Selectors: map[string][][]string{
		ScopingInclude: {},
		ScopingExclude: {},
	}}
	s := &ScopingStore{flux.NewStore("ScopingStore", initial)}
	a.GetCurrentState.AddListener(func(struct{}) { s.Emit() })
	a.AddSelector.AddListener(s.onAddSelector)
	a.DeleteSelector.AddListener(s.onDeleteSelector)
	return s
}

// Selectors returns a copy of the selectors for an input type.
func (s *ScopingStore) Selectors(inputType string) [][]string {
	return s.State().clone().Selectors[inputType]
}

func (s *ScopingStore) onAddSelector(p actions.ScopingPayload) {
	s.Update(func(d ScopingStoreData) ScopingStoreData {
		next := d.clone()
		sels := next.Selectors[p.InputType]
		if slices.ContainsFunc(sels, func(sel []string) bool { return slices.Equal(sel, p.Selector) }) {
			return next
		}
		next.Selectors[p.InputType] = append(sels, slices.Clone(p.Selector))
		return next
	})
}

func (s *ScopingStore) onDeleteSelector(p actions.ScopingPayload) {
	s.Update(func(d ScopingStoreData) ScopingStoreData {
		next := d.clone()
		next.Selectors[p.InputType] = slices.DeleteFunc(next.Selectors[p.InputType], func(sel []string) bool {
			return slices.Equal(sel, p.Selector)
		})
		return next
	})
}
