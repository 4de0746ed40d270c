package luarules

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/insights/internal/rules"
)

// Loader runs rule scripts in one shared state and collects the rules they define.
type Loader struct {
	state   *State
	logger  *zap.Logger
	pending []*rules.RuleInformation
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(logger *zap.Logger, opts ...StateOption) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{
		state:  NewState(opts...),
		logger: logger.Named("luarules"),
	}
	l.state.L.SetGlobal("rule", l.state.L.NewFunction(l.defineRule))
	return l
}

// Close releases the Lua state. Rules loaded from it stop working.
func (l *Loader) Close() {
	l.state.Close()
}

// LoadString runs a script and returns the rules it defined.
func (l *Loader) LoadString(name, code string) ([]*rules.RuleInformation, error) {
	return l.load(name, func() error { return l.state.DoString(code) })
}

// LoadFile runs a script file and returns the rules it defined.
func (l *Loader) LoadFile(path string) ([]*rules.RuleInformation, error) {
	return l.load(path, func() error { return l.state.DoFile(path) })
}

// LoadDir runs every .lua file in dir in name order. A missing dir yields no rules.
func (l *Loader) LoadDir(dir string) ([]*rules.RuleInformation, error) {
	paths, err := scriptPaths(dir)
	if err != nil {
		return nil, err
	}

	var all []*rules.RuleInformation
	for _, path := range paths {
		defs, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, defs...)
	}
	return all, nil
}

// scriptPaths lists the rule scripts in dir in name order.
func scriptPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading rule dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && isScript(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(paths)
	return paths, nil
}

func isScript(name string) bool {
	return strings.HasSuffix(name, ".lua")
}

func (l *Loader) load(name string, run func() error) ([]*rules.RuleInformation, error) {
	l.pending = nil
	if err := run(); err != nil {
		l.pending = nil
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}

	defs := l.pending
	l.pending = nil
	for _, d := range defs {
		l.logger.Debug("rule defined", zap.String("script", name), zap.String("rule", string(d.RuleID)))
	}
	return defs, nil
}

// defineRule implements the Lua rule function. Runs with the state locked.
func (l *Loader) defineRule(L *lua.LState) int {
	def := L.CheckTable(1)

	id, ok := def.RawGetString("id").(lua.LString)
	if !ok || id == "" {
		L.RaiseError("%s: id must be a non-empty string", ErrInvalidDefinition)
		return 0
	}
	description, _ := def.RawGetString("description").(lua.LString)

	info := &rules.RuleInformation{
		RuleID:          rules.RuleID(id),
		RuleDescription: string(description),
	}

	switch fix := def.RawGetString("how_to_fix").(type) {
	case lua.LString:
		code, err := stringList(def.RawGetString("code"))
		if err != nil {
			L.RaiseError("%s: rule %s: code: %s", ErrInvalidDefinition, id, err)
			return 0
		}
		text := string(fix)
		info.HowToFixFormat = func(rules.RuleResultsData) (rules.UnifiedFormattableResolution, error) {
			return rules.BuildResolution(text, code...), nil
		}
	case *lua.LFunction:
		info.HowToFixFormat = l.formatFunc(fix)
	default:
		L.RaiseError("%s: rule %s: how_to_fix must be a string or function", ErrInvalidDefinition, id)
		return 0
	}

	switch include := def.RawGetString("include").(type) {
	case *lua.LNilType:
	case *lua.LFunction:
		info.IncludeThisResult = l.includeFunc(info.RuleID, include)
	default:
		L.RaiseError("%s: rule %s: include must be a function", ErrInvalidDefinition, id)
		return 0
	}

	l.pending = append(l.pending, info)
	return 0
}

func (l *Loader) formatFunc(fn *lua.LFunction) rules.FormatFunc {
	return func(r rules.RuleResultsData) (rules.UnifiedFormattableResolution, error) {
		ret, err := l.state.Call(fn, r.Props)
		if err != nil {
			return rules.UnifiedFormattableResolution{}, err
		}
		if len(ret) == 0 {
			return rules.UnifiedFormattableResolution{}, fmt.Errorf("%w: how_to_fix returned nothing", ErrBadReturn)
		}

		text, ok := ret[0].(lua.LString)
		if !ok {
			return rules.UnifiedFormattableResolution{}, fmt.Errorf("%w: how_to_fix returned %s", ErrBadReturn, ret[0].Type())
		}
		var code []string
		if len(ret) > 1 {
			if code, err = stringList(ret[1]); err != nil {
				return rules.UnifiedFormattableResolution{}, err
			}
		}
		return rules.BuildResolution(string(text), code...), nil
	}
}

// includeFunc wraps a Lua predicate. A failing predicate excludes the result.
func (l *Loader) includeFunc(id rules.RuleID, fn *lua.LFunction) rules.IncludeFunc {
	return func(r rules.RuleResultsData) bool {
		ret, err := l.state.Call(fn, r.Props)
		if err != nil {
			l.logger.Warn("include failed", zap.String("rule", string(id)), zap.Error(err))
			return false
		}
		return len(ret) > 0 && lua.LVAsBool(ret[0])
	}
}

// Register adds the loaded rules to a provider.
func Register(p *rules.Provider, defs []*rules.RuleInformation) error {
	for _, d := range defs {
		if err := p.Register(d); err != nil {
			return err
		}
	}
	return nil
}
