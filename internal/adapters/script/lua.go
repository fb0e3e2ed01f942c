package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GalacticGlum/glumbot/internal/core/domain"
	"github.com/GalacticGlum/glumbot/internal/core/port"
	lua "github.com/yuin/gopher-lua"
)

// BuiltinPlaceholder in a script path is replaced with the configured
// built-in script directory before resolution.
const BuiltinPlaceholder = "{BUILTIN_PATH}"

// The entry point receives (ctx, params, args).
const entryPointParams = 3

// Resolver loads Lua command handlers. Relative paths resolve against the
// definition file's directory, not the process working directory.
type Resolver struct {
	baseDir    string
	builtinDir string
}

func NewResolver(baseDir, builtinDir string) *Resolver {
	return &Resolver{baseDir: baseDir, builtinDir: builtinDir}
}

func (r *Resolver) Resolve(path, entryPoint string) (port.ScriptHandler, error) {
	expanded := strings.ReplaceAll(path, BuiltinPlaceholder, r.builtinDir)
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(r.baseDir, expanded)
	}

	if _, err := os.Stat(expanded); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrScriptNotFound, expanded)
	}

	state := newState()
	if err := state.DoFile(expanded); err != nil {
		state.Close()
		return nil, fmt.Errorf("could not load script %q: %w", expanded, err)
	}

	fn, ok := state.GetGlobal(entryPoint).(*lua.LFunction)
	if !ok {
		state.Close()
		return nil, fmt.Errorf("%w: function %q not found in %q", domain.ErrBadEntryPoint, entryPoint, expanded)
	}

	if fn.Proto != nil && fn.Proto.NumParameters < entryPointParams && fn.Proto.IsVarArg == 0 {
		state.Close()
		return nil, fmt.Errorf("%w: %q in %q must accept (ctx, params, args)",
			domain.ErrBadEntryPoint, entryPoint, expanded)
	}

	return &Handler{state: state, fn: fn, path: expanded}, nil
}

// newState builds an interpreter with a restricted standard library: no os,
// no io, no debug.
func newState() *lua.LState {
	state := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(state)
	lua.OpenTable(state)
	lua.OpenString(state)
	lua.OpenMath(state)

	return state
}

// Handler is one loaded script bound to its entry point. All dispatches run
// on a single goroutine, so the interpreter state is never entered
// concurrently.
type Handler struct {
	state *lua.LState
	fn    *lua.LFunction
	path  string
}

func (h *Handler) Execute(ctx context.Context, invocation *domain.Invocation, sender port.TextSender) error {
	h.state.SetContext(ctx)

	ctxTable := h.state.NewTable()
	ctxTable.RawSetString("id", lua.LString(invocation.ID))
	ctxTable.RawSetString("channel", lua.LString(invocation.Message.Channel))
	ctxTable.RawSetString("author", lua.LString(invocation.Message.Author.Name))
	ctxTable.RawSetString("send", h.state.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		if err := sender.Send(ctx, invocation.Message.Channel, text); err != nil {
			L.RaiseError("send failed: %s", err)
		}

		return 0
	}))

	err := h.state.CallByParam(
		lua.P{Fn: h.fn, NRet: 0, Protect: true},
		ctxTable,
		toLValue(h.state, invocation.Params),
		toLValue(h.state, invocation.Args),
	)
	if err != nil {
		return fmt.Errorf("script %q: %w", h.path, err)
	}

	return nil
}

func toLValue(state *lua.LState, value any) lua.LValue {
	switch v := value.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case string:
		return lua.LString(v)
	case int:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case []any:
		table := state.NewTable()
		for i, item := range v {
			table.RawSetInt(i+1, toLValue(state, item))
		}
		return table
	case map[string]any:
		table := state.NewTable()
		for key, item := range v {
			table.RawSetString(key, toLValue(state, item))
		}
		return table
	default:
		return lua.LString(fmt.Sprintf("%v", v))
	}
}
