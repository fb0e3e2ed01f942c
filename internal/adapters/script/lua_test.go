package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/GalacticGlum/glumbot/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockSender struct {
	texts []string
	err   error
}

func (m *MockSender) Send(_ context.Context, _, text string) error {
	m.texts = append(m.texts, text)
	return m.err
}

func writeScript(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func invocation() *domain.Invocation {
	return &domain.Invocation{
		ID:      "inv-1",
		Message: &domain.Message{Channel: "glum", Author: domain.User{ID: "7", Name: "viewer"}},
	}
}

func TestResolveMissingFile(t *testing.T) {
	r := NewResolver(t.TempDir(), "")

	_, err := r.Resolve("missing.lua", "execute")
	require.ErrorIs(t, err, domain.ErrScriptNotFound)
}

func TestResolveMissingEntryPoint(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "greet.lua", `function run(ctx, params, args) end`)

	r := NewResolver(dir, "")

	_, err := r.Resolve("greet.lua", "execute")
	require.ErrorIs(t, err, domain.ErrBadEntryPoint)
}

func TestResolveEntryPointTooFewParameters(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "greet.lua", `function execute(ctx) end`)

	r := NewResolver(dir, "")

	_, err := r.Resolve("greet.lua", "execute")
	require.ErrorIs(t, err, domain.ErrBadEntryPoint)
}

func TestResolveVarargEntryPoint(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "greet.lua", `function execute(...) end`)

	r := NewResolver(dir, "")

	handler, err := r.Resolve("greet.lua", "execute")
	require.NoError(t, err)
	assert.NotNil(t, handler)
}

func TestResolveBrokenScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "greet.lua", `function execute(ctx, params args) end`)

	r := NewResolver(dir, "")

	_, err := r.Resolve("greet.lua", "execute")
	require.Error(t, err)
}

func TestResolveBuiltinPlaceholder(t *testing.T) {
	builtinDir := t.TempDir()
	writeScript(t, builtinDir, "roll.lua", `function execute(ctx, params, args) end`)

	r := NewResolver(t.TempDir(), builtinDir)

	handler, err := r.Resolve("{BUILTIN_PATH}/roll.lua", "execute")
	require.NoError(t, err)
	assert.NotNil(t, handler)
}

func TestExecuteSendsToChannel(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "greet.lua", `
function execute(ctx, params, args)
	ctx.send("hello " .. ctx.author)
end`)

	r := NewResolver(dir, "")
	handler, err := r.Resolve("greet.lua", "execute")
	require.NoError(t, err)

	sender := &MockSender{}
	require.NoError(t, handler.Execute(context.Background(), invocation(), sender))

	assert.Equal(t, []string{"hello viewer"}, sender.texts)
}

func TestExecutePassesParamsAndArgs(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "roll.lua", `
function execute(ctx, params, args)
	ctx.send(params.label .. ":" .. tostring(args.count) .. ":" .. args.words[2])
end`)

	r := NewResolver(dir, "")
	handler, err := r.Resolve("roll.lua", "execute")
	require.NoError(t, err)

	inv := invocation()
	inv.Params = map[string]any{"label": "d20"}
	inv.Args = map[string]any{"count": 3, "words": []any{"a", "b"}}

	sender := &MockSender{}
	require.NoError(t, handler.Execute(context.Background(), inv, sender))

	assert.Equal(t, []string{"d20:3:b"}, sender.texts)
}

func TestExecuteCustomEntryPoint(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "greet.lua", `
function run(ctx, params, args)
	ctx.send("ran")
end`)

	r := NewResolver(dir, "")
	handler, err := r.Resolve("greet.lua", "run")
	require.NoError(t, err)

	sender := &MockSender{}
	require.NoError(t, handler.Execute(context.Background(), invocation(), sender))

	assert.Equal(t, []string{"ran"}, sender.texts)
}

func TestExecuteScriptFaultReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "boom.lua", `
function execute(ctx, params, args)
	error("boom")
end`)

	r := NewResolver(dir, "")
	handler, err := r.Resolve("boom.lua", "execute")
	require.NoError(t, err)

	err = handler.Execute(context.Background(), invocation(), &MockSender{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
