package command

import (
	"strings"

	"github.com/GalacticGlum/glumbot/internal/core/domain"
	"github.com/GalacticGlum/glumbot/internal/core/port"
	"github.com/rs/zerolog/log"
)

// Registered is the compiled, immutable unit built from one definition entry.
// The registry owns it; the dispatcher only reads through it.
type Registered struct {
	Name        string
	Aliases     []string
	Description string
	Response    string
	Params      map[string]any
	Permission  domain.PermissionLevel
	Check       domain.PermissionCheck
	Parser      *ArgParser
	Script      port.ScriptHandler
}

// Registry maps command names and aliases to their compiled commands. It is
// built once at startup and read-only afterwards.
type Registry struct {
	commands map[string]*Registered
}

// Insert registers a command under its name and every alias. It reports
// whether an existing command with the same primary name was replaced.
func (r *Registry) Insert(cmd *Registered) bool {
	if r.commands == nil {
		r.commands = make(map[string]*Registered)
	}

	replaced := false
	if existing, ok := r.commands[cmd.Name]; ok && existing.Name == cmd.Name {
		for _, alias := range existing.Aliases {
			delete(r.commands, alias)
		}
		replaced = true
	}

	log.Info().Str("command", cmd.Name).Strs("aliases", cmd.Aliases).Msg("adding command to registry")

	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.commands[alias] = cmd
	}

	return replaced
}

// Lookup resolves a command by name or alias, case-insensitively.
func (r *Registry) Lookup(name string) (*Registered, error) {
	if r.commands == nil {
		return nil, domain.ErrCommandNotFound
	}

	cmd, ok := r.commands[strings.ToLower(name)]
	if !ok {
		return nil, domain.ErrCommandNotFound
	}

	return cmd, nil
}

// ListCommands returns every registered name and alias.
func (r *Registry) ListCommands() []string {
	keys := make([]string, 0, len(r.commands))
	for k := range r.commands {
		keys = append(keys, k)
	}

	return keys
}

// ListInvocations returns every registered name and alias with the dispatch
// prefix prepended, so each entry is text the dispatcher would act on.
func (r *Registry) ListInvocations(prefix string) []string {
	names := r.ListCommands()
	labels := make([]string, 0, len(names))
	for _, name := range names {
		labels = append(labels, prefix+name)
	}

	return labels
}

// Diagnostic records one failure or degradation observed during a load pass.
type Diagnostic struct {
	Entry   string
	Reason  string
	Warning bool
}

// LoadReport summarizes a registry build: how many entries compiled and what
// went wrong with the rest. It is never mutated after the load pass completes.
type LoadReport struct {
	Loaded      int
	Diagnostics []Diagnostic
}

// Fail records a hard failure for the named entry.
func (r *LoadReport) Fail(entry, reason string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Entry: entry, Reason: reason})
}

// Warn records a non-fatal degradation for the named entry.
func (r *LoadReport) Warn(entry, reason string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Entry: entry, Reason: reason, Warning: true})
}

// Failures counts the non-warning diagnostics.
func (r *LoadReport) Failures() int {
	count := 0
	for _, d := range r.Diagnostics {
		if !d.Warning {
			count++
		}
	}

	return count
}
