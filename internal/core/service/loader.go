package service

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/GalacticGlum/glumbot/internal/core/domain"
	"github.com/GalacticGlum/glumbot/internal/core/domain/command"
	"github.com/GalacticGlum/glumbot/internal/core/port"
	"github.com/rs/zerolog/log"
)

const defaultEntryPoint = "execute"

// Loader reads the command definition file, validates it and compiles every
// valid entry into the registry. One bad entry never blocks the others.
type Loader struct {
	registry  *command.Registry
	resolver  port.ScriptResolver
	evaluator *Evaluator
}

func NewLoader(registry *command.Registry, resolver port.ScriptResolver, evaluator *Evaluator) *Loader {
	return &Loader{registry: registry, resolver: resolver, evaluator: evaluator}
}

// Load runs one load pass over the definition file at path. Per-entry
// failures end up in the report; only an unreadable or unparseable file is
// an error.
func (l *Loader) Load(path string) (*command.LoadReport, error) {
	report := &command.LoadReport{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read command file %q: %w", path, err)
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("could not parse command file %q: %w", path, err)
	}

	// A top-level schema violation is recorded but does not abort the
	// per-entry pass; partially valid configuration stays usable.
	if err := command.ValidateList(decoded); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("command file failed schema validation")
		report.Fail(path, err.Error())
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return report, nil
	}

	for _, raw := range entries {
		l.loadEntry(raw, report)
	}

	log.Info().
		Int("loaded", report.Loaded).
		Int("diagnostics", len(report.Diagnostics)).
		Msg("finished loading commands")

	return report, nil
}

func (l *Loader) loadEntry(raw json.RawMessage, report *command.LoadReport) {
	entryName := "unknown"

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		report.Fail(entryName, err.Error())
		return
	}

	if obj, ok := decoded.(map[string]any); ok {
		if name, ok := obj["name"].(string); ok && name != "" {
			entryName = name
		}
	}

	if err := command.ValidateEntry(decoded); err != nil {
		log.Warn().Err(err).Str("command", entryName).Msg("could not load command")
		report.Fail(entryName, err.Error())
		return
	}

	var def command.Definition
	if err := json.Unmarshal(raw, &def); err != nil {
		report.Fail(entryName, err.Error())
		return
	}

	level, err := domain.ParsePermissionLevel(def.Permission)
	if err != nil {
		report.Fail(def.Name, err.Error())
		return
	}

	if level == domain.Editor {
		log.Warn().Str("command", def.Name).Msg("permission level \"editor\" is not supported")
		report.Fail(def.Name, "permission level \"editor\" is not supported")
		return
	}

	var script port.ScriptHandler
	if def.Script != "" {
		entryPoint := def.ExecuteFunction
		if entryPoint == "" {
			entryPoint = defaultEntryPoint
		}

		script, err = l.resolver.Resolve(def.Script, entryPoint)
		if err != nil {
			// A resolution failure degrades the command to response-only.
			log.Warn().Err(err).Str("command", def.Name).Str("script", def.Script).
				Msg("could not resolve script, command degraded to response-only")
			report.Warn(def.Name, err.Error())
			script = nil
		}
	}

	parser := command.NewArgParser(l.buildArgSpecs(raw, &def, report))

	aliases := make([]string, len(def.Aliases))
	for i, alias := range def.Aliases {
		aliases[i] = strings.ToLower(alias)
	}

	cmd := &command.Registered{
		Name:        strings.ToLower(def.Name),
		Aliases:     aliases,
		Description: def.Description,
		Response:    def.Response,
		Params:      def.Parameters,
		Permission:  level,
		Check:       l.evaluator.CheckFor(level),
		Parser:      parser,
		Script:      script,
	}

	if l.registry.Insert(cmd) {
		log.Warn().Str("command", cmd.Name).Msg("duplicate command name, previous definition replaced")
		report.Warn(def.Name, "duplicate command name, previous definition replaced")
	}

	report.Loaded++
}

// buildArgSpecs validates and compiles the entry's arguments in declaration
// order. Invalid arguments are skipped individually.
func (l *Loader) buildArgSpecs(raw json.RawMessage, def *command.Definition, report *command.LoadReport) []command.ArgSpec {
	if len(def.Args) == 0 {
		return nil
	}

	var fields struct {
		Args json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		report.Fail(def.Name, err.Error())
		return nil
	}

	order, err := command.ArgOrder(fields.Args)
	if err != nil {
		report.Fail(def.Name, err.Error())
		return nil
	}

	var decodedArgs map[string]any
	if err := json.Unmarshal(fields.Args, &decodedArgs); err != nil {
		report.Fail(def.Name, err.Error())
		return nil
	}

	specs := make([]command.ArgSpec, 0, len(order))
	for _, argName := range order {
		entry := fmt.Sprintf("%s.%s", def.Name, argName)

		if err := command.ValidateArg(decodedArgs[argName]); err != nil {
			log.Warn().Err(err).Str("command", def.Name).Str("argument", argName).
				Msg("could not set up command argument")
			report.Fail(entry, err.Error())
			continue
		}

		argDef := def.Args[argName]
		if !command.SupportedArgType(argDef.Type) {
			reason := fmt.Sprintf("unsupported argument type %q", argDef.Type)
			log.Warn().Str("command", def.Name).Str("argument", argName).Msg(reason)
			report.Fail(entry, reason)
			continue
		}

		arity, err := command.ParseArity(argDef.NArgs)
		if err != nil {
			report.Fail(entry, err.Error())
			continue
		}

		specs = append(specs, command.ArgSpec{
			Name:       argName,
			Type:       argDef.Type,
			Arity:      arity,
			Help:       argDef.Help,
			Default:    argDef.Default,
			HasDefault: argDef.Default != nil,
		})
	}

	return specs
}
