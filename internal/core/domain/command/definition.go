package command

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/cast"
)

// Definition mirrors one entry of the command definition file.
type Definition struct {
	Name            string                   `json:"name"`
	Description     string                   `json:"description,omitempty"`
	Args            map[string]ArgDefinition `json:"args,omitempty"`
	Response        string                   `json:"response,omitempty"`
	Script          string                   `json:"script,omitempty"`
	ExecuteFunction string                   `json:"execute_function,omitempty"`
	Aliases         []string                 `json:"aliases,omitempty"`
	Parameters      map[string]any           `json:"parameters,omitempty"`
	Permission      string                   `json:"permission,omitempty"`
}

// ArgDefinition describes one positional argument of a command.
type ArgDefinition struct {
	Type    string `json:"type,omitempty"`
	Help    string `json:"help,omitempty"`
	NArgs   any    `json:"nargs,omitempty"`
	Default any    `json:"default,omitempty"`
}

const listSchemaSource = `{
	"type": "array",
	"items": {"type": "object"}
}`

const entrySchemaSource = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"description": {"type": "string"},
		"args": {"type": "object"},
		"response": {"type": "string"},
		"script": {"type": "string"},
		"aliases": {
			"type": "array",
			"items": {"type": "string"}
		},
		"parameters": {"type": "object"},
		"execute_function": {
			"type": "string",
			"minLength": 1
		},
		"permission": {
			"type": "string",
			"enum": ["everyone", "follower", "subscriber", "moderator", "editor", "caster"]
		}
	},
	"required": ["name"],
	"anyOf": [
		{"required": ["response"]},
		{"required": ["script"]}
	]
}`

const argSchemaSource = `{
	"type": "object",
	"properties": {
		"type": {"type": "string"},
		"help": {"type": "string"},
		"nargs": {
			"anyOf": [
				{"type": "integer"},
				{
					"type": "string",
					"enum": ["?", "*", "+", "REMAINDER"]
				}
			]
		},
		"default": {}
	}
}`

var (
	listSchema  = jsonschema.MustCompileString("commands.schema.json", listSchemaSource)
	entrySchema = jsonschema.MustCompileString("command.schema.json", entrySchemaSource)
	argSchema   = jsonschema.MustCompileString("argument.schema.json", argSchemaSource)
)

// ValidateList checks the decoded definition file against the top-level schema.
func ValidateList(decoded any) error {
	return listSchema.Validate(decoded)
}

// ValidateEntry checks one decoded command object against the command schema.
func ValidateEntry(decoded any) error {
	return entrySchema.Validate(decoded)
}

// ValidateArg checks one decoded argument object against the argument schema.
func ValidateArg(decoded any) error {
	return argSchema.Validate(decoded)
}

// ArgOrder recovers the declaration order of the keys in a raw "args" object.
// The decoded map loses it, but positional parsing depends on it.
func ArgOrder(rawArgs json.RawMessage) ([]string, error) {
	if len(rawArgs) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(rawArgs))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading args object: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("args is not an object")
	}

	var names []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading args key: %w", err)
		}

		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("args key is not a string")
		}
		names = append(names, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, fmt.Errorf("reading args value: %w", err)
		}
	}

	return names, nil
}

// ArityKind discriminates the supported nargs variants.
type ArityKind int

const (
	ArityExact ArityKind = iota
	ArityOptional
	ArityZeroOrMore
	ArityOneOrMore
	ArityRemainder
)

// Arity is the decoded form of an argument's nargs field.
type Arity struct {
	Kind  ArityKind
	Count int
}

// ParseArity decodes a raw nargs value. A missing value means exactly one token.
func ParseArity(value any) (Arity, error) {
	if value == nil {
		return Arity{Kind: ArityExact, Count: 1}, nil
	}

	switch v := value.(type) {
	case string:
		switch v {
		case "?":
			return Arity{Kind: ArityOptional}, nil
		case "*":
			return Arity{Kind: ArityZeroOrMore}, nil
		case "+":
			return Arity{Kind: ArityOneOrMore}, nil
		case "REMAINDER":
			return Arity{Kind: ArityRemainder}, nil
		default:
			return Arity{}, fmt.Errorf("unknown nargs value %q", v)
		}
	default:
		count, err := cast.ToIntE(value)
		if err != nil {
			return Arity{}, fmt.Errorf("invalid nargs value %v", value)
		}

		if count < 1 {
			return Arity{}, fmt.Errorf("nargs count must be positive, got %d", count)
		}

		return Arity{Kind: ArityExact, Count: count}, nil
	}
}
