package command

import (
	"fmt"

	"github.com/spf13/cast"
)

// ArgSpec is one compiled positional parameter.
type ArgSpec struct {
	Name       string
	Type       string
	Arity      Arity
	Help       string
	Default    any
	HasDefault bool
}

// ArgParser parses the tokens following a command name into named values.
// Parsing is deliberately lenient: tokens beyond the declared schema are
// ignored so a minor user mistake never silences the bot.
type ArgParser struct {
	specs []ArgSpec
}

// NewArgParser compiles argument specs, in declaration order, into a parser.
func NewArgParser(specs []ArgSpec) *ArgParser {
	return &ArgParser{specs: specs}
}

// SupportedArgType reports whether the declared value type is one the parser
// can coerce to.
func SupportedArgType(name string) bool {
	switch name {
	case "", "str", "string", "int", "float", "float64", "bool":
		return true
	default:
		return false
	}
}

func coerce(typeName, token string) (any, error) {
	switch typeName {
	case "", "str", "string":
		return token, nil
	case "int":
		value, err := cast.ToIntE(token)
		if err != nil {
			return nil, fmt.Errorf("invalid int value %q", token)
		}
		return value, nil
	case "float", "float64":
		value, err := cast.ToFloat64E(token)
		if err != nil {
			return nil, fmt.Errorf("invalid float value %q", token)
		}
		return value, nil
	case "bool":
		value, err := cast.ToBoolE(token)
		if err != nil {
			return nil, fmt.Errorf("invalid bool value %q", token)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("unsupported type %q", typeName)
	}
}

// Parse consumes tokens positionally according to the compiled specs. It
// returns a human-readable error on arity or coercion failures and never
// panics. An optional argument that is absent and carries no default gets no
// entry in the result map; on the script side the missing key reads as nil.
func (p *ArgParser) Parse(tokens []string) (map[string]any, error) {
	values := make(map[string]any, len(p.specs))
	pos := 0

	for i, spec := range p.specs {
		remaining := tokens[pos:]

		switch spec.Arity.Kind {
		case ArityRemainder:
			// Greedy: everything left, flag-looking tokens included.
			taken, err := coerceAll(spec, remaining)
			if err != nil {
				return nil, err
			}

			values[spec.Name] = taken
			pos = len(tokens)

		case ArityExact:
			count := spec.Arity.Count
			if len(remaining) < count {
				return nil, fmt.Errorf("argument %q: expected %d value(s), got %d",
					spec.Name, count, len(remaining))
			}

			if count == 1 {
				value, err := coerce(spec.Type, remaining[0])
				if err != nil {
					return nil, fmt.Errorf("argument %q: %w", spec.Name, err)
				}
				values[spec.Name] = value
			} else {
				taken, err := coerceAll(spec, remaining[:count])
				if err != nil {
					return nil, err
				}
				values[spec.Name] = taken
			}
			pos += count

		case ArityOptional:
			if len(remaining)-minTokens(p.specs[i+1:]) > 0 {
				value, err := coerce(spec.Type, remaining[0])
				if err != nil {
					return nil, fmt.Errorf("argument %q: %w", spec.Name, err)
				}
				values[spec.Name] = value
				pos++
			} else if spec.HasDefault {
				values[spec.Name] = spec.Default
			}

		case ArityZeroOrMore, ArityOneOrMore:
			// Leave enough tokens for the specs that still follow.
			available := len(remaining) - minTokens(p.specs[i+1:])
			if available < 0 {
				available = 0
			}

			if spec.Arity.Kind == ArityOneOrMore && available < 1 {
				return nil, fmt.Errorf("argument %q: expected at least one value", spec.Name)
			}

			if available == 0 && spec.HasDefault {
				values[spec.Name] = spec.Default
				continue
			}

			taken, err := coerceAll(spec, remaining[:available])
			if err != nil {
				return nil, err
			}

			values[spec.Name] = taken
			pos += available
		}
	}

	return values, nil
}

func coerceAll(spec ArgSpec, tokens []string) ([]any, error) {
	taken := make([]any, 0, len(tokens))
	for _, token := range tokens {
		value, err := coerce(spec.Type, token)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", spec.Name, err)
		}

		taken = append(taken, value)
	}

	return taken, nil
}

func minTokens(specs []ArgSpec) int {
	total := 0
	for _, spec := range specs {
		switch spec.Arity.Kind {
		case ArityExact:
			total += spec.Arity.Count
		case ArityOneOrMore:
			total++
		}
	}

	return total
}
