package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedVars is returned when vars is neither text, a list nor a mapping.
var ErrUnsupportedVars = errors.New("Unsupported format of Vars parameter") //nolint:staticcheck // user-facing message

// VarsKind identifies which shape a Vars value was given in.
type VarsKind int

const (
	// VarsNone means vars were not provided.
	VarsNone VarsKind = iota
	// VarsText is a block of key=value lines.
	VarsText
	// VarsPairs is a list of key=value entries.
	VarsPairs
	// VarsMapping is a ready-made mapping.
	VarsMapping
)

// Vars is the extra variables parameter in any of its accepted shapes.
type Vars struct {
	Kind    VarsKind
	Text    string
	Pairs   []string
	Mapping map[string]string
}

// TextVars returns vars given as key=value lines.
func TextVars(text string) Vars {
	return Vars{Kind: VarsText, Text: text}
}

// PairVars returns vars given as a list of key=value entries.
func PairVars(pairs ...string) Vars {
	return Vars{Kind: VarsPairs, Pairs: pairs}
}

// MappingVars returns vars given as a mapping.
func MappingVars(m map[string]string) Vars {
	return Vars{Kind: VarsMapping, Mapping: m}
}

// IsZero reports whether vars were not provided.
func (v Vars) IsZero() bool {
	return v.Kind == VarsNone
}

// UnmarshalJSON accepts a string, a list of strings or an object of scalars.
func (v *Vars) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	return v.fromValue(raw)
}

// MarshalJSON writes vars back in the shape they were given in.
func (v Vars) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case VarsText:
		return json.Marshal(v.Text)
	case VarsPairs:
		return json.Marshal(v.Pairs)
	case VarsMapping:
		return json.Marshal(v.Mapping)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalYAML accepts a string, a sequence of strings or a mapping of scalars.
func (v *Vars) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return v.fromValue(raw)
}

// MarshalYAML writes vars back in the shape they were given in.
func (v Vars) MarshalYAML() (any, error) {
	switch v.Kind {
	case VarsText:
		return v.Text, nil
	case VarsPairs:
		return v.Pairs, nil
	case VarsMapping:
		return v.Mapping, nil
	default:
		return nil, nil
	}
}

func (v *Vars) fromValue(raw any) error {
	switch val := raw.(type) {
	case nil:
		*v = Vars{}
	case string:
		*v = TextVars(val)
	case []any:
		pairs := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return ErrUnsupportedVars
			}
			pairs = append(pairs, s)
		}
		*v = PairVars(pairs...)
	case map[string]any:
		m := make(map[string]string, len(val))
		for key, item := range val {
			s, ok := scalarString(item)
			if !ok {
				return fmt.Errorf("%w: value of %q is not a scalar", ErrUnsupportedVars, key)
			}
			m[key] = s
		}
		*v = MappingVars(m)
	default:
		return ErrUnsupportedVars
	}
	return nil
}

func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case nil:
		return "", true
	default:
		return "", false
	}
}

// StringList is a list parameter given as a multi-line string or a list.
type StringList []string

// ParseStringList splits text into trimmed lines, dropping blank ones.
func ParseStringList(text string) StringList {
	var out StringList
	for line := range strings.Lines(text) {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// UnmarshalJSON accepts a string or a list of strings.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*l = ParseStringList(text)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected a string or a list of strings")
	}
	*l = items
	return nil
}

// UnmarshalYAML accepts a string or a sequence of strings.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = ParseStringList(node.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// Arguments are passthrough arguments given as a list or as shell-like text.
type Arguments []string

// ParseArguments splits text the way a POSIX shell would, without expanding anything.
func ParseArguments(text string) (Arguments, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	args, err := shlex.Split(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse additional arguments: %w", err)
	}
	return args, nil
}

// UnmarshalJSON accepts a string or a list of strings.
func (a *Arguments) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		args, parseErr := ParseArguments(text)
		if parseErr != nil {
			return parseErr
		}
		*a = args
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected a string or a list of strings")
	}
	*a = items
	return nil
}

// UnmarshalYAML accepts a string or a sequence of strings.
func (a *Arguments) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		args, err := ParseArguments(node.Value)
		if err != nil {
			return err
		}
		*a = args
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*a = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}
