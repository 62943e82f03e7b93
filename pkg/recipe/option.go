package recipe

import (
	"fmt"
	"sort"

	"github.com/crucible-build/crucible/pkg/errors"
)

// OptionValue is a single enumerated option value. Values are stored as
// strings regardless of their logical type, so boolean options use "true"
// and "false", numeric options use their decimal form ("8", "16", "32"),
// and optional enums may include "none".
type OptionValue string

// Well-known option values.
const (
	True  OptionValue = "true"
	False OptionValue = "false"
	None  OptionValue = "none"
)

// Bool interprets the value as a boolean. Anything other than "true" is
// false.
func (v OptionValue) Bool() bool {
	return v == True
}

// String returns the string representation of the value.
func (v OptionValue) String() string {
	return string(v)
}

// OptionSpec declares the allowed values and the default for one option.
type OptionSpec struct {
	// Values is the full enumeration of allowed values.
	Values []OptionValue `json:"values" yaml:"values"`

	// Default is the value used when no override is supplied. It must be
	// a member of Values.
	Default OptionValue `json:"default" yaml:"default"`
}

// Contains reports whether v is a member of the enumeration.
func (s OptionSpec) Contains(v OptionValue) bool {
	for _, allowed := range s.Values {
		if allowed == v {
			return true
		}
	}
	return false
}

// Bool constructs a boolean OptionSpec with the given default.
func Bool(def bool) OptionSpec {
	d := False
	if def {
		d = True
	}
	return OptionSpec{Values: []OptionValue{True, False}, Default: d}
}

// Enum constructs an OptionSpec from an explicit value list. The first
// argument is the default.
func Enum(def OptionValue, values ...OptionValue) OptionSpec {
	return OptionSpec{Values: values, Default: def}
}

// Options is the declared option table of a recipe: option name to spec.
type Options map[string]OptionSpec

// Validate checks the configuration-consistency invariant: every option
// must declare at least one allowed value, and every default must be a
// member of its enumeration.
func (o Options) Validate() error {
	for _, name := range o.sortedNames() {
		spec := o[name]
		if len(spec.Values) == 0 {
			return fmt.Errorf("option %s declares no allowed values", name)
		}
		if !spec.Contains(spec.Default) {
			return fmt.Errorf("option %s default %q is not in its enumeration %v", name, spec.Default, spec.Values)
		}
	}
	return nil
}

// Clone returns a copy of the option table. ConfigOptions hooks mutate the
// clone (deleting platform-inapplicable options) without touching the
// declared table.
func (o Options) Clone() Options {
	cloned := make(Options, len(o))
	for name, spec := range o {
		values := make([]OptionValue, len(spec.Values))
		copy(values, spec.Values)
		cloned[name] = OptionSpec{Values: values, Default: spec.Default}
	}
	return cloned
}

// Delete removes an option from the table. Deleting a missing option is a
// no-op, mirroring safe removal semantics.
func (o Options) Delete(name string) {
	delete(o, name)
}

// Resolve applies overrides to the defaults and returns the resolved set.
// Unknown option names and out-of-enumeration values are rejected as
// invalid requests.
func (o Options) Resolve(overrides map[string]string) (OptionSet, error) {
	set := make(OptionSet, len(o))
	for name, spec := range o {
		set[name] = spec.Default
	}

	for name, raw := range overrides {
		spec, ok := o[name]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidRequest,
				"unknown option %q (declared options: %v)", name, o.sortedNames())
		}
		v := OptionValue(raw)
		if !spec.Contains(v) {
			return nil, errors.Newf(errors.ErrCodeInvalidRequest,
				"option %s value %q is not in its enumeration %v", name, raw, spec.Values)
		}
		set[name] = v
	}

	return set, nil
}

func (o Options) sortedNames() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OptionSet is a fully resolved option assignment: every remaining option
// maps to exactly one value from its enumeration.
type OptionSet map[string]OptionValue

// Has reports whether the option is present in the set.
func (s OptionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Value returns the value for the option, or the empty value if absent.
func (s OptionSet) Value(name string) OptionValue {
	return s[name]
}

// Bool reports whether the option is present and true.
func (s OptionSet) Bool(name string) bool {
	return s[name].Bool()
}

// Is reports whether the option has the given value.
func (s OptionSet) Is(name string, v OptionValue) bool {
	got, ok := s[name]
	return ok && got == v
}

// Delete removes an option from the resolved set (safe on missing keys).
func (s OptionSet) Delete(name string) {
	delete(s, name)
}

// Clone returns a copy of the set.
func (s OptionSet) Clone() OptionSet {
	cloned := make(OptionSet, len(s))
	for k, v := range s {
		cloned[k] = v
	}
	return cloned
}

// SortedNames returns the option names in lexical order.
func (s OptionSet) SortedNames() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
