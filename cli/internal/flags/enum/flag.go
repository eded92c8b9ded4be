// Package enum provides a pflag.Value that only accepts one of a fixed set of options.
package enum

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// Type is the type name of the enum flag.
const Type = "enum"

// Flag is a string flag restricted to a fixed set of options.
// The first option is the default.
type Flag struct {
	value   string
	options []string
}

var _ pflag.Value = (*Flag)(nil)

// New creates a Flag with the given options. It panics if no option is given.
func New(options ...string) *Flag {
	if len(options) == 0 {
		panic("enum flag requires at least one option")
	}
	return &Flag{value: options[0], options: options}
}

func (f *Flag) String() string {
	return f.value
}

func (f *Flag) Set(s string) error {
	if !slices.Contains(f.options, s) {
		return fmt.Errorf("invalid value %q, must be one of %s", s, strings.Join(f.options, ", "))
	}
	f.value = s
	return nil
}

func (f *Flag) Type() string {
	return Type
}

// Var adds an enum flag to the flag set. The first option is the default.
func Var(f *pflag.FlagSet, name string, options []string, usage string) {
	VarP(f, name, "", options, usage)
}

// VarP is like Var, but accepts a shorthand letter.
func VarP(f *pflag.FlagSet, name, shorthand string, options []string, usage string) {
	f.VarP(New(options...), name, shorthand, fmt.Sprintf("%s (must be one of %v)", usage, options))
}

// Get returns the value of the enum flag with the given name.
func Get(f *pflag.FlagSet, name string) (string, error) {
	flag := f.Lookup(name)
	if flag == nil {
		return "", fmt.Errorf("flag %q not found", name)
	}
	if flag.Value.Type() != Type {
		return "", fmt.Errorf("flag %q is of type %q, not %q", name, flag.Value.Type(), Type)
	}
	return flag.Value.String(), nil
}
