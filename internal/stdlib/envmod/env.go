// Package envmod implements the `env` stdlib module (spec §6.3): read-only
// access to process environment variables, the same source
// internal/config reads NAAB_* settings from via github.com/joho/godotenv
// at startup.
package envmod

import (
	"os"

	"github.com/naab-lang/naab/internal/stdlib/stdlibutil"
	"github.com/naab-lang/naab/internal/value"
)

// Module is the `env` stdlib module.
type Module struct{}

func New() *Module { return &Module{} }

func (*Module) Name() string { return "env" }

func (*Module) Build() (*value.Environment, error) {
	env := value.NewEnvironment()
	env.Define("get", stdlibutil.Native("env.get", envGet))
	env.Define("has", stdlibutil.Native("env.has", envHas))
	return env, nil
}

func envGet(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("env.get", args, 1); err != nil {
		return nil, err
	}
	name, err := stdlibutil.Str("env.get", args, 0)
	if err != nil {
		return nil, err
	}
	v, ok := os.LookupEnv(name)
	if !ok {
		return value.VoidValue, nil
	}
	return value.String(v), nil
}

func envHas(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("env.has", args, 1); err != nil {
		return nil, err
	}
	name, err := stdlibutil.Str("env.has", args, 0)
	if err != nil {
		return nil, err
	}
	_, ok := os.LookupEnv(name)
	return value.Bool(ok), nil
}
