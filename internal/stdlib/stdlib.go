// Package stdlib wires every built-in module into the Module Registry.
// Like the teacher's providers.Registry, which is populated by explicit
// registry.Register(golang.NewProvider()) calls at startup rather than by
// package init side effects, RegisterAll is an explicit call the naab
// package's Runtime makes for each module registry it builds.
package stdlib

import (
	"github.com/naab-lang/naab/internal/modules"
	"github.com/naab-lang/naab/internal/stdlib/arraymod"
	"github.com/naab-lang/naab/internal/stdlib/cryptomod"
	"github.com/naab-lang/naab/internal/stdlib/csvmod"
	"github.com/naab-lang/naab/internal/stdlib/envmod"
	"github.com/naab-lang/naab/internal/stdlib/filemod"
	"github.com/naab-lang/naab/internal/stdlib/httpmod"
	"github.com/naab-lang/naab/internal/stdlib/iomod"
	"github.com/naab-lang/naab/internal/stdlib/jsonmod"
	"github.com/naab-lang/naab/internal/stdlib/mathmod"
	"github.com/naab-lang/naab/internal/stdlib/regexmod"
	"github.com/naab-lang/naab/internal/stdlib/stringmod"
	"github.com/naab-lang/naab/internal/stdlib/timemod"
)

// RegisterAll registers every built-in stdlib module with reg. Called by
// naab.Open and again by each Runtime.RunFile for its own registry, before
// the program is evaluated; spec §6.3 requires
// registration-time rejection of name collisions, which reg.RegisterStdlib
// already enforces per call.
func RegisterAll(reg *modules.Registry) error {
	builtins := []modules.StdlibModule{
		mathmod.New(),
		stringmod.New(),
		arraymod.New(),
		jsonmod.New(),
		timemod.New(),
		filemod.New(),
		envmod.New(),
		iomod.New(),
		httpmod.New(),
		regexmod.New(),
		cryptomod.New(),
		csvmod.New(),
	}
	for _, m := range builtins {
		if err := reg.RegisterStdlib(m); err != nil {
			return err
		}
	}
	return nil
}
