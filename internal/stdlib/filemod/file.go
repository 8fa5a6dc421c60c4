// Package filemod implements the `file` stdlib module (spec §6.3): plain
// whole-file read/write/append/exists operations. Unlike
// internal/procutil's AtomicWriter (used by the polyglot dispatcher to
// stage guest source files), these operations make no atomicity
// guarantee — they are direct, single-shot os.ReadFile/os.WriteFile
// calls exposed to naab programs.
package filemod

import (
	"os"

	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/stdlib/stdlibutil"
	"github.com/naab-lang/naab/internal/value"
)

// Module is the `file` stdlib module.
type Module struct{}

func New() *Module { return &Module{} }

func (*Module) Name() string { return "file" }

func (*Module) Build() (*value.Environment, error) {
	env := value.NewEnvironment()
	env.Define("read", stdlibutil.Native("file.read", fileRead))
	env.Define("write", stdlibutil.Native("file.write", fileWrite))
	env.Define("append", stdlibutil.Native("file.append", fileAppend))
	env.Define("exists", stdlibutil.Native("file.exists", fileExists))
	env.Define("remove", stdlibutil.Native("file.remove", fileRemove))
	return env, nil
}

func fileRead(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("file.read", args, 1); err != nil {
		return nil, err
	}
	path, err := stdlibutil.Str("file.read", args, 0)
	if err != nil {
		return nil, err
	}
	b, rerr := os.ReadFile(path)
	if rerr != nil {
		return nil, errtax.New(errtax.KindIO, "file.read: "+rerr.Error())
	}
	return value.String(b), nil
}

func fileWrite(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("file.write", args, 2); err != nil {
		return nil, err
	}
	path, err := stdlibutil.Str("file.write", args, 0)
	if err != nil {
		return nil, err
	}
	contents, err := stdlibutil.Str("file.write", args, 1)
	if err != nil {
		return nil, err
	}
	if werr := os.WriteFile(path, []byte(contents), 0o644); werr != nil {
		return nil, errtax.New(errtax.KindIO, "file.write: "+werr.Error())
	}
	return value.VoidValue, nil
}

func fileAppend(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("file.append", args, 2); err != nil {
		return nil, err
	}
	path, err := stdlibutil.Str("file.append", args, 0)
	if err != nil {
		return nil, err
	}
	contents, err := stdlibutil.Str("file.append", args, 1)
	if err != nil {
		return nil, err
	}
	f, oerr := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if oerr != nil {
		return nil, errtax.New(errtax.KindIO, "file.append: "+oerr.Error())
	}
	defer f.Close()
	if _, werr := f.WriteString(contents); werr != nil {
		return nil, errtax.New(errtax.KindIO, "file.append: "+werr.Error())
	}
	return value.VoidValue, nil
}

func fileExists(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("file.exists", args, 1); err != nil {
		return nil, err
	}
	path, err := stdlibutil.Str("file.exists", args, 0)
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(path)
	return value.Bool(statErr == nil), nil
}

func fileRemove(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("file.remove", args, 1); err != nil {
		return nil, err
	}
	path, err := stdlibutil.Str("file.remove", args, 0)
	if err != nil {
		return nil, err
	}
	if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
		return nil, errtax.New(errtax.KindIO, "file.remove: "+rerr.Error())
	}
	return value.VoidValue, nil
}
