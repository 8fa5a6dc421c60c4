// Package iomod implements the `io` stdlib module (spec §6.3): the
// stdout/stderr/stdin bindings a naab program uses for its own console
// I/O, kept separate from internal/logx's structured diagnostic logging.
package iomod

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/stdlib/stdlibutil"
	"github.com/naab-lang/naab/internal/value"
)

// Module is the `io` stdlib module.
type Module struct {
	Stdout io.Writer
	Stdin  io.Reader
}

// New returns the io module bound to the process's real stdout/stdin.
// Tests construct a Module directly with in-memory buffers instead.
func New() *Module { return &Module{Stdout: os.Stdout, Stdin: os.Stdin} }

func (*Module) Name() string { return "io" }

func (m *Module) Build() (*value.Environment, error) {
	env := value.NewEnvironment()
	env.Define("print", stdlibutil.Native("io.print", m.ioPrint))
	env.Define("println", stdlibutil.Native("io.println", m.ioPrintln))
	env.Define("read_line", stdlibutil.Native("io.read_line", m.ioReadLine))
	return env, nil
}

func (m *Module) ioPrint(args []value.Value) (value.Value, error) {
	for _, a := range args {
		fmt.Fprint(m.Stdout, value.TextForm(a))
	}
	return value.VoidValue, nil
}

func (m *Module) ioPrintln(args []value.Value) (value.Value, error) {
	parts := make([]any, len(args))
	for i, a := range args {
		parts[i] = value.TextForm(a)
	}
	fmt.Fprintln(m.Stdout, parts...)
	return value.VoidValue, nil
}

func (m *Module) ioReadLine(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("io.read_line", args, 0); err != nil {
		return nil, err
	}
	line, err := bufio.NewReader(m.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, errtax.New(errtax.KindIO, "io.read_line: "+err.Error())
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return value.String(line), nil
}
