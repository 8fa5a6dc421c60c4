package polyglot

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/naab-lang/naab/internal/value"
)

// CSharpExecutor compiles and runs a block with the dotnet-script style
// toolchain: `dotnet run` against a throwaway project directory. This
// trades per-call compile latency for not requiring a pre-built csproj
// on the host, which keeps the Executor stateless between calls.
type CSharpExecutor struct {
	BaseExecutor
	dotnetBin string
}

func NewCSharpExecutor(tempRoot string, compileTimeout, runTimeout time.Duration, dotnetBin string) *CSharpExecutor {
	if dotnetBin == "" {
		dotnetBin = "dotnet"
	}
	return &CSharpExecutor{
		BaseExecutor: newBaseExecutor(langCSharp, []string{"c#", "cs"}, tempRoot, compileTimeout, runTimeout),
		dotnetBin:    dotnetBin,
	}
}

func (c *CSharpExecutor) Run(ctx context.Context, body string, bindings map[string]value.Value) (value.Value, error) {
	dir, cleanup, err := c.callDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	source := wrapCSharp(body, bindings)
	if _, err := c.writeSource(dir, "Program.cs", source); err != nil {
		return nil, err
	}
	if _, err := c.writeSource(dir, "block.csproj", csharpProjectFile); err != nil {
		return nil, err
	}

	// `dotnet run` both builds and executes; the combined timeout covers
	// both phases since dotnet doesn't expose a separate build-only step
	// without a persistent build cache this per-call temp dir can't reuse.
	cmd := exec.CommandContext(ctx, c.dotnetBin, "run", "--project", dir)
	cmd.Dir = dir
	res, err := runTimed(ctx, cmd, c.compileTimeout+c.executeTimeout)
	if err != nil {
		return nil, err
	}
	return finish(langCSharp, res, c.compileTimeout+c.executeTimeout)
}

const csharpProjectFile = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <OutputType>Exe</OutputType>
    <TargetFramework>net8.0</TargetFramework>
    <ImplicitUsings>enable</ImplicitUsings>
    <Nullable>enable</Nullable>
  </PropertyGroup>
</Project>
`

const csharpHeader = `using System;
using System.Collections.Generic;
using System.Text.Json;

class NaabReturn {
	public static void Emit(object? value) {
		Console.WriteLine("` + sentinelStart + `");
		Console.WriteLine(JsonSerializer.Serialize(value));
		Console.WriteLine("` + sentinelEnd + `");
	}
}

`

func wrapCSharp(body string, bindings map[string]value.Value) string {
	var b strings.Builder
	b.WriteString(csharpHeader)
	for _, name := range sortedBindingNames(bindings) {
		lit, err := marshalLiteral(langCSharp, bindings[name])
		if err != nil {
			lit = "null"
		}
		b.WriteString("var " + name + " = " + lit + ";\n")
	}
	b.WriteString(body)
	b.WriteString("\n")
	return b.String()
}
