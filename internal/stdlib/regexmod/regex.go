// Package regexmod implements the `regex` stdlib module (spec §6.3): a
// thin binding over Go's RE2-based regexp package.
package regexmod

import (
	"regexp"

	"github.com/naab-lang/naab/internal/stdlib/stdlibutil"
	"github.com/naab-lang/naab/internal/value"
)

// Module is the `regex` stdlib module.
type Module struct{}

func New() *Module { return &Module{} }

func (*Module) Name() string { return "regex" }

func (*Module) Build() (*value.Environment, error) {
	env := value.NewEnvironment()
	env.Define("matches", stdlibutil.Native("regex.matches", regexMatches))
	env.Define("find", stdlibutil.Native("regex.find", regexFind))
	env.Define("find_all", stdlibutil.Native("regex.find_all", regexFindAll))
	env.Define("replace", stdlibutil.Native("regex.replace", regexReplace))
	return env, nil
}

func compile(fn string, args []value.Value, patternIdx int) (*regexp.Regexp, error) {
	pattern, err := stdlibutil.Str(fn, args, patternIdx)
	if err != nil {
		return nil, err
	}
	re, cerr := regexp.Compile(pattern)
	if cerr != nil {
		return nil, stdlibutil.ArgError(fn, "invalid pattern: "+cerr.Error())
	}
	return re, nil
}

func regexMatches(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("regex.matches", args, 2); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("regex.matches", args, 0)
	if err != nil {
		return nil, err
	}
	re, err := compile("regex.matches", args, 1)
	if err != nil {
		return nil, err
	}
	return value.Bool(re.MatchString(s)), nil
}

func regexFind(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("regex.find", args, 2); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("regex.find", args, 0)
	if err != nil {
		return nil, err
	}
	re, err := compile("regex.find", args, 1)
	if err != nil {
		return nil, err
	}
	m := re.FindString(s)
	if m == "" && !re.MatchString(s) {
		return value.VoidValue, nil
	}
	return value.String(m), nil
}

func regexFindAll(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("regex.find_all", args, 2); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("regex.find_all", args, 0)
	if err != nil {
		return nil, err
	}
	re, err := compile("regex.find_all", args, 1)
	if err != nil {
		return nil, err
	}
	matches := re.FindAllString(s, -1)
	elems := make([]value.Value, len(matches))
	for i, m := range matches {
		elems[i] = value.String(m)
	}
	return value.NewList(elems), nil
}

func regexReplace(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("regex.replace", args, 3); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("regex.replace", args, 0)
	if err != nil {
		return nil, err
	}
	re, err := compile("regex.replace", args, 1)
	if err != nil {
		return nil, err
	}
	replacement, err := stdlibutil.Str("regex.replace", args, 2)
	if err != nil {
		return nil, err
	}
	return value.String(re.ReplaceAllString(s, replacement)), nil
}
