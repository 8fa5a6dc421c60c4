// Package csvmod implements the `csv` stdlib module (spec §6.3): parsing
// and rendering CSV text to and from naab's list-of-lists value shape,
// built on encoding/csv.
package csvmod

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/naab-lang/naab/internal/stdlib/stdlibutil"
	"github.com/naab-lang/naab/internal/value"
)

// Module is the `csv` stdlib module.
type Module struct{}

func New() *Module { return &Module{} }

func (*Module) Name() string { return "csv" }

func (*Module) Build() (*value.Environment, error) {
	env := value.NewEnvironment()
	env.Define("parse", stdlibutil.Native("csv.parse", csvParse))
	env.Define("write", stdlibutil.Native("csv.write", csvWrite))
	return env, nil
}

func csvParse(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("csv.parse", args, 1); err != nil {
		return nil, err
	}
	text, err := stdlibutil.Str("csv.parse", args, 0)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	records, perr := r.ReadAll()
	if perr != nil {
		return nil, stdlibutil.ArgError("csv.parse", perr.Error())
	}
	rows := make([]value.Value, len(records))
	for i, rec := range records {
		cells := make([]value.Value, len(rec))
		for j, c := range rec {
			cells[j] = value.String(c)
		}
		rows[i] = value.NewList(cells)
	}
	return value.NewList(rows), nil
}

func csvWrite(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("csv.write", args, 1); err != nil {
		return nil, err
	}
	rows, err := stdlibutil.List("csv.write", args, 0)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, rowVal := range rows.Elems {
		row, ok := rowVal.(*value.List)
		if !ok {
			return nil, stdlibutil.ArgError("csv.write", "every row must be a list")
		}
		record := make([]string, len(row.Elems))
		for i, cell := range row.Elems {
			record[i] = value.TextForm(cell)
		}
		if werr := w.Write(record); werr != nil {
			return nil, stdlibutil.ArgError("csv.write", werr.Error())
		}
	}
	w.Flush()
	if ferr := w.Error(); ferr != nil {
		return nil, stdlibutil.ArgError("csv.write", ferr.Error())
	}
	return value.String(buf.String()), nil
}
