package compiler

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/pancake/internal/ir"
)

//go:embed schema.cue
var schemaSource string

const schemaFilename = "pancake/schema.cue"

// CompileSuite compiles one suite struct into an ir.Suite, applying schema
// defaults. The suite name is taken from the value's last path selector.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`suite: smoke: { workload: n7: { n: 7 } }`)
//	s, err := CompileSuite(v.LookupPath(cue.ParsePath("suite.smoke")))
func CompileSuite(v cue.Value) (*ir.Suite, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schema, err := suiteSchema(v.Context())
	if err != nil {
		return nil, err
	}
	u := schema.Unify(v)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	suite := &ir.Suite{}
	if sels := v.Path().Selectors(); len(sels) > 0 {
		suite.Name = sels[len(sels)-1].String()
	}

	if d := u.LookupPath(cue.ParsePath("description")); d.Exists() {
		if suite.Description, err = d.String(); err != nil {
			return nil, formatCUEError(err)
		}
	}

	iter, err := u.LookupPath(cue.ParsePath("workload")).Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		w, err := compileWorkload(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		suite.Workloads = append(suite.Workloads, w)
	}

	if len(suite.Workloads) == 0 {
		return nil, &CompileError{
			Field:   "workload",
			Message: "at least one workload is required",
			Pos:     v.Pos(),
		}
	}
	return suite, nil
}

func compileWorkload(name string, v cue.Value) (ir.Workload, error) {
	w := ir.Workload{Name: name}

	fields := []struct {
		path string
		dst  *int
	}{
		{"n", &w.N},
		{"blocks", &w.Blocks},
		{"workers", &w.Workers},
		{"steps", &w.Steps},
	}
	for _, f := range fields {
		if err := lookupInt(v, f.path, f.dst); err != nil {
			return w, err
		}
	}

	if ev := v.LookupPath(cue.ParsePath("expect")); ev.Exists() {
		w.Expect = &ir.Expect{}
		cs, err := ev.LookupPath(cue.ParsePath("checksum")).Int64()
		if err != nil {
			return w, formatCUEError(err)
		}
		w.Expect.Checksum = cs
		if err := lookupInt(ev, "max_flips", &w.Expect.MaxFlips); err != nil {
			return w, err
		}
	}
	return w, nil
}

func lookupInt(v cue.Value, path string, dst *int) error {
	fv := v.LookupPath(cue.ParsePath(path))
	if d, ok := fv.Default(); ok {
		fv = d
	}
	i, err := fv.Int64()
	if err != nil {
		return formatCUEError(err)
	}
	*dst = int(i)
	return nil
}

// CompileSuites compiles every suite under the top-level `suite` field of v,
// in declaration order.
func CompileSuites(v cue.Value) ([]ir.Suite, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	suitesVal := v.LookupPath(cue.ParsePath("suite"))
	if !suitesVal.Exists() {
		return nil, &CompileError{Field: "suite", Message: "no suite declared", Pos: v.Pos()}
	}

	iter, err := suitesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var suites []ir.Suite
	for iter.Next() {
		s, err := CompileSuite(iter.Value())
		if err != nil {
			return nil, err
		}
		suites = append(suites, *s)
	}
	return suites, nil
}

// CompileFile compiles the suites declared in one CUE file.
func CompileFile(path string) ([]ir.Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v := cuecontext.New().CompileBytes(data, cue.Filename(path))
	return CompileSuites(v)
}

// CompileDir compiles every *.cue file under dir, in lexical path order.
// A suite name declared in two files is an error.
func CompileDir(dir string) ([]ir.Suite, error) {
	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	seen := make(map[string]string)
	var all []ir.Suite
	for _, f := range files {
		suites, err := CompileFile(f)
		if err != nil {
			return nil, err
		}
		for _, s := range suites {
			if prev, ok := seen[s.Name]; ok {
				return nil, &CompileError{
					Field:   "suite",
					Message: fmt.Sprintf("suite %q declared in both %s and %s", s.Name, prev, f),
				}
			}
			seen[s.Name] = f
			all = append(all, s)
		}
	}
	return all, nil
}

// FindCUEFiles returns every .cue file under dir, sorted.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func suiteSchema(ctx *cue.Context) (cue.Value, error) {
	schema := ctx.CompileString(schemaSource, cue.Filename(schemaFilename))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("suite schema: %w", err)
	}
	return schema.LookupPath(cue.ParsePath("#Suite")), nil
}

// CompileError is a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError converts the first CUE error to a CompileError.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	field := "cue"
	if path := first.Path(); len(path) > 0 {
		field = path[len(path)-1]
	}
	return &CompileError{Field: field, Message: first.Error(), Pos: userPos(errors.Positions(first))}
}

// userPos prefers a position in the user's file over one in the schema.
func userPos(positions []token.Pos) token.Pos {
	for _, p := range positions {
		if p.IsValid() && p.Filename() != schemaFilename {
			return p
		}
	}
	if len(positions) > 0 {
		return positions[0]
	}
	return token.NoPos
}
