package compiler

import (
	"errors"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pancake/internal/ir"
)

func compileString(t *testing.T, src string) cue.Value {
	t.Helper()
	v := cuecontext.New().CompileString(src, cue.Filename("test.cue"))
	require.NoError(t, v.Err())
	return v
}

func TestCompileSuite_Defaults(t *testing.T) {
	v := compileString(t, `
		suite: smoke: {
			description: "quick check"
			workload: n5: { n: 5 }
		}
	`)

	s, err := CompileSuite(v.LookupPath(cue.ParsePath("suite.smoke")))
	require.NoError(t, err)

	assert.Equal(t, "smoke", s.Name)
	assert.Equal(t, "quick check", s.Description)
	require.Len(t, s.Workloads, 1)
	assert.Equal(t, ir.Workload{Name: "n5", N: 5, Blocks: 24, Workers: 0, Steps: 1}, s.Workloads[0])
}

func TestCompileSuite_ExplicitFields(t *testing.T) {
	v := compileString(t, `
		suite: full: workload: w: {
			n: 10
			blocks: 7
			workers: 3
			steps: 4
			expect: { checksum: 73196, max_flips: 38 }
		}
	`)

	s, err := CompileSuite(v.LookupPath(cue.ParsePath("suite.full")))
	require.NoError(t, err)
	require.Len(t, s.Workloads, 1)

	w := s.Workloads[0]
	assert.Equal(t, 10, w.N)
	assert.Equal(t, 7, w.Blocks)
	assert.Equal(t, 3, w.Workers)
	assert.Equal(t, 4, w.Steps)
	require.NotNil(t, w.Expect)
	assert.Equal(t, ir.Expect{Checksum: 73196, MaxFlips: 38}, *w.Expect)
}

func TestCompileSuite_KeepsDeclarationOrder(t *testing.T) {
	v := compileString(t, `
		suite: ordered: workload: {
			zeta: { n: 3 }
			alpha: { n: 4 }
			mid: { n: 5 }
		}
	`)

	s, err := CompileSuite(v.LookupPath(cue.ParsePath("suite.ordered")))
	require.NoError(t, err)

	var names []string
	for _, w := range s.Workloads {
		names = append(names, w.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestCompileSuite_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"n too large", `suite: s: workload: w: { n: 17 }`},
		{"n zero", `suite: s: workload: w: { n: 0 }`},
		{"zero blocks", `suite: s: workload: w: { n: 5, blocks: 0 }`},
		{"too many blocks", `suite: s: workload: w: { n: 16, blocks: 65537 }`},
		{"negative workers", `suite: s: workload: w: { n: 5, workers: -1 }`},
		{"zero steps", `suite: s: workload: w: { n: 5, steps: 0 }`},
		{"unknown field", `suite: s: workload: w: { n: 5, block: 3 }`},
		{"float n", `suite: s: workload: w: { n: 5.5 }`},
		{"missing n", `suite: s: workload: w: { blocks: 3 }`},
		{"negative expected flips", `suite: s: workload: w: { n: 5, expect: { checksum: 11, max_flips: -1 } }`},
		{"no workloads", `suite: s: description: "empty"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := cuecontext.New().CompileString(tt.src, cue.Filename("test.cue"))
			_, err := CompileSuite(v.LookupPath(cue.ParsePath("suite.s")))
			require.Error(t, err)

			var ce *CompileError
			assert.True(t, errors.As(err, &ce), "want *CompileError, got %T", err)
		})
	}
}

func TestCompileSuites_Multiple(t *testing.T) {
	v := compileString(t, `
		suite: a: workload: w: { n: 3 }
		suite: b: workload: w: { n: 4 }
	`)

	suites, err := CompileSuites(v)
	require.NoError(t, err)
	require.Len(t, suites, 2)
	assert.Equal(t, "a", suites[0].Name)
	assert.Equal(t, "b", suites[1].Name)
}

func TestCompileSuites_NoSuiteField(t *testing.T) {
	_, err := CompileSuites(compileString(t, `other: 1`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no suite declared")
}

func TestCompileFile(t *testing.T) {
	suites, err := CompileFile(filepath.Join("testdata", "suites", "reference.cue"))
	require.NoError(t, err)
	require.Len(t, suites, 1)

	s := suites[0]
	assert.Equal(t, "reference", s.Name)
	require.Len(t, s.Workloads, 2)
	assert.Equal(t, &ir.Expect{Checksum: 1616, MaxFlips: 22}, s.Workloads[1].Expect)
	assert.Equal(t, 4, s.Workloads[1].Workers)
}

func TestCompileFile_ErrorHasPosition(t *testing.T) {
	_, err := CompileFile(filepath.Join("testdata", "bad", "range.cue"))
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.True(t, ce.Pos.IsValid())
	assert.Contains(t, err.Error(), "range.cue")
}

func TestCompileDir(t *testing.T) {
	suites, err := CompileDir(filepath.Join("testdata", "suites"))
	require.NoError(t, err)
	require.Len(t, suites, 2)

	// Files are compiled in lexical order.
	assert.Equal(t, "reference", suites[0].Name)
	assert.Equal(t, "shapes", suites[1].Name)
	assert.Len(t, suites[1].Workloads, 3)
}

func TestCompileDir_DuplicateSuite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.cue"), `suite: dup: workload: w: { n: 3 }`)
	writeFile(t, filepath.Join(dir, "b.cue"), `suite: dup: workload: w: { n: 4 }`)

	_, err := CompileDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `suite "dup" declared in both`)
}

func TestCompileDir_Empty(t *testing.T) {
	_, err := CompileDir(t.TempDir())
	assert.Error(t, err)
}

func TestCompileError_Format(t *testing.T) {
	err := &CompileError{Field: "n", Message: "out of range"}
	assert.Equal(t, "n: out of range", err.Error())
}
