package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/pancake/internal/compiler"
	"github.com/roach88/pancake/internal/ir"
)

// Error code constants, shared by every command.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeNoFiles       = "E003" // No CUE files found
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeCompileFailed = "E006" // CUE compilation failed
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeInvalidInput  = "E008" // Bad n, block count or flag value
	ErrCodeStore         = "E009" // Database error
	ErrCodeMismatch      = "E010" // Result differs from expectation
	ErrCodeDeterminism   = "E011" // Replay differs from the stored run
	ErrCodeScenario      = "E012" // Scenario failed
)

// LoadError is a suite loading failure with an error code.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadSuites compiles every CUE suite under dir and runs semantic
// validation on the result.
func LoadSuites(dir string) ([]ir.Suite, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("suite directory not found: %s", dir), Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing suite directory: %v", err), Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := compiler.FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("error scanning directory: %v", err), Err: err}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	suites, err := compiler.CompileDir(dir)
	if err != nil {
		var ce *compiler.CompileError
		if errors.As(err, &ce) {
			return nil, &LoadError{Code: ErrCodeCompileFailed, Message: ce.Error(), Err: err}
		}
		return nil, &LoadError{Code: ErrCodeCompileFailed, Message: err.Error(), Err: err}
	}

	for i := range suites {
		if verrs := compiler.Validate(&suites[i]); len(verrs) > 0 {
			return nil, &LoadError{
				Code:    verrs[0].Code,
				Message: fmt.Sprintf("suite %s: %s", suites[i].Name, verrs[0].Error()),
				Err:     verrs[0],
			}
		}
	}
	return suites, nil
}

// loadErrorCode returns the code of a LoadError, or ErrCodeGeneric.
func loadErrorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ErrCodeGeneric
}
