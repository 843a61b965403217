package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled boolean expression evaluated against result rows
type Filter struct {
	program    *vm.Program
	expression string
}

// Compile compiles an expression into a Filter
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Position:   -1,
		}
	}

	// Compile with static environment for validation
	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // Row fields are only known at runtime
		expr.AsBool(),
	)
	if err != nil {
		compErr := &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Position:   -1,
			Err:        err,
		}
		var fileErr *file.Error
		if errors.As(err, &fileErr) {
			compErr.Reason = fileErr.Message
			compErr.Position = fileErr.Column
		}
		return nil, compErr
	}

	return &Filter{
		program:    program,
		expression: expression,
	}, nil
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against a row
func (f *Filter) Match(row Row) (bool, error) {
	result, err := expr.Run(f.program, runtimeEnvironment(row))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			RowID:      row.ID(),
			Reason:     "evaluation failed",
			Err:        err,
		}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expression,
			RowID:      row.ID(),
			Reason:     fmt.Sprintf("expression returned %T, not bool", result),
		}
	}
	return matched, nil
}

// Apply returns the rows matching f. Rows that fail to evaluate are skipped
// and their errors joined into the returned error.
func (f *Filter) Apply(rows []Row) ([]Row, error) {
	var (
		matches []Row
		errs    []error
	)
	for _, row := range rows {
		ok, err := f.Match(row)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			matches = append(matches, row)
		}
	}
	return matches, errors.Join(errs...)
}
