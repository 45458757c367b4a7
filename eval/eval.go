// Package eval resolves the arithmetic expressions found in statement
// parameters and assignments.
//
// The grammar is deliberately tiny: an optional [...] wrapper, binary
// chains of * / + -, #name variable references and float literals.
// There is no operator precedence; the expression splits at the first
// operator found scanning left to right, so "2+3*4" parses as
// 2 + (3*4).
package eval

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrMalformedNumber   = errors.New("malformed number")
	ErrDivideByZero      = errors.New("division by zero")
)

const operators = "*/+-"

// Expr evaluates exp against the given variable table. An empty
// expression evaluates to 0.
func Expr(exp string, vars map[string]float64) (float64, error) {
	if strings.HasPrefix(exp, "[") {
		// Calculated value
		exp = strings.TrimSuffix(exp[1:], "]")
	}

	if exp == "" {
		return 0, nil
	}

	if i := strings.IndexAny(exp, operators); i >= 0 {
		left, err := Expr(exp[:i], vars)
		if err != nil {
			return 0, err
		}
		right, err := Expr(exp[i+1:], vars)
		if err != nil {
			return 0, err
		}
		switch exp[i] {
		case '*':
			return left * right, nil
		case '/':
			if right == 0 {
				return 0, errors.Wrapf(ErrDivideByZero, "%q", exp)
			}
			return left / right, nil
		case '+':
			return left + right, nil
		default:
			return left - right, nil
		}
	}

	if strings.HasPrefix(exp, "#") {
		v, ok := vars[exp]
		if !ok {
			return 0, errors.Wrapf(ErrUndefinedVariable, "%q", exp)
		}
		return v, nil
	}

	v, err := cast.ToFloat64E(exp)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedNumber, "%q", exp)
	}
	return v, nil
}
