package eval

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpr(t *testing.T) {
	vars := map[string]float64{"#depth": 2.5}

	tests := []struct {
		exp  string
		want float64
	}{
		{"", 0},
		{"42", 42},
		{"-5", -5},
		{"1.25", 1.25},
		{"[3]", 3},
		{"2+3", 5},
		{"7-2", 5},
		{"6*7", 42},
		{"9/2", 4.5},
		{"[2+3*4]", 14}, // splits at the first operator: 2 + (3*4)
		{"#depth", 2.5},
		{"[#depth*2]", 5},
		{"[]", 0},
	}
	for _, tt := range tests {
		got, err := Expr(tt.exp, vars)
		require.NoError(t, err, "exp %q", tt.exp)
		assert.Equal(t, tt.want, got, "exp %q", tt.exp)
	}
}

func TestExpr_UndefinedVariable(t *testing.T) {
	_, err := Expr("#nope", nil)
	require.Error(t, err)
	assert.Equal(t, ErrUndefinedVariable, errors.Cause(err))
}

func TestExpr_MalformedNumber(t *testing.T) {
	_, err := Expr("abc", nil)
	require.Error(t, err)
	assert.Equal(t, ErrMalformedNumber, errors.Cause(err))
}

func TestExpr_DivideByZero(t *testing.T) {
	_, err := Expr("1/0", nil)
	require.Error(t, err)
	assert.Equal(t, ErrDivideByZero, errors.Cause(err))

	_, err = Expr("[1/[2-2]]", nil)
	require.Error(t, err)
	assert.Equal(t, ErrDivideByZero, errors.Cause(err))
}
