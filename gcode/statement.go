package gcode

import (
	"strings"
)

// Statement is a single parsed line of a program.
//
// Motion and misc codes are normalized to a letter plus a zero-padded
// two digit number (G1 -> G01). Assignment lines (#name = expr) use the
// code "=" and carry Name/Expr instead of Params. A blank line yields a
// statement with an empty code.
type Statement struct {
	Code   string
	Args   []string
	Params map[byte]string

	// Name and Expr are set for assignment statements only.
	Name string
	Expr string

	Comment string

	// Line is the statement's index within the program.
	Line int
}

func (st *Statement) IsAssign() bool { return st.Code == "=" }
func (st *Statement) IsNoop() bool   { return st.Code == "" || st.Code == "%" }

// Param returns the raw, unevaluated value of a single-letter parameter.
func (st *Statement) Param(key byte) (string, bool) {
	v, ok := st.Params[key]
	return v, ok
}

// String reassembles the statement as it would appear in a program,
// modulo whitespace and code normalization.
func (st *Statement) String() string {
	var parts []string
	switch {
	case st.IsAssign():
		parts = []string{st.Name, "=", st.Expr}
	case st.Code != "":
		parts = append([]string{st.Code}, st.Args...)
	}
	if st.Comment != "" {
		parts = append(parts, st.Comment)
	}
	return strings.Join(parts, " ")
}
