package gcode

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Read(t *testing.T) {
	p := NewParser(strings.NewReader("G1 X10 Y-2.5\nM2\n"))

	st, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, "G01", st.Code)
	assert.Equal(t, []string{"X10", "Y-2.5"}, st.Args)
	assert.Equal(t, map[byte]string{'X': "10", 'Y': "-2.5"}, st.Params)
	assert.Equal(t, 0, st.Line)

	st, err = p.Read()
	require.NoError(t, err)
	assert.Equal(t, "M02", st.Code)
	assert.Equal(t, 1, st.Line)

	_, err = p.Read()
	assert.Equal(t, io.EOF, err)
}

func TestParser_CodeNormalization(t *testing.T) {
	for _, input := range []string{"G1", "G01", "G001"} {
		prog, err := Parse(input)
		require.NoError(t, err)
		require.Len(t, prog.Statements, 1)
		assert.Equal(t, "G01", prog.Statements[0].Code, "input %q", input)
	}
}

func TestParser_SplitAndFusedParams(t *testing.T) {
	// Both parameter forms may be mixed within one statement.
	prog := MustParse("G01 X 10 Y20 Z 30")
	require.Len(t, prog.Statements, 1)
	st := prog.Statements[0]
	assert.Equal(t, map[byte]string{'X': "10", 'Y': "20", 'Z': "30"}, st.Params)
}

func TestParser_BareKeyAtEnd(t *testing.T) {
	prog := MustParse("G01 X")
	require.Len(t, prog.Statements, 1)
	assert.Equal(t, map[byte]string{'X': ""}, prog.Statements[0].Params)
}

func TestParser_Comment(t *testing.T) {
	prog := MustParse("G00 X1 (move over)")
	require.Len(t, prog.Statements, 1)
	st := prog.Statements[0]
	assert.Equal(t, "G00", st.Code)
	assert.Equal(t, "(move over)", st.Comment)
	assert.Equal(t, map[byte]string{'X': "1"}, st.Params)
}

func TestParser_Assignment(t *testing.T) {
	prog := MustParse("#depth = [2*3]")
	require.Len(t, prog.Statements, 1)
	st := prog.Statements[0]
	assert.True(t, st.IsAssign())
	assert.Equal(t, "#depth", st.Name)
	assert.Equal(t, "[2*3]", st.Expr)
}

func TestParser_InvalidLines(t *testing.T) {
	prog, err := Parse("#a = 1 2\nGX5\nG01 X1")
	require.NoError(t, err)
	assert.Equal(t, []string{"#a = 1 2", "GX5"}, prog.InvalidLines)
	require.Len(t, prog.Statements, 1)
	assert.Equal(t, "G01", prog.Statements[0].Code)
	// Statement indexes count only parsed statements.
	assert.Equal(t, 0, prog.Statements[0].Line)
}

func TestParser_BlankLines(t *testing.T) {
	prog := MustParse("\nG01 X1\n\n")
	require.Len(t, prog.Statements, 3)
	assert.True(t, prog.Statements[0].IsNoop())
	assert.Equal(t, "G01", prog.Statements[1].Code)
	assert.True(t, prog.Statements[2].IsNoop())
}

func TestStatement_String(t *testing.T) {
	// Round-trip for already-normalized motion statements.
	const line = "G01 X10 Y-2.5"
	prog := MustParse(line)
	assert.Equal(t, line, prog.Statements[0].String())

	prog = MustParse("#a = [1+2]")
	assert.Equal(t, "#a = [1+2]", prog.Statements[0].String())
}

func TestParser_NoTrailingNewline(t *testing.T) {
	prog := MustParse("M2")
	require.Len(t, prog.Statements, 1)
	assert.Equal(t, "M02", prog.Statements[0].Code)
}
