package gcode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrBadAssignment = errors.New("malformed assignment statement")
	ErrBadCode       = errors.New("operation code has a non-numeric suffix")
)

// InvalidLineError reports a single unparseable line. Callers are
// expected to record it and keep reading; it is never fatal.
type InvalidLineError struct {
	Line  string
	Cause error
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("invalid line %q: %v", e.Line, e.Cause)
}
func (e *InvalidLineError) Unwrap() error { return e.Cause }

type Parser struct {
	br *bufio.Reader
	n  int
}

func NewParser(r io.Reader) *Parser {
	if br, ok := r.(*bufio.Reader); ok {
		return &Parser{br: br}
	}

	return &Parser{br: bufio.NewReader(r)}
}

// Read returns the next statement. Unparseable lines are returned as
// *InvalidLineError; io.EOF signals the end of input.
func (p *Parser) Read() (*Statement, error) {
	s, err := p.br.ReadString('\n')
	if err == io.EOF && s != "" {
		err = nil
	}
	if err != nil {
		return nil, err
	}

	st, err := p.parseLine(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}

	st.Line = p.n
	p.n++
	return st, nil
}

func (p *Parser) parseLine(line string) (*Statement, error) {
	st := &Statement{Params: make(map[byte]string)}

	// A comment runs from the first "(" to the end of the line.
	if i := strings.IndexByte(line, '('); i >= 0 {
		st.Comment = line[i:]
		line = strings.TrimSpace(line[:i])
	}

	args := strings.Fields(line)

	if strings.HasPrefix(line, "#") {
		// Assignment statement: "#name = expr"
		if len(args) != 3 || args[1] != "=" {
			return nil, &InvalidLineError{Line: line, Cause: ErrBadAssignment}
		}
		st.Code = "="
		st.Name = args[0]
		st.Expr = args[2]
		return st, nil
	}

	if line == "" {
		// Noop statement, kept so statement indexes line up.
		return st, nil
	}

	code := args[0]
	args = args[1:]
	if code[0] == 'G' || code[0] == 'M' {
		// Format as a two digit number to make things standard (M2 -> M02).
		num, err := strconv.Atoi(code[1:])
		if err != nil {
			return nil, &InvalidLineError{Line: line, Cause: ErrBadCode}
		}
		code = fmt.Sprintf("%c%02d", code[0], num)
	}

	st.Code = code
	st.Args = args

	// Each parameter has a letter associated with it, and there may or
	// may not be a space between it and the value.
	for n := 0; n < len(args); {
		arg := args[n]
		n++
		if len(arg) == 1 {
			// The parameter and value are split up (eg "X" and "123.4").
			var value string
			if n < len(args) {
				value = args[n]
			}
			n++
			st.Params[arg[0]] = value
		} else {
			// The parameter and value come as a single token (eg "X123.4").
			st.Params[arg[0]] = arg[1:]
		}
	}

	return st, nil
}
