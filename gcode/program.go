package gcode

// Program is an ordered sequence of parsed statements. Lines that
// failed to parse are kept for diagnostics; they never fail the parse.
type Program struct {
	Statements   []*Statement
	InvalidLines []string
}
