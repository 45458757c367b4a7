package gcode

import (
	"bytes"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// ReadProgram consumes r until EOF. Invalid lines are recorded on the
// program and skipped; any other read error aborts.
func ReadProgram(r io.Reader) (*Program, error) {
	p := NewParser(r)
	prog := &Program{}
	for {
		st, err := p.Read()
		if err == io.EOF {
			break
		}
		if inv, ok := err.(*InvalidLineError); ok {
			logrus.WithField("line", inv.Line).Warn("skipping invalid line")
			prog.InvalidLines = append(prog.InvalidLines, inv.Line)
			continue
		}
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, st)
	}
	return prog, nil
}

func Parse(data string) (*Program, error) {
	return ReadProgram(bytes.NewBufferString(data))
}

func ParseFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadProgram(f)
}

func MustParse(data string) *Program {
	prog, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return prog
}
