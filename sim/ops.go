package sim

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Ulrhol/cnc-emulator/coord"
	"github.com/Ulrhol/cnc-emulator/eval"
	"github.com/Ulrhol/cnc-emulator/gcode"
	"github.com/Ulrhol/cnc-emulator/toolpath"
)

func (m *Machine) exec(st *gcode.Statement) (toolpath.Segment, error) {
	switch {
	case st.IsNoop():

	case st.IsAssign():
		v, err := eval.Expr(st.Expr, m.vars)
		if err != nil {
			return nil, err
		}
		m.vars[st.Name] = v

	case st.Code == "G00" || st.Code == "G01":
		return m.linearMove(st)

	case st.Code == "G02" || st.Code == "G03":
		return m.arcMove(st)

	case st.Code == "M02":
		// End of program, regardless of remaining statements.
		m.finished = true

	case st.Code == "M03":
		m.spindleOn = true

	case st.Code == "M05":
		m.spindleOn = false

	case st.Code == "G20":
		// Programming in inches.
		m.units = "in"
		m.rapidSpeed = RapidSpeedMM / 25.4

	case st.Code == "G96":
		// Constant surface speed, not modeled.

	case st.Code == "G90":
		logrus.Debug("G90: absolute distance mode")

	case st.Code == "G17":
		m.plane = toolpath.PlaneXY
	case st.Code == "G18":
		m.plane = toolpath.PlaneZX
	case st.Code == "G19":
		m.plane = toolpath.PlaneYZ

	case st.Code == "M06":
		tc := toolpath.NewToolChange()
		m.emit(tc, st)
		return tc, nil

	case st.Code == "G04":
		params, err := m.evalParams(st)
		if err != nil {
			return nil, err
		}
		d := toolpath.NewDwell(params['P'])
		m.emit(d, st)
		return d, nil

	case strings.HasPrefix(st.Code, "F"):
		// Feed rate definition.
		rate, err := eval.Expr(st.Code[1:], m.vars)
		if err != nil {
			return nil, err
		}
		m.feedRate = rate

	case strings.HasPrefix(st.Code, "T"):
		// Tool selection, not modeled.

	default:
		logrus.WithFields(logrus.Fields{
			"code": st.Code,
			"line": st.Line,
		}).Warn("unknown code")
		m.unknown[st.Code] = true
	}

	return nil, nil
}

// linearMove handles G00 (rapid positioning) and G01 (linear
// interpolation).
func (m *Machine) linearMove(st *gcode.Statement) (toolpath.Segment, error) {
	params, err := m.evalParams(st)
	if err != nil {
		return nil, err
	}

	// The feed rate is supplied per minute.
	if f, ok := params['F']; ok {
		m.feedRate = f / 60
	}

	if !m.posKnown {
		// Use this move to define the starting position.
		m.pos = coord.Point{
			X: params['X'] / m.scale,
			Y: params['Y'] / m.scale,
			Z: params['Z'] / m.scale,
		}
		m.posKnown = true
		return nil, nil
	}

	newpos, moved := m.targetPos(params)
	if !moved {
		return nil, nil
	}

	// The spindle on means a working cut at the feed rate; off means a
	// jog at the rapid speed.
	feed := m.feedRate
	if !m.spindleOn {
		feed = m.rapidSpeed
	}

	line := toolpath.NewLine(m.pos, newpos, feed)
	line.Rapid = st.Code == "G00"
	m.emit(line, st)
	m.pos = newpos
	return line, nil
}

// arcMove handles G02/G03 circular interpolation. Only the I/J center
// offset form is supported; the center is always offset in the XY
// plane from the current position.
func (m *Machine) arcMove(st *gcode.Statement) (toolpath.Segment, error) {
	params, err := m.evalParams(st)
	if err != nil {
		return nil, err
	}

	if f, ok := params['F']; ok {
		m.feedRate = f / 60
	}

	end, _ := m.targetPos(params)

	if !m.spindleOn {
		// A spindle-off arc jumps the position without emitting a
		// segment, mirroring how the hosts have always behaved.
		m.pos = end
		return nil, nil
	}

	center := coord.Point{
		X: m.pos.X + params['I']/m.scale,
		Y: m.pos.Y + params['J']/m.scale,
		Z: m.pos.Z,
	}

	arc := toolpath.NewArc(m.pos, end, center, m.feedRate, st.Code == "G02", m.plane)
	m.emit(arc, st)
	m.pos = end
	return arc, nil
}

// targetPos copies the current position and overrides any axes present
// in params. Positioning is absolute; absent axes carry over unchanged.
func (m *Machine) targetPos(params map[byte]float64) (coord.Point, bool) {
	newpos := m.pos
	var moved bool
	if x, ok := params['X']; ok {
		newpos.X = x / m.scale
		moved = true
	}
	if y, ok := params['Y']; ok {
		newpos.Y = y / m.scale
		moved = true
	}
	if z, ok := params['Z']; ok {
		newpos.Z = z / m.scale
		moved = true
	}
	return newpos, moved
}

func (m *Machine) evalParams(st *gcode.Statement) (map[byte]float64, error) {
	params := make(map[byte]float64, len(st.Params))
	for key, raw := range st.Params {
		v, err := eval.Expr(raw, m.vars)
		if err != nil {
			return nil, err
		}
		params[key] = v
	}
	return params, nil
}

// emit stamps the segment into the timeline at the current time and
// advances the clock by its duration.
func (m *Machine) emit(seg toolpath.Segment, st *gcode.Statement) {
	info := seg.Common()
	info.StartTime = m.time
	info.SpindleOn = m.spindleOn
	info.Statement = st
	info.Command = st.String()
	m.segments = append(m.segments, seg)
	m.time += info.Duration
}
