package toolpath

// Reduce merges runs of consecutive near-collinear lines into single
// lines. A line joins the current run when every endpoint already in
// the run sits within tolerance of the line from the run's start to
// the candidate's end. Any other segment kind flushes the run and
// passes through unchanged. A merged line takes its feed rate, timing
// and flags from the first segment of the run.
func Reduce(segs []Segment, tolerance float64) []Segment {
	out := make([]Segment, 0, len(segs))
	var run []*Line

	flush := func() {
		if len(run) == 0 {
			return
		}
		if len(run) == 1 {
			out = append(out, run[0])
		} else {
			first, last := run[0], run[len(run)-1]
			merged := NewLine(first.Start, last.End, first.FeedRate)
			merged.Rapid = first.Rapid
			merged.SpindleOn = first.SpindleOn
			merged.Statement = first.Statement
			merged.Command = first.Command
			merged.StartTime = first.StartTime
			out = append(out, merged)
		}
		run = nil
	}

	for _, seg := range segs {
		ln, ok := seg.(*Line)
		if !ok {
			flush()
			out = append(out, seg)
			continue
		}
		if len(run) == 0 {
			run = append(run, ln)
			continue
		}

		start, end := run[0].Start, ln.End
		fits := true
		for _, r := range run {
			if r.End.DistanceToLineXY(start, end) > tolerance {
				fits = false
				break
			}
		}
		if fits {
			run = append(run, ln)
		} else {
			flush()
			run = []*Line{ln}
		}
	}
	flush()

	return out
}
