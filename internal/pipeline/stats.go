package pipeline

import "time"

// FileResult is the outcome of one input file.
type FileResult struct {
	Path        string
	Err         error // nil on success; wraps planner.ErrCannotProcess for rejections.
	InputBytes  int64
	OutputBytes int64 // mp4 plus sidecars.
	Elapsed     time.Duration
}

// RunStats tracks per-file outcomes and aggregate byte totals across a
// batch run.
type RunStats struct {
	Total       int
	Current     int
	Successes   []FileResult
	Failures    []FileResult
	Interrupted bool
}

func (s *RunStats) record(r FileResult) {
	if r.Err != nil {
		s.Failures = append(s.Failures, r)
		return
	}
	s.Successes = append(s.Successes, r)
}

// Failed reports whether any file failed or the run was cut short.
func (s *RunStats) Failed() bool {
	return len(s.Failures) > 0 || s.Interrupted
}

// TotalInputBytes sums the input sizes of successful files.
func (s *RunStats) TotalInputBytes() int64 {
	var n int64
	for _, r := range s.Successes {
		n += r.InputBytes
	}
	return n
}

// TotalOutputBytes sums the output sizes of successful files.
func (s *RunStats) TotalOutputBytes() int64 {
	var n int64
	for _, r := range s.Successes {
		n += r.OutputBytes
	}
	return n
}
