package report

import "strings"

// Status is the outcome of a single executed test.
type Status int

// const ...
const (
	StatusPass Status = iota
	StatusFail
	StatusSkip
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusSkip:
		return "SKIP"
	default:
		return "FAIL"
	}
}

// ParseStatus maps a harness status string to a Status.
// Anything that is neither a pass nor a skip is a failure (errors, timeouts, not run...).
func ParseStatus(s string) Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PASS", "PASSED", "SUCCESS":
		return StatusPass
	case "SKIP", "SKIPPED":
		return StatusSkip
	default:
		return StatusFail
	}
}

// Counts ...
type Counts struct {
	Total   int
	Failed  int
	Skipped int
}

func defaultCounts(status Status) Counts {
	c := Counts{Total: 1}
	switch status {
	case StatusFail:
		c.Failed = 1
	case StatusSkip:
		c.Skipped = 1
	}
	return c
}
