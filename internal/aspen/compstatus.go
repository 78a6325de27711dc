package aspen

import "strings"

// CompStatus is the completion status bit set carried by every node.
type CompStatus uint32

const (
	StatusInputComplete CompStatus = 1 << iota
	StatusInputIncomplete
	StatusResultsAvailable
	StatusResultsInconsistent
	StatusWarnings
	StatusErrors
	StatusReconciled
)

var statusNames = []struct {
	flag CompStatus
	name string
}{
	{StatusInputComplete, "input_complete"},
	{StatusInputIncomplete, "input_incomplete"},
	{StatusResultsAvailable, "results_available"},
	{StatusResultsInconsistent, "results_inconsistent"},
	{StatusWarnings, "warnings"},
	{StatusErrors, "errors"},
	{StatusReconciled, "reconciled"},
}

// Has reports whether every bit of flag is set.
func (s CompStatus) Has(flag CompStatus) bool { return s&flag == flag }

// Attributes lists the names of the set bits.
func (s CompStatus) Attributes() []string {
	var out []string
	for _, sn := range statusNames {
		if s.Has(sn.flag) {
			out = append(out, sn.name)
		}
	}
	return out
}

func (s CompStatus) String() string {
	if s == 0 {
		return "none"
	}
	return strings.Join(s.Attributes(), "|")
}
