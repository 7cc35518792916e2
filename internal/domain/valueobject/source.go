package valueobject

import "fmt"

// Source records where a scored sequence came from.
type Source struct {
	value string
}

var (
	// SourceSequence is a sequence submitted directly by a sensor.
	SourceSequence = Source{value: "sequence"}
	// SourceReport is a per-process sequence extracted from a sandbox report.
	SourceReport = Source{value: "report"}
)

// SourceFromString reconstructs a Source from its string representation.
func SourceFromString(s string) (Source, error) {
	switch s {
	case "sequence":
		return SourceSequence, nil
	case "report":
		return SourceReport, nil
	default:
		return Source{}, fmt.Errorf("invalid source: %s", s)
	}
}

func (s Source) String() string { return s.value }
