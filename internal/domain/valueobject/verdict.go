package valueobject

import "fmt"

// Verdict is the binary outcome of scoring a sequence.
type Verdict struct {
	value string
}

var (
	VerdictBenign    = Verdict{value: "BENIGN"}
	VerdictMalicious = Verdict{value: "MALICIOUS"}
)

// DefaultMaliciousThreshold is the probability above which a sequence is
// reported as malicious.
const DefaultMaliciousThreshold = 0.6

// VerdictFromString reconstructs a Verdict from its string representation.
func VerdictFromString(s string) (Verdict, error) {
	switch s {
	case "BENIGN":
		return VerdictBenign, nil
	case "MALICIOUS":
		return VerdictMalicious, nil
	default:
		return Verdict{}, fmt.Errorf("invalid verdict: %s", s)
	}
}

// VerdictFromProbability is MALICIOUS when probability is strictly greater
// than threshold.
func VerdictFromProbability(probability, threshold float64) Verdict {
	if probability > threshold {
		return VerdictMalicious
	}
	return VerdictBenign
}

func (v Verdict) String() string { return v.value }

// IsZero returns true if the verdict has not been set.
func (v Verdict) IsZero() bool { return v.value == "" }

// IsMalicious returns true for VerdictMalicious.
func (v Verdict) IsMalicious() bool { return v == VerdictMalicious }
