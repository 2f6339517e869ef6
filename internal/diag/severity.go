package diag

import "fmt"

// Severity defines the importance of a diagnostic. Higher is worse.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	// SevError aborts the phase that reported it.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts the names produced by MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	for i, name := range severityNames {
		if name == string(text) {
			*s = Severity(i) //nolint:gosec // index of a three element table
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", text)
}
