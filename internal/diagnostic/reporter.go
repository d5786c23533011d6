package diagnostic

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Sorted returns the warnings ordered for stable reporting: by object name,
// then by code. Insertion order breaks remaining ties because the sort is
// stable.
func Sorted(warnings []Warning) []Warning {
	out := make([]Warning, len(warnings))
	copy(out, warnings)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Object != out[j].Object {
			return out[i].Object < out[j].Object
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Report writes one warning per line to w, sorted.
func Report(w io.Writer, warnings []Warning) error {
	for _, warning := range Sorted(warnings) {
		if _, err := fmt.Fprintln(w, warning); err != nil {
			return err
		}
	}
	return nil
}

// ReportTo writes warnings to the named destination: "" or "stderr" selects
// standard error, anything else is treated as a file path.
func ReportTo(destination string, warnings []Warning) error {
	if len(warnings) == 0 {
		return nil
	}
	if destination == "" || destination == "stderr" {
		return Report(os.Stderr, warnings)
	}
	f, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("failed to open warning output %s: %w", destination, err)
	}
	defer f.Close()
	return Report(f, warnings)
}

// StrictViolationError bundles every Lossy-or-higher warning found while
// strict mode is on.
type StrictViolationError struct {
	Violations []Warning
}

func (e *StrictViolationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "strict mode: %d lossy conversion(s) found:\n", len(e.Violations))
	for _, w := range Sorted(e.Violations) {
		fmt.Fprintf(&b, "  %s\n", w)
	}
	return b.String()
}

// CheckStrict returns a StrictViolationError if any warning is at Lossy
// severity or higher. Strict mode never filters warnings; it only elevates
// the final outcome.
func CheckStrict(warnings []Warning) error {
	var violations []Warning
	for _, w := range warnings {
		if w.Severity >= SeverityLossy {
			violations = append(violations, w)
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return &StrictViolationError{Violations: violations}
}
