package schema

import "fmt"

// Finding is a single validation observation.
type Finding struct {
	Code    string `json:"code"`
	Slot    string `json:"slot,omitempty"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	if f.Slot != "" {
		return fmt.Sprintf("%s: %s: %s", f.Code, f.Slot, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Findings accumulates errors (blocking) and warnings (advisory).
type Findings struct {
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
}

// Valid reports whether no blocking errors were found. Warnings never
// block.
func (f Findings) Valid() bool {
	return len(f.Errors) == 0
}

func (f *Findings) addError(code, slot, format string, args ...any) {
	f.Errors = append(f.Errors, Finding{Code: code, Slot: slot, Message: fmt.Sprintf(format, args...)})
}

func (f *Findings) addWarning(code, slot, format string, args ...any) {
	f.Warnings = append(f.Warnings, Finding{Code: code, Slot: slot, Message: fmt.Sprintf(format, args...)})
}

// Merge appends other's findings.
func (f *Findings) Merge(other Findings) {
	f.Errors = append(f.Errors, other.Errors...)
	f.Warnings = append(f.Warnings, other.Warnings...)
}
