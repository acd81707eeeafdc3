package orchestrator

import "fmt"

// FormatProgress builds the standardized progress message used by every
// worker:
//
//	"{operation}: {details} ({completed}/{total})"  when details is non-empty
//	"{operation} ({completed}/{total})"             otherwise
func FormatProgress(completed, total int, operation, details string) string {
	if details != "" {
		return fmt.Sprintf("%s: %s (%d/%d)", operation, details, completed, total)
	}
	return fmt.Sprintf("%s (%d/%d)", operation, completed, total)
}
