package analysis

import "fmt"

// FormatError reports an input-format violation in a manuscript: malformed
// markup or a verse that cannot be addressed.
type FormatError struct {
	Document string
	VerseID  string // empty when the failure is not tied to a verse
	Reason   string
	Err      error
}

func (e *FormatError) Error() string {
	msg := e.Document + ": " + e.Reason
	if e.VerseID != "" {
		msg = fmt.Sprintf("%s: verse %q: %s", e.Document, e.VerseID, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
