/* errors.go
 * Contains the errors returned while parsing submissions
 */

package draftdata

import (
	"errors"
	"fmt"
)

var (
	errInvalidJSON     = errors.New("document is not valid JSON")
	errMissingTime     = errors.New("missing numeric time field")
	errMissingUsers    = errors.New("missing users object")
	errMissingExport   = errors.New("missing exportString")
	errExportNotString = errors.New("exportString is not a string")
)

// UnrecognizedFormatError is returned when the first character of a submission is not one that starts a deck
// export or a draft log
type UnrecognizedFormatError struct {
	Char string
}

func (e *UnrecognizedFormatError) Error() string {
	return fmt.Sprintf("could not determine data type from beginning character %q", e.Char)
}

// MalformedDraftLogError is returned when a draft log cannot be parsed. Player is empty when the failure is in the
// document itself rather than in one player's entry
type MalformedDraftLogError struct {
	Player string
	Err    error
}

func (e *MalformedDraftLogError) Error() string {
	if e.Player == "" {
		return fmt.Sprintf("malformed draft log: %v", e.Err)
	}
	return fmt.Sprintf("malformed draft log: in the exportString for user %s: %v", e.Player, e.Err)
}

func (e *MalformedDraftLogError) Unwrap() error {
	return e.Err
}
