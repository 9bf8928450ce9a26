/* wins.go
 * Contains the helper for reading a deck's match record from the text posted with it
 */

package draftdata

import (
	"regexp"
	"strconv"
)

// A record stands on its own; digits joined to other digits or dashes (dates, ids) are not records
var recordRegex = regexp.MustCompile(`(?:^|[\s(])(\d{1,2})\s*-\s*\d{1,2}(?:$|[\s).,;:!?])`)

// ParseWinCount reads a win-loss record such as "3-0" or "2 - 1" from a message and returns the number of wins.
// It returns nil when the message does not contain a record
func ParseWinCount(message string) *int {
	match := recordRegex.FindStringSubmatch(message)
	if match == nil {
		return nil
	}
	wins, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}
	return &wins
}
