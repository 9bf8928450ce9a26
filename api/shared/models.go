/* models.go
 * This file contain the structs that are shared between the api sub packages and the bot
 */

package shared

type User struct {
	UserID   string
	Username string
}

// SubmissionInfo is the set of spreadsheet locations a cube's submissions are written to
type SubmissionInfo struct {
	SpreadsheetID string `json:"spreadsheet_id" bson:"spreadsheet_id"`
	Maindeck      string `json:"maindeck" bson:"maindeck"`
	Sideboard     string `json:"sideboard" bson:"sideboard"`
	DraftLog      string `json:"draftlog" bson:"draftlog"`
}

// MaindeckSink returns the destination for maindeck rows
func (s SubmissionInfo) MaindeckSink() Destination {
	return Destination{SpreadsheetID: s.SpreadsheetID, Range: s.Maindeck}
}

// SideboardSink returns the destination for sideboard rows
func (s SubmissionInfo) SideboardSink() Destination {
	return Destination{SpreadsheetID: s.SpreadsheetID, Range: s.Sideboard}
}

// DraftLogSink returns the destination for draft log rows
func (s SubmissionInfo) DraftLogSink() Destination {
	return Destination{SpreadsheetID: s.SpreadsheetID, Range: s.DraftLog}
}

// Destination is a spreadsheet plus an A1 range to append to
type Destination struct {
	SpreadsheetID string
	Range         string
}

// Empty reports whether the destination means "do not write"
func (d Destination) Empty() bool {
	return d.SpreadsheetID == "" || d.Range == ""
}

// SheetWriteRequest is an ordered set of rows to append at a destination
type SheetWriteRequest struct {
	Rows        [][]string
	Destination Destination
}

// NoOp reports whether writing the request would do nothing
func (r SheetWriteRequest) NoOp() bool {
	return len(r.Rows) == 0 || r.Destination.Empty()
}

// Notification is a message for a single user, delivered by direct message
type Notification struct {
	Recipient string
	Body      string
}
