package domain

// RejectReason classifies why a row was excluded from the cleaned collection.
type RejectReason string

const (
	ReasonInvalidCoordinates   RejectReason = "invalid-coordinates"
	ReasonMissingRequiredField RejectReason = "missing-required-field"
	ReasonCoordinateOutOfRange RejectReason = "coordinate-out-of-range"
	ReasonDuplicate            RejectReason = "duplicate"
)

// RejectedRow records one rejection with its source line number
// (1-based, counting data rows after the header).
type RejectedRow struct {
	Line        int
	StoreNumber string
	Reason      RejectReason
}

// CleaningReport accumulates the outcome of one cleaning pass.
// Rows that failed to parse as rows at all are counted in MalformedRows
// and sit outside the retained+duplicates+rejected identity.
type CleaningReport struct {
	RunID         string
	TotalRows     int
	MalformedRows int
	Duplicates    int
	Rejected      []RejectedRow
	Retained      int
}

// RejectedCount returns the number of validation rejections.
func (r *CleaningReport) RejectedCount() int {
	return len(r.Rejected)
}

// Consistent reports whether retained + duplicates + rejected covers
// every row that parsed.
func (r *CleaningReport) Consistent() bool {
	return r.Retained+r.Duplicates+len(r.Rejected) == r.TotalRows
}
