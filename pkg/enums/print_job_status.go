package enums

import "fmt"

// PrintJobStatus tracks an order's job through the print-on-demand vendor.
type PrintJobStatus string

const (
	PrintJobStatusPending   PrintJobStatus = "pending"
	PrintJobStatusPresubmit PrintJobStatus = "presubmit"
	PrintJobStatusAccepted  PrintJobStatus = "accepted"
	PrintJobStatusRejected  PrintJobStatus = "rejected"
	PrintJobStatusCanceled  PrintJobStatus = "canceled"
	PrintJobStatusBricked   PrintJobStatus = "bricked"
	PrintJobStatusShipped   PrintJobStatus = "shipped"
)

var validPrintJobStatuses = []PrintJobStatus{
	PrintJobStatusPending,
	PrintJobStatusPresubmit,
	PrintJobStatusAccepted,
	PrintJobStatusRejected,
	PrintJobStatusCanceled,
	PrintJobStatusBricked,
	PrintJobStatusShipped,
}

// String implements fmt.Stringer.
func (p PrintJobStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PrintJobStatus.
func (p PrintJobStatus) IsValid() bool {
	for _, candidate := range validPrintJobStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrintJobStatus converts raw input into a PrintJobStatus.
func ParsePrintJobStatus(value string) (PrintJobStatus, error) {
	for _, candidate := range validPrintJobStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid print job status %q", value)
}
