package domain

import "errors"

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("product not found")
)

// Status is the review state of a catalog product.
// A product always carries exactly one status.
type Status string

const (
	StatusPendingApproval Status = "PendingApproval"
	StatusApproved        Status = "Approved"
	StatusRejected        Status = "Rejected"
	StatusSoftDeleted     Status = "SoftDeleted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPendingApproval, StatusApproved, StatusRejected, StatusSoftDeleted:
		return true
	}
	return false
}

// Role is the permission class of the caller, resolved by the
// authentication adapter. The core never derives it.
type Role string

const (
	RoleCapturer Role = "Capturer"
	RoleManager  Role = "Manager"
)

type Product struct {
	ID     int64
	Name   string
	Price  float64
	Status Status
}
