package services

import (
	"errors"
	"time"

	"github.com/diewo77/go-backoffice/internal/models"
)

var (
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidDateRange = errors.New("invalid_date_range")
	ErrNotHired         = errors.New("candidate_not_hired")
)

// CheckDateRange rejects a range whose start is after its end.
func CheckDateRange(start, end time.Time) error {
	if start.After(end) {
		return ErrInvalidDateRange
	}
	return nil
}

// CheckLeaveDecision accepts only the two terminal leave statuses.
func CheckLeaveDecision(status string) error {
	if status != models.LeaveApproved && status != models.LeaveRejected {
		return ErrInvalidStatus
	}
	return nil
}

// CheckQuoteDecision accepts only the two terminal quote statuses.
func CheckQuoteDecision(status string) error {
	if status != models.QuoteAccepted && status != models.QuoteRejected {
		return ErrInvalidStatus
	}
	return nil
}

// EmployeeFromCandidate pre-fills an employee from a hired candidate.
// Salary and hire date are left for HR to fill in.
func EmployeeFromCandidate(c *models.Candidate) (models.Employee, error) {
	if c.Status != models.CandidateHired {
		return models.Employee{}, ErrNotHired
	}
	return models.Employee{
		FullName: c.FullName,
		Email:    c.Email,
		Phone:    c.Phone,
		Position: c.PositionAppliedFor,
		IsActive: true,
	}, nil
}
