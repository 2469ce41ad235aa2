package models

import (
	"time"

	"gorm.io/gorm"
)

// Employee is a staff member managed by HR.
type Employee struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	FullName      string         `gorm:"size:150;not null;index" json:"full_name"`
	Position      string         `gorm:"size:100" json:"position,omitempty"`
	Email         string         `gorm:"uniqueIndex;size:150;not null" json:"email"`
	Phone         string         `gorm:"size:30" json:"phone,omitempty"`
	HireDate      time.Time      `gorm:"not null" json:"hire_date"`
	Salary        *float64       `gorm:"type:decimal(12,2)" json:"salary,omitempty"`
	IsActive      bool           `gorm:"not null" json:"is_active"`
	LeaveRequests []LeaveRequest `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"leave_requests,omitempty"`
	Hebergements  []Hebergement  `gorm:"many2many:hebergement_employees;" json:"hebergements,omitempty"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.HireDate.IsZero() {
		e.HireDate = Today()
	}
	return nil
}

// Leave statuses.
const (
	LeavePending  = "Pending"
	LeaveApproved = "Approved"
	LeaveRejected = "Rejected"
)

// DefaultLeaveType is used when the request form leaves the type empty.
const DefaultLeaveType = "Annual Leave"

var LeaveTypes = []string{DefaultLeaveType, "Sick Leave", "Unpaid Leave", "Other"}

// LeaveRequest is an absence request filed for an employee.
type LeaveRequest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	EmployeeID  uint      `gorm:"index;not null" json:"employee_id"`
	Employee    *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	LeaveType   string    `gorm:"size:50;not null" json:"leave_type"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	Reason      string    `gorm:"type:text" json:"reason,omitempty"`
	Status      string    `gorm:"size:20;not null;default:'Pending'" json:"status"`
	RequestedAt time.Time `gorm:"not null" json:"requested_at"`
}

func (l *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if l.LeaveType == "" {
		l.LeaveType = DefaultLeaveType
	}
	if l.Status == "" {
		l.Status = LeavePending
	}
	if l.RequestedAt.IsZero() {
		l.RequestedAt = time.Now()
	}
	return nil
}

// Days returns the number of calendar days covered, both ends included.
func (l *LeaveRequest) Days() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

// Candidate statuses, in pipeline order.
const (
	CandidateApplied     = "Applied"
	CandidateShortlisted = "Shortlisted"
	CandidateInterview   = "Interview"
	CandidateOffer       = "Offer"
	CandidateHired       = "Hired"
	CandidateRejected    = "Rejected"
)

var CandidateStatuses = []string{CandidateApplied, CandidateShortlisted, CandidateInterview, CandidateOffer, CandidateHired, CandidateRejected}

// Candidate is a job applicant tracked through the hiring pipeline.
type Candidate struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	FullName           string    `gorm:"size:150;not null" json:"full_name"`
	Email              string    `gorm:"uniqueIndex;size:150;not null" json:"email"`
	Phone              string    `gorm:"size:30" json:"phone,omitempty"`
	PositionAppliedFor string    `gorm:"size:100" json:"position_applied_for,omitempty"`
	ApplicationDate    time.Time `gorm:"not null" json:"application_date"`
	Status             string    `gorm:"size:20;not null;default:'Applied'" json:"status"`
	Notes              string    `gorm:"type:text" json:"notes,omitempty"`
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.Status == "" {
		c.Status = CandidateApplied
	}
	if c.ApplicationDate.IsZero() {
		c.ApplicationDate = Today()
	}
	return nil
}

// ValidCandidateStatus reports whether s belongs to the hiring pipeline.
func ValidCandidateStatus(s string) bool {
	for _, known := range CandidateStatuses {
		if known == s {
			return true
		}
	}
	return false
}

// Today returns the current date at midnight, local time.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
