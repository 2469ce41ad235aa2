package models

import "time"

// Role names. They are stored verbatim in users.role.
const (
	RoleCEO        = "CEO"
	RoleRH         = "RH"
	RoleCommercial = "Commercial"
	RoleTechnicien = "Technicien"
	RoleComptable  = "Comptable"
	RoleEmploye    = "Employe"
)

// Roles lists the assignable roles in display order.
var Roles = []string{RoleCEO, RoleRH, RoleCommercial, RoleTechnicien, RoleComptable, RoleEmploye}

// ValidRole reports whether r is one of Roles.
func ValidRole(r string) bool {
	for _, known := range Roles {
		if known == r {
			return true
		}
	}
	return false
}

// User is an account able to log into the back-office.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Username     string     `gorm:"uniqueIndex;size:80;not null" json:"username"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Role         string     `gorm:"size:50;not null;default:'Employe'" json:"role"`
	Documents    []Document `gorm:"foreignKey:UserID" json:"documents,omitempty"`
}

// IsCEO reports whether the account holds the protected CEO role.
func (u *User) IsCEO() bool { return u.Role == RoleCEO }
