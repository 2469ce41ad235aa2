package policy

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/gate"
	"github.com/diewo77/go-backoffice/internal/models"
)

// DBProfileResolver fetches user profiles from the database.
// It implements the gate.ProfileResolver interface for uint user IDs.
type DBProfileResolver struct {
	DB *gorm.DB
}

func NewDBProfileResolver(db *gorm.DB) *DBProfileResolver {
	return &DBProfileResolver{DB: db}
}

// Resolve returns nil when the user no longer exists.
func (r *DBProfileResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Select("id", "username", "role").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return gate.NewStaticProfile(user.ID, user.Username, gate.Role(user.Role)), nil
}
