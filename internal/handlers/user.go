package handlers

import (
	"net/http"
	"net/url"

	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/auth"
	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/validation"
)

// ProfileInvalidator drops cached role lookups after an account changes.
type ProfileInvalidator interface {
	InvalidateUser(userID uint)
}

type UserHandler struct {
	db      *gorm.DB
	profile ProfileInvalidator
}

func NewUserHandler(db *gorm.DB, profile ProfileInvalidator) *UserHandler {
	return &UserHandler{db: db, profile: profile}
}

type userForm struct {
	Username string `form:"username" validate:"required,max=80"`
	Role     string `form:"role" validate:"required"`
	Password string `form:"password" validate:"omitempty,min=4,max=72"`
}

// parse validates the form. The error is set only when the uniqueness
// lookup itself failed.
func (h *UserHandler) parse(r *http.Request, self uint, passwordRequired bool) (userForm, validation.Violations, error) {
	f := userForm{
		Username: field(r, "username"),
		Role:     field(r, "role"),
		Password: r.FormValue("password"),
	}
	v := validation.Violations{}
	validation.Struct(f, v)
	if f.Role != "" {
		validation.OneOf("role", f.Role, models.Roles, v)
	}
	if passwordRequired {
		validation.Required("password", f.Password, v)
	}
	if f.Username != "" {
		var n int64
		if err := h.db.WithContext(r.Context()).Model(&models.User{}).Where("username = ? AND id <> ?", f.Username, self).Count(&n).Error; err != nil {
			return f, v, err
		}
		if n > 0 {
			v.Add("username", "already_taken")
		}
	}
	return f, v, nil
}

// List: GET /users, which also carries the creation form.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, map[string]any{
		"Form": url.Values{"role": {models.RoleEmploye}},
	})
}

// Create: POST /users/add
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, v, err := h.parse(r, 0, true)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !v.Empty() {
		h.renderList(w, r, http.StatusUnprocessableEntity, map[string]any{"Errors": v, "Form": r.Form})
		return
	}
	hash, err := auth.HashPassword(f.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	u := models.User{Username: f.Username, PasswordHash: hash, Role: f.Role}
	if err := h.db.WithContext(r.Context()).Create(&u).Error; err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, "/users", middleware.FlashSuccess, "user_added")
}

// EditForm: GET /user/edit/{id}
func (h *UserHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	u, ok := h.load(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, "user_form.html", map[string]any{
		"User":  u,
		"Roles": models.Roles,
		"Form":  url.Values{"username": {u.Username}, "role": {u.Role}},
	})
}

// Update: POST /user/edit/{id}. An empty password keeps the current one;
// a CEO account keeps its role.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := h.load(w, r)
	if !ok {
		return
	}
	f, v, err := h.parse(r, u.ID, false)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !v.Empty() {
		invalid(w, r, "user_form.html", v, map[string]any{"User": u, "Roles": models.Roles})
		return
	}
	if u.IsCEO() && f.Role != models.RoleCEO {
		done(w, r, "/users", middleware.FlashWarning, "ceo_protected")
		return
	}
	u.Username = f.Username
	u.Role = f.Role
	if f.Password != "" {
		hash, err := auth.HashPassword(f.Password)
		if err != nil {
			fail(w, r, err)
			return
		}
		u.PasswordHash = hash
	}
	if err := h.db.WithContext(r.Context()).Save(u).Error; err != nil {
		fail(w, r, err)
		return
	}
	h.invalidate(u.ID)
	done(w, r, "/users", middleware.FlashSuccess, "user_updated")
}

// Delete: POST /user/delete/{id}. CEO accounts and document owners stay.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := h.load(w, r)
	if !ok {
		return
	}
	if u.IsCEO() {
		done(w, r, "/users", middleware.FlashWarning, "ceo_protected")
		return
	}
	var docs int64
	if err := h.db.WithContext(r.Context()).Model(&models.Document{}).Where("user_id = ?", u.ID).Count(&docs).Error; err != nil {
		fail(w, r, err)
		return
	}
	if docs > 0 {
		done(w, r, "/users", middleware.FlashWarning, "user_has_documents")
		return
	}
	if err := h.db.WithContext(r.Context()).Delete(u).Error; err != nil {
		fail(w, r, err)
		return
	}
	h.invalidate(u.ID)
	done(w, r, "/users", middleware.FlashSuccess, "user_deleted")
}

func (h *UserHandler) invalidate(id uint) {
	if h.profile != nil {
		h.profile.InvalidateUser(id)
	}
}

func (h *UserHandler) renderList(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	var users []models.User
	if err := h.db.WithContext(r.Context()).Order("username asc").Find(&users).Error; err != nil {
		fail(w, r, err)
		return
	}
	data["Users"] = users
	data["Roles"] = models.Roles
	render(w, r, status, "users.html", data)
}

func (h *UserHandler) load(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	var u models.User
	if err := h.db.WithContext(r.Context()).First(&u, id).Error; err != nil {
		fail(w, r, err)
		return nil, false
	}
	return &u, true
}
