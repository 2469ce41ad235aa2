package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/diewo77/go-backoffice/internal/auth"
	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/models"
)

type recordingInvalidator struct {
	ids []uint
}

func (r *recordingInvalidator) InvalidateUser(id uint) { r.ids = append(r.ids, id) }

func seedUser(t *testing.T, h *UserHandler, username, password, role string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	u := models.User{Username: username, PasswordHash: hash, Role: role}
	mustCreate(t, h.db, &u)
	return u
}

func TestUserCreate(t *testing.T) {
	db := setupDB(t)
	h := NewUserHandler(db, nil)
	seedUser(t, h, "admin", "admin", models.RoleCEO)

	cases := []struct {
		name string
		form url.Values
	}{
		{"missing password", url.Values{"username": {"bob"}, "role": {"RH"}}},
		{"unknown role", url.Values{"username": {"bob"}, "role": {"Boss"}, "password": {"secret"}}},
		{"taken username", url.Values{"username": {"admin"}, "role": {"RH"}, "password": {"secret"}}},
		{"short password", url.Values{"username": {"bob"}, "role": {"RH"}, "password": {"abc"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Create(rec, postForm("/users/add", 1, tc.form))
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", rec.Code)
			}
		})
	}

	rec := httptest.NewRecorder()
	h.Create(rec, postForm("/users/add", 1, url.Values{"username": {"bob"}, "role": {"RH"}, "password": {"secret"}}))
	assertRedirect(t, rec, "/users", middleware.FlashSuccess, "user_added")
	var bob models.User
	if err := db.Where("username = ?", "bob").First(&bob).Error; err != nil {
		t.Fatal(err)
	}
	if bob.Role != models.RoleRH || !auth.CheckPassword(bob.PasswordHash, "secret") {
		t.Errorf("bob = %+v", bob)
	}
}

func TestUserUpdate(t *testing.T) {
	db := setupDB(t)
	inv := &recordingInvalidator{}
	h := NewUserHandler(db, inv)
	ceo := seedUser(t, h, "admin", "admin", models.RoleCEO)
	bob := seedUser(t, h, "bob", "secret", models.RoleEmploye)

	t.Run("ceo keeps role", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Update(rec, withID(postForm("/user/edit/1", ceo.ID, url.Values{"username": {"admin"}, "role": {"RH"}}), ceo.ID))
		assertRedirect(t, rec, "/users", middleware.FlashWarning, "ceo_protected")
		var got models.User
		db.First(&got, ceo.ID)
		if got.Role != models.RoleCEO {
			t.Errorf("role = %q", got.Role)
		}
	})

	t.Run("empty password keeps hash", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Update(rec, withID(postForm("/user/edit/2", ceo.ID, url.Values{"username": {"bob"}, "role": {"Comptable"}}), bob.ID))
		assertRedirect(t, rec, "/users", middleware.FlashSuccess, "user_updated")
		var got models.User
		db.First(&got, bob.ID)
		if got.Role != models.RoleComptable || !auth.CheckPassword(got.PasswordHash, "secret") {
			t.Errorf("got role %q, password kept %v", got.Role, auth.CheckPassword(got.PasswordHash, "secret"))
		}
		if len(inv.ids) != 1 || inv.ids[0] != bob.ID {
			t.Errorf("invalidated = %v", inv.ids)
		}
	})
}

func TestUserDelete(t *testing.T) {
	db := setupDB(t)
	h := NewUserHandler(db, nil)
	ceo := seedUser(t, h, "admin", "admin", models.RoleCEO)
	owner := seedUser(t, h, "tech", "secret", models.RoleTechnicien)
	plain := seedUser(t, h, "bob", "secret", models.RoleEmploye)
	mustCreate(t, db, &models.Document{Name: "Plans", URL: "https://example.com", UserID: owner.ID})

	cases := []struct {
		name     string
		id       uint
		category string
		code     string
	}{
		{"ceo", ceo.ID, middleware.FlashWarning, "ceo_protected"},
		{"document owner", owner.ID, middleware.FlashWarning, "user_has_documents"},
		{"plain", plain.ID, middleware.FlashSuccess, "user_deleted"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Delete(rec, withID(postForm("/user/delete", ceo.ID, nil), tc.id))
			assertRedirect(t, rec, "/users", tc.category, tc.code)
		})
	}
	if n := count(t, db, &models.User{}); n != 2 {
		t.Errorf("users = %d, want 2", n)
	}
}
