package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/models"
)

func TestClientCreate_Defaults(t *testing.T) {
	db := setupDB(t)
	h := NewClientHandler(db)

	before := time.Now().Add(-time.Second)
	rec := httptest.NewRecorder()
	h.Create(rec, postForm("/client/add", 1, url.Values{"name": {"Acme"}, "email": {"contact@acme.fr"}}))
	assertRedirect(t, rec, "/clients", middleware.FlashSuccess, "client_added")

	var c models.Client
	if err := db.Where("name = ?", "Acme").First(&c).Error; err != nil {
		t.Fatal(err)
	}
	if c.Status != models.ClientProspect {
		t.Errorf("status = %q, want Prospect", c.Status)
	}
	if c.LastContact.Before(before) {
		t.Errorf("last contact %v not set at creation", c.LastContact)
	}
}

func TestClientCreate_Invalid(t *testing.T) {
	db := setupDB(t)
	h := NewClientHandler(db)

	cases := []struct {
		name string
		form url.Values
	}{
		{"missing name", url.Values{"email": {"a@b.fr"}}},
		{"bad email", url.Values{"name": {"Acme"}, "email": {"not-an-email"}}},
		{"unknown status", url.Values{"name": {"Acme"}, "status": {"Sleeping"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Create(rec, postForm("/client/add", 1, tc.form))
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", rec.Code)
			}
		})
	}
	if n := count(t, db, &models.Client{}); n != 0 {
		t.Errorf("clients = %d, want 0", n)
	}
}

func TestClientList_Search(t *testing.T) {
	db := setupDB(t)
	mustCreate(t, db, &models.Client{Name: "Acme", Company: "Acme SARL"})
	mustCreate(t, db, &models.Client{Name: "Dupont", Company: "Boulangerie"})

	rec := httptest.NewRecorder()
	NewClientHandler(db).List(rec, get("/clients?q=boulang", 1))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Dupont") || strings.Contains(body, ">Acme<") {
		t.Errorf("search did not filter: %s", body)
	}
}

func TestClientUpdate_TouchesLastContact(t *testing.T) {
	db := setupDB(t)
	old := time.Now().AddDate(0, -6, 0)
	c := models.Client{Name: "Acme", LastContact: old}
	mustCreate(t, db, &c)

	rec := httptest.NewRecorder()
	h := NewClientHandler(db)
	h.Update(rec, withID(postForm("/client/edit/1", 1, url.Values{"name": {"Acme Group"}, "status": {"Active"}}), c.ID))
	assertRedirect(t, rec, "/client/1", middleware.FlashSuccess, "client_updated")

	var got models.Client
	db.First(&got, c.ID)
	if got.Name != "Acme Group" || got.Status != models.ClientActive {
		t.Errorf("got %+v", got)
	}
	if !got.LastContact.After(old) {
		t.Errorf("last contact not refreshed: %v", got.LastContact)
	}
}

func TestClientDelete_RemovesQuotes(t *testing.T) {
	db := setupDB(t)
	c := models.Client{Name: "Acme"}
	mustCreate(t, db, &c)
	other := models.Client{Name: "Other"}
	mustCreate(t, db, &other)
	mustCreate(t, db, &models.Quote{QuoteNumber: "DEV-2025-0001", ClientID: c.ID, ServiceType: "Audit", Price: 100, VATRate: 0.2})
	mustCreate(t, db, &models.Quote{QuoteNumber: "DEV-2025-0002", ClientID: other.ID, ServiceType: "Audit", Price: 100, VATRate: 0.2})
	mustCreate(t, db, &models.Equipment{Name: "Pump", SerialNumber: "SN-1", ClientID: &c.ID})

	rec := httptest.NewRecorder()
	NewClientHandler(db).Delete(rec, withID(postForm("/client/delete/1", 1, nil), c.ID))
	assertRedirect(t, rec, "/clients", middleware.FlashSuccess, "client_deleted")

	if n := count(t, db, &models.Client{}); n != 1 {
		t.Errorf("clients = %d, want 1", n)
	}
	var quotes []models.Quote
	db.Find(&quotes)
	if len(quotes) != 1 || quotes[0].ClientID != other.ID {
		t.Errorf("remaining quotes = %+v", quotes)
	}
	var e models.Equipment
	db.First(&e)
	if e.ClientID != nil {
		t.Errorf("equipment still linked to client %d", *e.ClientID)
	}
}

func TestClientDelete_BlockedByChantier(t *testing.T) {
	db := setupDB(t)
	c := models.Client{Name: "Acme"}
	mustCreate(t, db, &c)
	mustCreate(t, db, &models.Chantier{Name: "Roof", ClientID: c.ID})

	rec := httptest.NewRecorder()
	NewClientHandler(db).Delete(rec, withID(postForm("/client/delete/1", 1, nil), c.ID))
	assertRedirect(t, rec, "/client/1", middleware.FlashWarning, "client_has_dependents")
	if n := count(t, db, &models.Client{}); n != 1 {
		t.Errorf("client deleted despite chantier")
	}
}

func TestClientShow_NotFound(t *testing.T) {
	db := setupDB(t)
	rec := httptest.NewRecorder()
	NewClientHandler(db).Show(rec, withID(get("/client/42", 1), 42))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestClientExport(t *testing.T) {
	db := setupDB(t)
	mustCreate(t, db, &models.Client{Name: "Acme"})
	rec := httptest.NewRecorder()
	NewClientHandler(db).Export(rec, get("/clients/export.xlsx", 1))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "PK") {
		t.Error("body is not a zip container")
	}
}
