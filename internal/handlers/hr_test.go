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

func TestEmployeeCreate(t *testing.T) {
	db := setupDB(t)
	h := NewEmployeeHandler(db)

	rec := httptest.NewRecorder()
	h.Create(rec, postForm("/employee/add", 1, url.Values{
		"full_name": {"Jane Martin"},
		"email":     {"jane@example.fr"},
		"salary":    {"2500"},
	}))
	assertRedirect(t, rec, "/employees", middleware.FlashSuccess, "employee_added")

	var e models.Employee
	if err := db.First(&e).Error; err != nil {
		t.Fatal(err)
	}
	if !e.IsActive {
		t.Error("new employee should be active")
	}
	if !e.HireDate.Equal(models.Today()) {
		t.Errorf("hire date = %v, want today", e.HireDate)
	}

	rec = httptest.NewRecorder()
	h.Create(rec, postForm("/employee/add", 1, url.Values{"full_name": {"Other"}, "email": {"jane@example.fr"}}))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("duplicate email status = %d, want 422", rec.Code)
	}
}

func TestEmployeeUpdate_Deactivate(t *testing.T) {
	db := setupDB(t)
	e := models.Employee{FullName: "Jane Martin", Email: "jane@example.fr", IsActive: true}
	mustCreate(t, db, &e)

	rec := httptest.NewRecorder()
	NewEmployeeHandler(db).Update(rec, withID(postForm("/employee/edit/1", 1, url.Values{
		"full_name": {"Jane Martin"},
		"email":     {"jane@example.fr"},
	}), e.ID))
	assertRedirect(t, rec, "/employees", middleware.FlashSuccess, "employee_updated")

	var got models.Employee
	db.First(&got, e.ID)
	if got.IsActive {
		t.Error("unchecked is_active should deactivate")
	}
}

func TestLeaveRequest(t *testing.T) {
	db := setupDB(t)
	e := models.Employee{FullName: "Jane Martin", Email: "jane@example.fr", IsActive: true}
	mustCreate(t, db, &e)
	h := NewLeaveHandler(db)

	t.Run("start after end", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Request(rec, postForm("/leaves/request", 1, url.Values{
			"employee_id": {"1"},
			"start_date":  {"2025-06-10"},
			"end_date":    {"2025-06-01"},
		}))
		assertRedirect(t, rec, "/leaves/request", middleware.FlashWarning, "leave_bad_range")
		if n := count(t, db, &models.LeaveRequest{}); n != 0 {
			t.Errorf("leave rows = %d, want 0", n)
		}
	})

	t.Run("missing dates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Request(rec, postForm("/leaves/request", 1, url.Values{"employee_id": {"1"}}))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("unknown employee", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Request(rec, postForm("/leaves/request", 1, url.Values{
			"employee_id": {"7"},
			"start_date":  {"2025-06-01"},
			"end_date":    {"2025-06-02"},
		}))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("valid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Request(rec, postForm("/leaves/request", 1, url.Values{
			"employee_id": {"1"},
			"start_date":  {"2025-06-01"},
			"end_date":    {"2025-06-05"},
			"reason":      {"Holidays"},
		}))
		assertRedirect(t, rec, "/", middleware.FlashSuccess, "leave_requested")
		var l models.LeaveRequest
		if err := db.First(&l).Error; err != nil {
			t.Fatal(err)
		}
		if l.Status != models.LeavePending || l.LeaveType != models.DefaultLeaveType {
			t.Errorf("got status %q type %q", l.Status, l.LeaveType)
		}
		if l.Days() != 5 {
			t.Errorf("days = %d, want 5", l.Days())
		}
	})
}

func TestLeaveUpdateStatus(t *testing.T) {
	db := setupDB(t)
	e := models.Employee{FullName: "Jane Martin", Email: "jane@example.fr", IsActive: true}
	mustCreate(t, db, &e)
	l := models.LeaveRequest{
		EmployeeID: e.ID,
		StartDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}
	mustCreate(t, db, &l)
	h := NewLeaveHandler(db)

	for _, status := range []string{"Pending", "Cancelled", ""} {
		rec := httptest.NewRecorder()
		h.UpdateStatus(rec, withID(postForm("/leaves/1/update_status", 1, url.Values{"status": {status}}), l.ID))
		assertRedirect(t, rec, "/leaves", middleware.FlashWarning, "invalid_status")
	}

	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, withID(postForm("/leaves/1/update_status", 1, url.Values{"status": {"Approved"}}), l.ID))
	assertRedirect(t, rec, "/leaves", middleware.FlashSuccess, "leave_status_updated")

	var got models.LeaveRequest
	db.First(&got, l.ID)
	if got.Status != models.LeaveApproved {
		t.Errorf("status = %q, want Approved", got.Status)
	}
}

func TestCandidateConvert(t *testing.T) {
	db := setupDB(t)
	h := NewCandidateHandler(db)
	rejected := models.Candidate{FullName: "Paul Durand", Email: "paul@example.fr", Status: models.CandidateRejected}
	mustCreate(t, db, &rejected)
	hired := models.Candidate{FullName: "Marie Curie", Email: "marie@example.fr", PositionAppliedFor: "Technicienne", Status: models.CandidateHired}
	mustCreate(t, db, &hired)

	t.Run("not hired", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Convert(rec, withID(get("/candidate/1/convert", 1), rejected.ID))
		assertRedirect(t, rec, "/candidate/1", middleware.FlashWarning, "candidate_not_hired")
		if n := count(t, db, &models.Employee{}); n != 0 {
			t.Errorf("employees = %d, want 0", n)
		}
	})

	t.Run("hired", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Convert(rec, withID(get("/candidate/2/convert", 1), hired.ID))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{`value="Marie Curie"`, `value="marie@example.fr"`, `value="Technicienne"`} {
			if !strings.Contains(body, want) {
				t.Errorf("form misses %s", want)
			}
		}
		if n := count(t, db, &models.Employee{}); n != 0 {
			t.Errorf("convert must not create the employee, got %d", n)
		}
	})
}

func TestCandidateUpdate(t *testing.T) {
	db := setupDB(t)
	c := models.Candidate{FullName: "Paul Durand", Email: "paul@example.fr"}
	mustCreate(t, db, &c)
	h := NewCandidateHandler(db)

	rec := httptest.NewRecorder()
	h.Update(rec, withID(postForm("/candidate/1", 1, url.Values{"status": {"Promoted"}}), c.ID))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown status = %d, want 422", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Update(rec, withID(postForm("/candidate/1", 1, url.Values{"status": {"Interview"}, "notes": {"Good fit"}}), c.ID))
	assertRedirect(t, rec, "/candidate/1", middleware.FlashSuccess, "candidate_updated")
	var got models.Candidate
	db.First(&got, c.ID)
	if got.Status != models.CandidateInterview || got.Notes != "Good fit" {
		t.Errorf("got %q %q", got.Status, got.Notes)
	}
}
