package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func fixedNumbering(year int) *Numbering {
	return &Numbering{now: func() time.Time { return time.Date(year, 3, 1, 0, 0, 0, 0, time.UTC) }}
}

func TestNumberingSequential(t *testing.T) {
	db := setupDB(t)
	n := fixedNumbering(2025)
	var got []string
	for i := 0; i < 3; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			num, err := n.Next(tx, QuoteNumbers)
			got = append(got, num)
			return err
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"DEV-2025-0001", "DEV-2025-0002", "DEV-2025-0003"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("number %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNumberingSeedsFromMaxID(t *testing.T) {
	db := setupDB(t)
	c := models.Client{Name: "Acme"}
	db.Create(&c)
	for i := 1; i <= 4; i++ {
		db.Create(&models.Quote{QuoteNumber: fmt.Sprintf("LEGACY-%d", i), ClientID: c.ID, ServiceType: "x"})
	}
	num, err := fixedNumbering(2024).Next(db, QuoteNumbers)
	if err != nil {
		t.Fatal(err)
	}
	if num != "DEV-2024-0005" {
		t.Fatalf("got %q, want DEV-2024-0005", num)
	}
}

func TestNumberingRollbackDiscards(t *testing.T) {
	db := setupDB(t)
	n := fixedNumbering(2025)
	boom := errors.New("boom")
	_ = db.Transaction(func(tx *gorm.DB) error {
		if _, err := n.Next(tx, TicketNumbers); err != nil {
			return err
		}
		return boom
	})
	num, err := n.Next(db, TicketNumbers)
	if err != nil {
		t.Fatal(err)
	}
	if num != "TICKET-2025-0001" {
		t.Fatalf("got %q", num)
	}
}

func TestNumberingKindsAreIndependent(t *testing.T) {
	db := setupDB(t)
	n := fixedNumbering(2025)
	q, _ := n.Next(db, QuoteNumbers)
	f, _ := n.Next(db, FactureNumbers)
	if q != "DEV-2025-0001" || f != "FACT-2025-0001" {
		t.Fatalf("got %q and %q", q, f)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber("FACT", 2025, 12345); got != "FACT-2025-12345" {
		t.Fatalf("got %q", got)
	}
}

func seedSweepData(t *testing.T, db *gorm.DB, now time.Time) {
	t.Helper()
	soon := now.Add(10 * 24 * time.Hour)
	later := now.Add(90 * 24 * time.Hour)
	mustCreate(t, db, &models.Equipment{Name: "Pump", Brand: "Grundfos", SerialNumber: "SN-1", NextMaintenance: &soon})
	mustCreate(t, db, &models.Equipment{Name: "Boiler", Brand: "Viessmann", SerialNumber: "SN-2", NextMaintenance: &later})
	mustCreate(t, db, &models.Equipment{Name: "Drill", Brand: "Bosch", SerialNumber: "SN-3"})

	acme := models.Client{Name: "Acme", Status: models.ClientActive, LastContact: now}
	mustCreate(t, db, &acme)
	old := models.Client{Name: "Dormant", LastContact: now.Add(-45 * 24 * time.Hour)}
	mustCreate(t, db, &old)
	mustCreate(t, db, &models.Client{Name: "Fresh", LastContact: now.Add(-2 * 24 * time.Hour)})

	mustCreate(t, db, &models.Quote{QuoteNumber: "DEV-1", ClientID: acme.ID, ServiceType: "Audit", Price: 100, VATRate: 0.2,
		CreatedAt: now.Add(-25 * 24 * time.Hour)})
	mustCreate(t, db, &models.Quote{QuoteNumber: "DEV-2", ClientID: acme.ID, ServiceType: "Audit", Price: 100, VATRate: 0.2,
		CreatedAt: now})
	mustCreate(t, db, &models.Quote{QuoteNumber: "DEV-3", ClientID: acme.ID, ServiceType: "Audit", Status: models.QuoteAccepted,
		CreatedAt: now.Add(-29 * 24 * time.Hour)})
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

func TestSweepRules(t *testing.T) {
	db := setupDB(t)
	now := time.Now()
	seedSweepData(t, db, now)

	var observed int
	svc := NewAlertService(db, func(n int) { observed = n })
	alerts, err := svc.Sweep(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}

	var msgs []string
	for _, a := range alerts {
		msgs = append(msgs, a.Category+":"+a.Message)
	}
	sort.Strings(msgs)
	want := []string{
		"Client:Follow up with Dormant",
		"Maintenance:Maintenance for Pump (Grundfos)",
		"Quote:Quote #DEV-1 for Acme expires soon",
	}
	if fmt.Sprint(msgs) != fmt.Sprint(want) {
		t.Fatalf("alerts = %v, want %v", msgs, want)
	}
	if observed != 3 {
		t.Errorf("observer got %d", observed)
	}
}

func TestSweepIdempotent(t *testing.T) {
	db := setupDB(t)
	now := time.Now()
	seedSweepData(t, db, now)
	svc := NewAlertService(db, nil)

	snapshot := func() []string {
		active, err := svc.Active(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		var out []string
		for _, a := range active {
			out = append(out, fmt.Sprintf("%s|%s|%d|%s", a.Category, a.Message, a.RelatedID, a.DueDate.Format(time.RFC3339)))
		}
		return out
	}

	if _, err := svc.Sweep(context.Background(), now); err != nil {
		t.Fatal(err)
	}
	first := snapshot()
	if _, err := svc.Sweep(context.Background(), now); err != nil {
		t.Fatal(err)
	}
	second := snapshot()
	if fmt.Sprint(first) != fmt.Sprint(second) {
		t.Fatalf("sweep not idempotent:\n%v\n%v", first, second)
	}
	var count int64
	db.Model(&models.Alert{}).Count(&count)
	if count != int64(len(first)) {
		t.Fatalf("stale alerts kept: %d rows for %d alerts", count, len(first))
	}
}

func TestSweepClearsResolvedAlerts(t *testing.T) {
	db := setupDB(t)
	now := time.Now()
	seedSweepData(t, db, now)
	svc := NewAlertService(db, nil)
	if _, err := svc.Sweep(context.Background(), now); err != nil {
		t.Fatal(err)
	}
	db.Model(&models.Quote{}).Where("quote_number = ?", "DEV-1").Update("status", models.QuoteAccepted)
	alerts, err := svc.Sweep(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range alerts {
		if a.Category == models.AlertQuote {
			t.Fatalf("accepted quote still alerted: %s", a.Message)
		}
	}
}

func TestCheckDateRange(t *testing.T) {
	d1 := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 3)
	if err := CheckDateRange(d1, d2); err != nil {
		t.Fatal(err)
	}
	if err := CheckDateRange(d1, d1); err != nil {
		t.Fatal("same-day range must be accepted")
	}
	if err := CheckDateRange(d2, d1); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("got %v", err)
	}
}

func TestDecisions(t *testing.T) {
	tests := []struct {
		status string
		leave  bool
		quote  bool
	}{
		{models.LeaveApproved, true, false},
		{models.LeaveRejected, true, true},
		{models.LeavePending, false, false},
		{models.QuoteAccepted, false, true},
		{"Bogus", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := CheckLeaveDecision(tt.status) == nil; got != tt.leave {
				t.Errorf("leave ok = %v, want %v", got, tt.leave)
			}
			if got := CheckQuoteDecision(tt.status) == nil; got != tt.quote {
				t.Errorf("quote ok = %v, want %v", got, tt.quote)
			}
		})
	}
}

func TestEmployeeFromCandidate(t *testing.T) {
	c := models.Candidate{FullName: "Jane Roe", Email: "jane@example.com", Phone: "0600", PositionAppliedFor: "Welder", Status: models.CandidateInterview}
	if _, err := EmployeeFromCandidate(&c); !errors.Is(err, ErrNotHired) {
		t.Fatalf("expected ErrNotHired, got %v", err)
	}
	c.Status = models.CandidateHired
	e, err := EmployeeFromCandidate(&c)
	if err != nil {
		t.Fatal(err)
	}
	if e.FullName != c.FullName || e.Email != c.Email || e.Phone != c.Phone || e.Position != "Welder" {
		t.Fatalf("unexpected prefill %+v", e)
	}
	if e.Salary != nil || !e.HireDate.IsZero() {
		t.Fatalf("salary and hire date must stay empty")
	}
}
