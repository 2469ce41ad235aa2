package models

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupModelsDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestQuote_TotalPrice(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		vatRate float64
		want    float64
	}{
		{"20% VAT on 100", 100, 0.20, 120},
		{"10% VAT on 50", 50, 0.10, 55},
		{"0% VAT", 100, 0, 100},
		{"5.5% VAT", 100, 0.055, 105.5},
		{"rounded to cents", 19.99, 0.20, 23.99},
		{"no price", 0, 0.20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Quote{Price: tt.price, VATRate: tt.vatRate}
			if got := q.TotalPrice(); got != tt.want {
				t.Errorf("TotalPrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuote_VATAmount(t *testing.T) {
	q := &Quote{Price: 100, VATRate: 0.20}
	if got := q.VATAmount(); got != 20 {
		t.Errorf("VATAmount() = %v, want 20", got)
	}
}

func TestClient_CreateDefaults(t *testing.T) {
	db := setupModelsDB(t)
	before := time.Now()
	c := Client{Name: "Acme"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	var got Client
	if err := db.First(&got, c.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != ClientProspect {
		t.Errorf("Status = %q, want %q", got.Status, ClientProspect)
	}
	if got.LastContact.Before(before.Add(-time.Second)) || got.LastContact.After(time.Now().Add(time.Second)) {
		t.Errorf("LastContact = %v, want creation time", got.LastContact)
	}
}

func TestQuote_CreateDefaults(t *testing.T) {
	db := setupModelsDB(t)
	c := Client{Name: "Acme"}
	db.Create(&c)
	q := Quote{QuoteNumber: "DEV-2024-0001", ClientID: c.ID, ServiceType: "Audit", Price: 100, VATRate: 0.2}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if q.Status != QuotePending {
		t.Errorf("Status = %q, want Pending", q.Status)
	}
	if want := q.CreatedAt.Add(30 * 24 * time.Hour); !q.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", q.ExpiresAt, want)
	}
}

func TestQuote_ExplicitExpiryKept(t *testing.T) {
	db := setupModelsDB(t)
	c := Client{Name: "Acme"}
	db.Create(&c)
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	q := Quote{QuoteNumber: "DEV-2024-0002", ClientID: c.ID, ServiceType: "Audit", ExpiresAt: exp}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if !q.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", q.ExpiresAt, exp)
	}
}

func TestEquipment_DefaultStatus(t *testing.T) {
	db := setupModelsDB(t)
	e := Equipment{Name: "Boiler", SerialNumber: "SN-1"}
	if err := db.Create(&e).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.Status != EquipmentInService {
		t.Errorf("Status = %q, want %q", e.Status, EquipmentInService)
	}
}

func TestLeaveRequest_Defaults(t *testing.T) {
	db := setupModelsDB(t)
	emp := Employee{FullName: "Jane Doe", Email: "jane@example.com", IsActive: true}
	if err := db.Create(&emp).Error; err != nil {
		t.Fatalf("employee: %v", err)
	}
	if emp.HireDate.IsZero() {
		t.Errorf("HireDate not defaulted")
	}
	start := Today()
	l := LeaveRequest{EmployeeID: emp.ID, StartDate: start, EndDate: start.AddDate(0, 0, 4)}
	if err := db.Create(&l).Error; err != nil {
		t.Fatalf("leave: %v", err)
	}
	if l.LeaveType != DefaultLeaveType || l.Status != LeavePending || l.RequestedAt.IsZero() {
		t.Errorf("unexpected defaults: %+v", l)
	}
	if got := l.Days(); got != 5 {
		t.Errorf("Days() = %d, want 5", got)
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range Roles {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%q) = false", r)
		}
	}
	if ValidRole("admin") {
		t.Errorf("ValidRole(admin) = true, want false")
	}
}

func TestValidCandidateStatus(t *testing.T) {
	if !ValidCandidateStatus(CandidateHired) {
		t.Errorf("Hired should be valid")
	}
	if ValidCandidateStatus("Fired") {
		t.Errorf("Fired should be invalid")
	}
}
