package order

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func headerRow(id, userID uuid.UUID, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"orderHeaderId", "userId", "couponCode", "discount", "orderTotal",
		"name", "phone", "email", "orderTime", "status", "paymentIntentId", "sessionId",
	}).AddRow(id.String(), userID.String(), "SAVE10", "10.00", "15.00",
		"Marie Dupont", "0600000001", "marie@example.com", "2026-08-01T10:00:00Z", status, "", "cs_test_1")
}

func TestPostgresGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	id, userID := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM order_headers WHERE").
		WithArgs(id).
		WillReturnRows(headerRow(id, userID, "Pending"))

	h, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if h.ID != id || h.UserID != userID {
		t.Fatalf("got header %+v", h)
	}
	if h.Status != StatusPending {
		t.Fatalf("status = %q, want Pending", h.Status)
	}
	if !h.OrderTotal.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("orderTotal = %s", h.OrderTotal)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM order_headers WHERE").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"orderHeaderId"}))

	_, err := repo.GetByID(id)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPostgresGetByIDWithDetails(t *testing.T) {
	repo, mock := newMockRepo(t)
	id, userID, productID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM order_headers WHERE").
		WithArgs(id).
		WillReturnRows(headerRow(id, userID, "Approved"))
	mock.ExpectQuery("SELECT (.+) FROM order_details").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"orderDetailsId", "orderHeaderId", "productId", "price", "count", "productName", "imageUrl",
		}).AddRow(uuid.NewString(), id.String(), productID.String(), "10.00", 2, "Espresso Beans", ""))

	h, err := repo.GetByIDWithDetails(id)
	if err != nil {
		t.Fatalf("GetByIDWithDetails: %v", err)
	}
	if len(h.Details) != 1 {
		t.Fatalf("got %d details, want 1", len(h.Details))
	}
	d := h.Details[0]
	if d.ProductID != productID || d.Count != 2 || d.ProductName != "Espresso Beans" {
		t.Fatalf("detail = %+v", d)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresUpdateStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE order_headers SET status").
		WithArgs("Completed", id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus(id, StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresUpdateStatusNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE order_headers SET status").
		WithArgs("Completed", id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateStatus(id, StatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPostgresRecordPaymentOutcome(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE order_headers").
		WithArgs("Approved", "pi_test_1", id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordPaymentOutcome(id, StatusApproved, "pi_test_1"); err != nil {
		t.Fatalf("RecordPaymentOutcome: %v", err)
	}

	// the empty intent id still goes through; COALESCE keeps the stored one
	mock.ExpectExec("UPDATE order_headers").
		WithArgs("PaymentFailed", "", id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordPaymentOutcome(id, StatusPaymentFailed, ""); err != nil {
		t.Fatalf("RecordPaymentOutcome: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
