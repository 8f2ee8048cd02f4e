package product

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
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

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"productId", "productName", "productDesc", "productPrice",
		"categoryName", "imageUrl", "createdAt", "updatedAt",
	})
}

func TestPostgresGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM products WHERE").
		WithArgs(id).
		WillReturnRows(productRows().
			AddRow(id.String(), "Espresso Beans", "dark roast", "12.50", "Coffee", "", "", ""))

	p, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.ID != id || p.Name != "Espresso Beans" {
		t.Fatalf("got product %+v", p)
	}
	if !p.Price.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("price = %s, want 12.50", p.Price)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM products WHERE").
		WithArgs(id).
		WillReturnRows(productRows())

	_, err := repo.GetByID(id)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPostgresListByIDs(t *testing.T) {
	repo, mock := newMockRepo(t)
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(pq.Array([]string{first.String(), second.String()})).
		WillReturnRows(productRows().
			AddRow(first.String(), "Espresso Beans", "", "10.00", "", "", "", "").
			AddRow(second.String(), "Filter Paper", "", "5.00", "", "", "", ""))

	products, err := repo.ListByIDs([]uuid.UUID{first, second})
	if err != nil {
		t.Fatalf("ListByIDs: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	if products[0].ID != first || products[1].ID != second {
		t.Fatal("result order does not follow the requested ids")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresListByIDsEmpty(t *testing.T) {
	repo, _ := newMockRepo(t)

	products, err := repo.ListByIDs(nil)
	if err != nil {
		t.Fatalf("ListByIDs: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("got %d products, want none without a query", len(products))
	}
}

func TestPostgresDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM products").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
