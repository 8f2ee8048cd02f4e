package cart

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Oussama-souissi024/formation-ecommerce/internal/coupon"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/payment"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/product"
)

type testFixture struct {
	service *Service
	repo    *InMemoryRepository
	coupons *coupon.Service
	userID  uuid.UUID
	beans   uuid.UUID
	filters uuid.UUID
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()

	beans := product.Product{ID: uuid.New(), Name: "Espresso Beans", Price: decimal.NewFromInt(10)}
	filters := product.Product{ID: uuid.New(), Name: "Filter Paper", Price: decimal.NewFromInt(5)}
	products := product.NewService(product.NewInMemoryRepository([]product.Product{beans, filters}), nil)

	coupons := coupon.NewService(coupon.NewInMemoryRepository(nil), payment.NewFakeGateway())
	if _, err := coupons.Add(coupon.Coupon{Code: "SAVE10", DiscountAmount: decimal.NewFromInt(10)}); err != nil {
		t.Fatalf("seed coupon: %v", err)
	}

	repo := NewInMemoryRepository()
	repo.SeedProduct(beans.ID, beans.Name, beans.Price)
	repo.SeedProduct(filters.ID, filters.Name, filters.Price)

	return &testFixture{
		service: NewService(repo, coupons, products),
		repo:    repo,
		coupons: coupons,
		userID:  uuid.New(),
		beans:   beans.ID,
		filters: filters.ID,
	}
}

func TestGetWithoutCart(t *testing.T) {
	f := newFixture(t)

	snap, err := f.service.Get(f.userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !snap.Empty() {
		t.Fatalf("expected an empty snapshot, got %+v", snap)
	}
	if !snap.Total.Equal(decimal.Zero) {
		t.Fatalf("total = %s, want 0", snap.Total)
	}
}

func TestUpsertMergesCounts(t *testing.T) {
	f := newFixture(t)

	if _, err := f.service.UpsertItem(f.userID, f.beans, 2); err != nil {
		t.Fatalf("first UpsertItem: %v", err)
	}
	snap, err := f.service.UpsertItem(f.userID, f.beans, 3)
	if err != nil {
		t.Fatalf("second UpsertItem: %v", err)
	}

	if len(snap.Lines) != 1 {
		t.Fatalf("got %d lines, want one merged line", len(snap.Lines))
	}
	if snap.Lines[0].Count != 5 {
		t.Fatalf("count = %d, want 5", snap.Lines[0].Count)
	}
	if !snap.Total.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("total = %s, want 50", snap.Total)
	}
}

func TestUpsertNegativeCountRemovesLine(t *testing.T) {
	f := newFixture(t)

	if _, err := f.service.UpsertItem(f.userID, f.beans, 2); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}
	snap, err := f.service.UpsertItem(f.userID, f.beans, -2)
	if err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}
	if !snap.Empty() {
		t.Fatalf("expected line removal, got %+v", snap.Lines)
	}
}

func TestUpsertUnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.UpsertItem(f.userID, uuid.New(), 1)
	if !errors.Is(err, product.ErrNotFound) {
		t.Fatalf("err = %v, want product.ErrNotFound", err)
	}
}

func TestTotalsWithCoupon(t *testing.T) {
	f := newFixture(t)
	if _, err := f.service.UpsertItem(f.userID, f.beans, 2); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}
	if _, err := f.service.UpsertItem(f.userID, f.filters, 1); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}

	snap, err := f.service.ApplyCoupon(f.userID, "SAVE10")
	if err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}
	if !snap.Subtotal.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("subtotal = %s, want 25", snap.Subtotal)
	}
	if !snap.Discount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("discount = %s, want 10", snap.Discount)
	}
	if !snap.Total.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("total = %s, want 15", snap.Total)
	}

	// a blank code detaches the coupon
	snap, err = f.service.ApplyCoupon(f.userID, "")
	if err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}
	if !snap.Discount.Equal(decimal.Zero) || !snap.Total.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("after detach: discount = %s, total = %s", snap.Discount, snap.Total)
	}
}

func TestTotalClampedAtZero(t *testing.T) {
	f := newFixture(t)
	if _, err := f.service.UpsertItem(f.userID, f.filters, 1); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}

	snap, err := f.service.ApplyCoupon(f.userID, "SAVE10")
	if err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}
	if !snap.Total.Equal(decimal.Zero) {
		t.Fatalf("total = %s, want 0", snap.Total)
	}
}

func TestApplyUnknownCoupon(t *testing.T) {
	f := newFixture(t)
	if _, err := f.service.UpsertItem(f.userID, f.beans, 1); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}

	_, err := f.service.ApplyCoupon(f.userID, "NOPE")
	if !errors.Is(err, ErrUnknownCoupon) {
		t.Fatalf("err = %v, want ErrUnknownCoupon", err)
	}
}

func TestDeletedCouponStopsDiscounting(t *testing.T) {
	f := newFixture(t)
	if _, err := f.service.UpsertItem(f.userID, f.beans, 2); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}
	if _, err := f.service.ApplyCoupon(f.userID, "SAVE10"); err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}

	cp, err := f.coupons.GetByCode("SAVE10")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if err := f.coupons.Delete(cp.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	snap, err := f.service.Get(f.userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !snap.Discount.Equal(decimal.Zero) || !snap.Total.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("discount = %s, total = %s, want 0 and 20", snap.Discount, snap.Total)
	}
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	if _, err := f.service.UpsertItem(f.userID, f.beans, 2); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}

	if err := f.service.Clear(f.userID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	snap, err := f.service.Get(f.userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !snap.Empty() {
		t.Fatalf("cart not cleared: %+v", snap.Lines)
	}
}
