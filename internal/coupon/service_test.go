package coupon

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Oussama-souissi024/formation-ecommerce/internal/payment"
)

func newTestService() (*Service, *InMemoryRepository, *payment.FakeGateway) {
	repo := NewInMemoryRepository(nil)
	gateway := payment.NewFakeGateway()
	return NewService(repo, gateway), repo, gateway
}

func TestAdd(t *testing.T) {
	svc, _, gateway := newTestService()

	cp, err := svc.Add(Coupon{Code: "SAVE10", DiscountAmount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !gateway.HasCoupon("SAVE10") {
		t.Fatal("coupon was not created remotely")
	}

	got, err := svc.GetByCode("SAVE10")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if got.ID != cp.ID || !got.DiscountAmount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("stored coupon = %+v", got)
	}
}

func TestAddRemoteFailureKeepsLocalClean(t *testing.T) {
	svc, _, gateway := newTestService()
	gateway.FailCoupons = true

	_, err := svc.Add(Coupon{Code: "SAVE10", DiscountAmount: decimal.NewFromInt(10)})
	var remote *payment.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %v, want a RemoteError", err)
	}

	if _, err := svc.GetByCode("SAVE10"); !errors.Is(err, ErrNotFound) {
		t.Fatal("a failed remote create must not leave a local row")
	}
}

func TestUpdate(t *testing.T) {
	svc, _, gateway := newTestService()
	cp, err := svc.Add(Coupon{Code: "SAVE10", DiscountAmount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	cp.Code = "SAVE15"
	cp.DiscountAmount = decimal.NewFromInt(15)
	if err := svc.Update(cp); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if gateway.HasCoupon("SAVE10") {
		t.Fatal("old remote coupon should be gone")
	}
	if !gateway.HasCoupon("SAVE15") {
		t.Fatal("new remote coupon is missing")
	}
	got, err := svc.GetByCode("SAVE15")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if !got.DiscountAmount.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("discount = %s, want 15", got.DiscountAmount)
	}
}

func TestUpdateAbortsWhenRemoteDeleteFails(t *testing.T) {
	svc, _, gateway := newTestService()
	cp, err := svc.Add(Coupon{Code: "SAVE10", DiscountAmount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	gateway.FailDeletes = true

	cp.DiscountAmount = decimal.NewFromInt(15)
	if err := svc.Update(cp); err == nil {
		t.Fatal("expected error when the remote delete fails")
	}

	// nothing changed on either side
	if !gateway.HasCoupon("SAVE10") {
		t.Fatal("remote coupon should still exist")
	}
	got, _ := svc.GetByCode("SAVE10")
	if !got.DiscountAmount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("local discount = %s, want unchanged 10", got.DiscountAmount)
	}
}

func TestUpdateRecreateFailureLeavesRemoteGone(t *testing.T) {
	svc, _, gateway := newTestService()
	cp, err := svc.Add(Coupon{Code: "SAVE10", DiscountAmount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	gateway.FailCoupons = true

	cp.DiscountAmount = decimal.NewFromInt(15)
	err = svc.Update(cp)
	var remote *payment.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %v, want a RemoteError", err)
	}

	// the delete went through before the recreate failed: the remote
	// coupon is gone while the local row keeps its old values, and the
	// caller is expected to re-add
	if gateway.HasCoupon("SAVE10") {
		t.Fatal("remote coupon should have been deleted")
	}
	got, err := svc.GetByCode("SAVE10")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if !got.DiscountAmount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("local discount = %s, want unchanged 10", got.DiscountAmount)
	}
}

func TestDelete(t *testing.T) {
	svc, _, gateway := newTestService()
	cp, err := svc.Add(Coupon{Code: "SAVE10", DiscountAmount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := svc.Delete(cp.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gateway.HasCoupon("SAVE10") {
		t.Fatal("remote coupon should be gone")
	}
	if _, err := svc.GetByCode("SAVE10"); !errors.Is(err, ErrNotFound) {
		t.Fatal("local coupon should be gone")
	}
}

func TestDeleteAbortsWhenRemoteFails(t *testing.T) {
	svc, _, gateway := newTestService()
	cp, err := svc.Add(Coupon{Code: "SAVE10", DiscountAmount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	gateway.FailDeletes = true

	if err := svc.Delete(cp.ID); err == nil {
		t.Fatal("expected error when the remote delete fails")
	}
	if _, err := svc.GetByCode("SAVE10"); err != nil {
		t.Fatal("local coupon must survive a failed remote delete")
	}
}
