package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dbm "estatehub/internal/models/db_models"
	"estatehub/pkg/utils"
)

func TestSavedListingsAddIsIdempotent(t *testing.T) {
	buyer := &dbm.Account{Kind: "user", Email: "buyer@example.com"}
	listing := fixtureListing("A", "sale", "lusaka", "Lusaka", 2)
	accounts := newFakeAccountRepo(buyer)
	svc := NewSavedListingService(accounts, newFakeListingRepo(listing), zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ids, err := svc.Add(ctx, buyer.ID, listing.ID)
		if err != nil {
			t.Fatalf("Add #%d: %v", i+1, err)
		}
		if !reflect.DeepEqual(ids, []string{listing.ID.String()}) {
			t.Fatalf("Add #%d ids = %v", i+1, ids)
		}
	}

	if _, err := svc.Add(ctx, buyer.ID, uuid.New()); !errors.Is(err, utils.ErrListingNotFound) {
		t.Fatalf("Add unknown listing err = %v, want ErrListingNotFound", err)
	}
}

func TestSavedListingsRemoveIsIdempotent(t *testing.T) {
	a := fixtureListing("A", "sale", "lusaka", "Lusaka", 2)
	b := fixtureListing("B", "rent", "copperbelt", "Ndola", 1)
	buyer := &dbm.Account{Kind: "user", Email: "buyer@example.com"}
	buyer.SavedListingIDs = []string{a.ID.String(), b.ID.String()}
	svc := NewSavedListingService(newFakeAccountRepo(buyer), newFakeListingRepo(a, b), zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ids, err := svc.Remove(ctx, buyer.ID, a.ID)
		if err != nil {
			t.Fatalf("Remove #%d: %v", i+1, err)
		}
		if !reflect.DeepEqual(ids, []string{b.ID.String()}) {
			t.Fatalf("Remove #%d ids = %v", i+1, ids)
		}
	}
}

func TestSavedListingsListKeepsOrderAndSkipsDangling(t *testing.T) {
	a := fixtureListing("A", "sale", "lusaka", "Lusaka", 2)
	b := fixtureListing("B", "rent", "copperbelt", "Ndola", 1)
	buyer := &dbm.Account{Kind: "user", Email: "buyer@example.com"}
	buyer.SavedListingIDs = []string{b.ID.String(), uuid.NewString(), "not-a-uuid", a.ID.String()}
	svc := NewSavedListingService(newFakeAccountRepo(buyer), newFakeListingRepo(a, b), zap.NewNop())

	got, err := svc.List(context.Background(), buyer.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != b.ID || got[1].ID != a.ID {
		t.Fatalf("List = %+v, want [B A]", got)
	}
}
