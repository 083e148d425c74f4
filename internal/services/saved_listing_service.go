package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dbm "estatehub/internal/models/db_models"
	resp "estatehub/internal/models/response_models"
	"estatehub/internal/repositories"
	"estatehub/pkg/utils"
)

// SavedListingServiceInterface manages an account's bookmarked listings.
// Add and Remove are idempotent and return the list as persisted.
type SavedListingServiceInterface interface {
	List(ctx context.Context, accountID uuid.UUID) ([]resp.ListingResponse, error)
	Add(ctx context.Context, accountID, listingID uuid.UUID) ([]string, error)
	Remove(ctx context.Context, accountID, listingID uuid.UUID) ([]string, error)
}

type SavedListingService struct {
	accountRepo repositories.AccountRepository
	listingRepo repositories.ListingRepository
	log         *zap.Logger
}

func NewSavedListingService(accountRepo repositories.AccountRepository, listingRepo repositories.ListingRepository, log *zap.Logger) SavedListingServiceInterface {
	return &SavedListingService{accountRepo: accountRepo, listingRepo: listingRepo, log: log}
}

func (s *SavedListingService) account(ctx context.Context, id uuid.UUID) (*dbm.Account, error) {
	account, err := s.accountRepo.FindById(ctx, id)
	if err != nil {
		s.log.Error("load account for saved listings", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return account, nil
}

func (s *SavedListingService) List(ctx context.Context, accountID uuid.UUID) ([]resp.ListingResponse, error) {
	account, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(account.SavedListingIDs))
	for _, raw := range account.SavedListingIDs {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}

	rows, err := s.listingRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.log.Error("resolve saved listings", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	byID := make(map[uuid.UUID]*dbm.Listing, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	out := make([]resp.ListingResponse, 0, len(ids))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			out = append(out, toListingResponse(l))
		}
	}
	return out, nil
}

func (s *SavedListingService) Add(ctx context.Context, accountID, listingID uuid.UUID) ([]string, error) {
	account, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}

	saved := append([]string(nil), account.SavedListingIDs...)
	raw := listingID.String()
	for _, id := range saved {
		if id == raw {
			return nonNil(saved), nil
		}
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		s.log.Error("load listing to save", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if listing == nil {
		return nil, utils.ErrListingNotFound
	}

	saved = append(saved, raw)
	if err := s.accountRepo.SetSavedListings(ctx, accountID, saved); err != nil {
		s.log.Error("persist saved listings", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return saved, nil
}

func (s *SavedListingService) Remove(ctx context.Context, accountID, listingID uuid.UUID) ([]string, error) {
	account, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}

	raw := listingID.String()
	saved := make([]string, 0, len(account.SavedListingIDs))
	found := false
	for _, id := range account.SavedListingIDs {
		if id == raw {
			found = true
			continue
		}
		saved = append(saved, id)
	}
	if !found {
		return saved, nil
	}

	if err := s.accountRepo.SetSavedListings(ctx, accountID, saved); err != nil {
		s.log.Error("persist saved listings", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return saved, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
