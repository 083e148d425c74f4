package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dbm "estatehub/internal/models/db_models"
	resp "estatehub/internal/models/response_models"
	"estatehub/internal/repositories"
	"estatehub/pkg/utils"
)

type Package struct {
	ID               string
	Tier             int
	Name             string
	Price            float64
	Currency         string
	ListingsPerMonth int
	Features         []string
}

const DefaultPackageID = "free"

var catalog = []Package{
	{
		ID: "free", Tier: 0, Name: "Free", Price: 0, Currency: "ZMW", ListingsPerMonth: 1,
		Features: []string{"1 listing per month", "Up to 10 photos per listing", "Basic listing page"},
	},
	{
		ID: "basic", Tier: 1, Name: "Basic", Price: 250, Currency: "ZMW", ListingsPerMonth: 5,
		Features: []string{"5 listings per month", "Printable brochures", "Inquiry notifications by email"},
	},
	{
		ID: "standard", Tier: 2, Name: "Standard", Price: 600, Currency: "ZMW", ListingsPerMonth: 15,
		Features: []string{"15 listings per month", "Printable brochures", "Inquiry notifications by email", "Performance dashboard"},
	},
	{
		ID: "premium", Tier: 3, Name: "Premium", Price: 1500, Currency: "ZMW", ListingsPerMonth: 50,
		Features: []string{"50 listings per month", "Printable brochures", "Inquiry notifications by email", "Performance dashboard", "Agency profile page"},
	},
}

func FindPackage(id string) (Package, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// NewSnapshot starts a fresh period on p.
func NewSnapshot(p Package, now time.Time) dbm.SubscriptionSnapshot {
	return dbm.SubscriptionSnapshot{
		PackageID:     p.ID,
		PlanName:      p.Name,
		ListingsUsed:  0,
		ListingsTotal: p.ListingsPerMonth,
		Status:        dbm.SubStatusActive,
		PeriodStart:   now.Unix(),
	}
}

type SubscriptionServiceInterface interface {
	ListPackages() []resp.PackageResponse
	SelectPackage(ctx context.Context, accountID uuid.UUID, packageID string) (*resp.SubscriptionResponse, error)
	Current(ctx context.Context, accountID uuid.UUID) (*resp.SubscriptionResponse, error)
	// ConsumeListingSlot takes one slot of the current period or fails with
	// ErrListingQuotaExceeded.
	ConsumeListingSlot(ctx context.Context, accountID uuid.UUID) error
	ReleaseListingSlot(ctx context.Context, accountID uuid.UUID)
}

type SubscriptionService struct {
	accountRepo repositories.AccountRepository
	log         *zap.Logger
	now         func() time.Time
}

func NewSubscriptionService(accountRepo repositories.AccountRepository, log *zap.Logger) SubscriptionServiceInterface {
	return &SubscriptionService{accountRepo: accountRepo, log: log, now: time.Now}
}

func (s *SubscriptionService) ListPackages() []resp.PackageResponse {
	out := make([]resp.PackageResponse, 0, len(catalog))
	for _, p := range catalog {
		out = append(out, resp.PackageResponse{
			ID:               p.ID,
			Tier:             p.Tier,
			Name:             p.Name,
			Price:            p.Price,
			Currency:         p.Currency,
			ListingsPerMonth: p.ListingsPerMonth,
			Features:         append([]string(nil), p.Features...),
		})
	}
	return out
}

func (s *SubscriptionService) SelectPackage(ctx context.Context, accountID uuid.UUID, packageID string) (*resp.SubscriptionResponse, error) {
	p, ok := FindPackage(packageID)
	if !ok {
		return nil, utils.ErrUnknownPackage
	}

	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		s.log.Error("load account for package selection", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	snapshot := NewSnapshot(p, s.now())
	if err := s.accountRepo.SetSubscription(ctx, accountID, snapshot); err != nil {
		s.log.Error("store subscription snapshot", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	s.log.Info("subscription package selected",
		zap.String("account_id", accountID.String()),
		zap.String("package_id", p.ID))
	out := toSubscriptionResponse(snapshot)
	return &out, nil
}

// refresh loads the account and persists a period roll-over when one is due.
func (s *SubscriptionService) refresh(ctx context.Context, accountID uuid.UUID) (*dbm.Account, error) {
	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		s.log.Error("load account subscription", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	if account.Subscription.RollOver(s.now()) {
		if err := s.accountRepo.SetSubscription(ctx, accountID, account.Subscription); err != nil {
			s.log.Error("roll over subscription period", zap.Error(err))
			return nil, utils.ErrDatabaseError
		}
	}
	return account, nil
}

func (s *SubscriptionService) Current(ctx context.Context, accountID uuid.UUID) (*resp.SubscriptionResponse, error) {
	account, err := s.refresh(ctx, accountID)
	if err != nil {
		return nil, err
	}
	out := toSubscriptionResponse(account.Subscription)
	return &out, nil
}

func (s *SubscriptionService) ConsumeListingSlot(ctx context.Context, accountID uuid.UUID) error {
	account, err := s.refresh(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.Subscription.HasQuota() {
		return utils.ErrListingQuotaExceeded
	}

	ok, err := s.accountRepo.ConsumeListingSlot(ctx, accountID)
	if err != nil {
		s.log.Error("consume listing slot", zap.Error(err))
		return utils.ErrDatabaseError
	}
	if !ok {
		return utils.ErrListingQuotaExceeded
	}
	return nil
}

func (s *SubscriptionService) ReleaseListingSlot(ctx context.Context, accountID uuid.UUID) {
	if err := s.accountRepo.ReleaseListingSlot(ctx, accountID); err != nil {
		s.log.Warn("release listing slot", zap.String("account_id", accountID.String()), zap.Error(err))
	}
}
