package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dbm "estatehub/internal/models/db_models"
	"estatehub/internal/models/request_models"
	resp "estatehub/internal/models/response_models"
	"estatehub/internal/repositories"
	"estatehub/internal/search"
	"estatehub/internal/session"
	"estatehub/pkg/utils"
)

type ListingServiceInterface interface {
	Search(ctx context.Context, filter search.Filter) ([]resp.ListingResponse, error)
	GetListing(ctx context.Context, id uuid.UUID) (*resp.ListingResponse, error)
	ListListings(ctx context.Context, listingType string, page, pageSize int) ([]resp.ListingResponse, error)
	ListMine(ctx context.Context, p session.Principal) ([]resp.ListingResponse, error)

	CreateListing(ctx context.Context, p session.Principal, in request_models.ListingInput, files []ImageUpload) (*resp.ListingSaveResult, error)
	// UpdateListing replaces the attributes and image set. keep lists the
	// already-stored image URLs to retain, in display order.
	UpdateListing(ctx context.Context, p session.Principal, id uuid.UUID, in request_models.ListingInput, keep []string, files []ImageUpload) (*resp.ListingSaveResult, error)
	DeleteListing(ctx context.Context, p session.Principal, id uuid.UUID) error
	UpdateStatus(ctx context.Context, p session.Principal, id uuid.UUID, status string) error

	RecordView(ctx context.Context, id uuid.UUID, viewer string) (bool, error)
	SubmitInquiry(ctx context.Context, id uuid.UUID, req request_models.InquiryRequest) error
}

type ListingService struct {
	listingRepo repositories.ListingRepository
	accountRepo repositories.AccountRepository
	images      ImageManager
	subs        SubscriptionServiceInterface
	views       ViewGuard
	mail        IMailService
	limits      UploadLimits
	log         *zap.Logger
}

func NewListingService(
	listingRepo repositories.ListingRepository,
	accountRepo repositories.AccountRepository,
	images ImageManager,
	subs SubscriptionServiceInterface,
	views ViewGuard,
	mail IMailService,
	limits UploadLimits,
	log *zap.Logger,
) ListingServiceInterface {
	return &ListingService{
		listingRepo: listingRepo,
		accountRepo: accountRepo,
		images:      images,
		subs:        subs,
		views:       views,
		mail:        mail,
		limits:      limits,
		log:         log,
	}
}

func (s *ListingService) Search(ctx context.Context, filter search.Filter) ([]resp.ListingResponse, error) {
	preds, err := search.Compose(filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.listingRepo.Search(ctx, preds)
	if err != nil {
		s.log.Error("listing search failed", zap.Int("predicates", len(preds)), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	return toListingResponses(search.MatchLocation(rows, filter.Location)), nil
}

// load fetches a listing, mapping a missing row to ErrListingNotFound.
func (s *ListingService) load(ctx context.Context, id uuid.UUID) (*dbm.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		s.log.Error("load listing", zap.String("listing_id", id.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if listing == nil {
		return nil, utils.ErrListingNotFound
	}
	return listing, nil
}

func (s *ListingService) GetListing(ctx context.Context, id uuid.UUID) (*resp.ListingResponse, error) {
	listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toListingResponse(listing)
	return &out, nil
}

func (s *ListingService) ListListings(ctx context.Context, listingType string, page, pageSize int) ([]resp.ListingResponse, error) {
	if page <= 0 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize <= 0 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}
	listingType = strings.ToLower(strings.TrimSpace(listingType))
	if listingType != "" && !dbm.ListingType(listingType).Valid() {
		return nil, utils.ErrInvalidListing
	}

	rows, err := s.listingRepo.List(ctx, listingType, page, pageSize)
	if err != nil {
		s.log.Error("list listings", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return toListingResponses(rows), nil
}

func (s *ListingService) ListMine(ctx context.Context, p session.Principal) ([]resp.ListingResponse, error) {
	rows, err := s.listingRepo.ListByOwner(ctx, p.AccountID, false)
	if err != nil {
		s.log.Error("list own listings", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return toListingResponses(rows), nil
}

// applyInput copies the editable attributes. Enumerations are stored lower
// case so equality predicates match.
func applyInput(l *dbm.Listing, in request_models.ListingInput) {
	l.Title = strings.TrimSpace(in.Title)
	l.Description = strings.TrimSpace(in.Description)
	l.Price = in.Price
	l.ListingType = dbm.ListingType(strings.ToLower(in.ListingType))
	l.PropertyType = strings.ToLower(strings.TrimSpace(in.PropertyType))
	l.Category = strings.ToLower(strings.TrimSpace(in.Category))
	l.Bedrooms = in.Bedrooms
	l.Bathrooms = in.Bathrooms
	l.Area = in.Area
	l.Garage = in.Garage
	l.YearBuilt = in.YearBuilt
	l.Furnished = in.Furnished
	l.Features = datatypes.NewJSONType(in.Features)
	l.Province = strings.ToLower(strings.TrimSpace(in.Province))
	l.City = strings.TrimSpace(in.City)
	l.Neighborhood = strings.TrimSpace(in.Neighborhood)
	l.Address = strings.TrimSpace(in.Address)
}

func (s *ListingService) checkSeller(ctx context.Context, p session.Principal) error {
	account, err := s.accountRepo.FindById(ctx, p.AccountID)
	if err != nil {
		s.log.Error("load listing owner", zap.Error(err))
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}
	if account.Status == dbm.AccountStatusSuspended {
		return utils.ErrAccountSuspended
	}
	return nil
}

func (s *ListingService) CreateListing(ctx context.Context, p session.Principal, in request_models.ListingInput, files []ImageUpload) (*resp.ListingSaveResult, error) {
	if !dbm.ListingType(strings.ToLower(in.ListingType)).Valid() {
		return nil, utils.ErrInvalidListing
	}
	if err := s.checkSeller(ctx, p); err != nil {
		return nil, err
	}

	valid, rejected := ValidateImages(files, 0, s.limits)

	if err := s.subs.ConsumeListingSlot(ctx, p.AccountID); err != nil {
		return nil, err
	}

	listing := &dbm.Listing{
		OwnerID:   p.AccountID,
		OwnerKind: p.Kind,
		Status:    dbm.ListingStatusActive,
	}
	listing.ID = uuid.New()
	applyInput(listing, in)

	urls, keys, err := s.images.UploadBatch(ctx, listing.ID, valid)
	if err != nil {
		s.subs.ReleaseListingSlot(ctx, p.AccountID)
		return nil, err
	}
	listing.Images = urls
	listing.CoverIndex = dbm.ClampCoverIndex(in.CoverIndex, len(urls))

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		s.log.Error("create listing", zap.String("listing_id", listing.ID.String()), zap.Error(err))
		s.images.DiscardKeys(ctx, listing.ID, keys, "listing create failed")
		s.subs.ReleaseListingSlot(ctx, p.AccountID)
		return nil, utils.ErrDatabaseError
	}

	s.log.Info("listing created",
		zap.String("listing_id", listing.ID.String()),
		zap.String("owner_id", p.AccountID.String()),
		zap.Int("images", len(urls)),
		zap.Int("rejected_images", len(rejected)))

	return &resp.ListingSaveResult{Listing: toListingResponse(listing), RejectedImages: rejected}, nil
}

func canModify(p session.Principal, l *dbm.Listing) bool {
	return p.IsAdmin() || (p.AccountID != uuid.Nil && p.AccountID == l.OwnerID)
}

// splitImages keeps the requested URLs that the listing actually holds, in
// the requested order, and reports the ones that are dropped.
func splitImages(current []string, keep []string) (kept []string, removed []string) {
	held := make(map[string]bool, len(current))
	for _, u := range current {
		held[u] = true
	}

	retained := make(map[string]bool, len(keep))
	for _, u := range keep {
		if held[u] && !retained[u] {
			retained[u] = true
			kept = append(kept, u)
		}
	}
	for _, u := range current {
		if !retained[u] {
			removed = append(removed, u)
		}
	}
	return kept, removed
}

// UpdateListing commits in two phases: new images are uploaded first, the
// row is saved, and only after the save are dropped images deleted. A
// failed save removes the new uploads and leaves the old images alone.
func (s *ListingService) UpdateListing(ctx context.Context, p session.Principal, id uuid.UUID, in request_models.ListingInput, keep []string, files []ImageUpload) (*resp.ListingSaveResult, error) {
	if !dbm.ListingType(strings.ToLower(in.ListingType)).Valid() {
		return nil, utils.ErrInvalidListing
	}

	listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(p, listing) {
		return nil, utils.ErrForbidden
	}

	kept, removed := splitImages(listing.Images, keep)
	valid, rejected := ValidateImages(files, len(kept), s.limits)

	urls, keys, err := s.images.UploadBatch(ctx, listing.ID, valid)
	if err != nil {
		return nil, err
	}

	applyInput(listing, in)
	images := make([]string, 0, len(kept)+len(urls))
	images = append(images, kept...)
	images = append(images, urls...)
	listing.Images = images
	listing.CoverIndex = dbm.ClampCoverIndex(in.CoverIndex, len(images))

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		s.images.DiscardKeys(ctx, listing.ID, keys, "listing update failed")
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrListingNotFound
		}
		s.log.Error("update listing", zap.String("listing_id", id.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	s.images.DiscardURLs(ctx, listing.ID, removed, "removed from listing")

	s.log.Info("listing updated",
		zap.String("listing_id", id.String()),
		zap.Int("added_images", len(urls)),
		zap.Int("removed_images", len(removed)),
		zap.Int("rejected_images", len(rejected)))

	return &resp.ListingSaveResult{Listing: toListingResponse(listing), RejectedImages: rejected}, nil
}

func (s *ListingService) DeleteListing(ctx context.Context, p session.Principal, id uuid.UUID) error {
	listing, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(p, listing) {
		return utils.ErrForbidden
	}

	if err := s.listingRepo.Delete(ctx, id); err != nil {
		s.log.Error("delete listing", zap.String("listing_id", id.String()), zap.Error(err))
		return utils.ErrDatabaseError
	}
	s.images.PurgeListing(ctx, id)

	s.log.Info("listing deleted",
		zap.String("listing_id", id.String()),
		zap.String("by", p.AccountID.String()))
	return nil
}

func (s *ListingService) UpdateStatus(ctx context.Context, p session.Principal, id uuid.UUID, status string) error {
	st := dbm.ListingStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return utils.ErrInvalidStatus
	}

	listing, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(p, listing) {
		return utils.ErrForbidden
	}

	if err := s.listingRepo.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrListingNotFound
		}
		s.log.Error("update listing status", zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

// RecordView counts at most one view per viewer per window. It reports
// whether this call was counted.
func (s *ListingService) RecordView(ctx context.Context, id uuid.UUID, viewer string) (bool, error) {
	if !s.views.FirstView(ctx, id.String(), viewer) {
		return false, nil
	}
	if err := s.listingRepo.IncrementViews(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, utils.ErrListingNotFound
		}
		s.log.Error("increment views", zap.Error(err))
		return false, utils.ErrDatabaseError
	}
	return true, nil
}

func (s *ListingService) SubmitInquiry(ctx context.Context, id uuid.UUID, req request_models.InquiryRequest) error {
	listing, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := s.listingRepo.IncrementInquiries(ctx, id); err != nil {
		s.log.Error("increment inquiries", zap.Error(err))
		return utils.ErrDatabaseError
	}

	owner, err := s.accountRepo.FindById(ctx, listing.OwnerID)
	if err != nil || owner == nil {
		s.log.Warn("inquiry recorded but owner could not be loaded",
			zap.String("listing_id", id.String()), zap.Error(err))
		return nil
	}

	go func(to string, inq InquiryMail) {
		if err := s.mail.SendInquiryNotification(to, inq); err != nil {
			s.log.Warn("inquiry notification failed", zap.String("to", to), zap.Error(err))
		}
	}(owner.Email, InquiryMail{
		ListingID:    listing.ID.String(),
		ListingTitle: listing.Title,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Message:      req.Message,
	})
	return nil
}
