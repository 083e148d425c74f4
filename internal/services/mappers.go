package services

import (
	dbm "estatehub/internal/models/db_models"
	resp "estatehub/internal/models/response_models"
	"estatehub/pkg/utils"
)

func toListingResponse(l *dbm.Listing) resp.ListingResponse {
	images := []string(l.Images)
	if images == nil {
		images = []string{}
	}
	return resp.ListingResponse{
		ID:           l.ID,
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price,
		ListingType:  string(l.ListingType),
		PropertyType: l.PropertyType,
		Category:     l.Category,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		Area:         l.Area,
		Garage:       l.Garage,
		YearBuilt:    l.YearBuilt,
		Furnished:    l.Furnished,
		Features:     l.Features.Data(),
		Province:     l.Province,
		City:         l.City,
		Neighborhood: l.Neighborhood,
		Address:      l.Address,
		Images:       images,
		CoverIndex:   dbm.ClampCoverIndex(l.CoverIndex, len(images)),
		CoverImage:   l.CoverImage(),
		OwnerID:      l.OwnerID,
		OwnerKind:    l.OwnerKind,
		Status:       string(l.Status),
		ViewCount:    l.ViewCount,
		InquiryCount: l.InquiryCount,
		CreatedAt:    utils.FormatRFC3339(utils.FromUnixSeconds(l.CreatedAt)),
		UpdatedAt:    utils.FormatRFC3339(utils.FromUnixSeconds(l.UpdatedAt)),
	}
}

func toListingResponses(listings []dbm.Listing) []resp.ListingResponse {
	out := make([]resp.ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, toListingResponse(&listings[i]))
	}
	return out
}

func toSubscriptionResponse(s dbm.SubscriptionSnapshot) resp.SubscriptionResponse {
	left := s.ListingsTotal - s.ListingsUsed
	if left < 0 || s.Status != dbm.SubStatusActive {
		left = 0
	}
	out := resp.SubscriptionResponse{
		PackageID:     s.PackageID,
		PlanName:      s.PlanName,
		ListingsUsed:  s.ListingsUsed,
		ListingsTotal: s.ListingsTotal,
		ListingsLeft:  left,
		Status:        string(s.Status),
	}
	if s.Status == "" {
		out.Status = string(dbm.SubStatusNone)
	}
	if s.PeriodStart > 0 {
		start := utils.FromUnixSeconds(s.PeriodStart)
		out.PeriodStart = utils.FormatRFC3339(start)
		out.PeriodRenewsAt = utils.FormatRFC3339(start.AddDate(0, 1, 0))
	}
	return out
}

func toAccountResponse(a *dbm.Account) resp.AccountResponse {
	saved := []string(a.SavedListingIDs)
	if saved == nil {
		saved = []string{}
	}
	return resp.AccountResponse{
		ID:              a.ID,
		Kind:            a.Kind,
		Name:            a.Name,
		Email:           a.Email,
		Phone:           a.Phone,
		Bio:             a.Bio,
		AvatarURL:       a.AvatarURL,
		CompanyName:     a.CompanyName,
		LicenseNo:       a.LicenseNo,
		Website:         a.Website,
		Status:          string(a.Status),
		SavedListingIDs: saved,
		Subscription:    toSubscriptionResponse(a.Subscription),
		CreatedAt:       utils.FormatRFC3339(utils.FromUnixSeconds(a.CreatedAt)),
	}
}

func toPublicProfile(a *dbm.Account, listings []dbm.Listing) resp.PublicProfileResponse {
	return resp.PublicProfileResponse{
		ID:          a.ID,
		Kind:        a.Kind,
		Name:        a.Name,
		Email:       a.Email,
		Phone:       a.Phone,
		Bio:         a.Bio,
		AvatarURL:   a.AvatarURL,
		CompanyName: a.CompanyName,
		LicenseNo:   a.LicenseNo,
		Website:     a.Website,
		Listings:    toListingResponses(listings),
	}
}

func toAdminResponse(a *dbm.Admin) resp.AdminResponse {
	return resp.AdminResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		Status:    string(a.Status),
		CreatedAt: utils.FormatRFC3339(utils.FromUnixSeconds(a.CreatedAt)),
	}
}
