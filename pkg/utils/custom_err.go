package utils

import "errors"

var (
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")

	ErrListingNotFound      = errors.New("listing not found")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrAccountSuspended     = errors.New("account suspended")
	ErrAdminNotApproved     = errors.New("admin not approved")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrFederatedLoginOff    = errors.New("federated login is not configured")
	ErrInvalidIDToken       = errors.New("invalid identity token")
	ErrPasswordMismatch     = errors.New("password confirmation does not match")
	ErrInvalidPriceRange    = errors.New("minimum price is greater than maximum price")
	ErrListingTypeRequired  = errors.New("listing type is required")
	ErrInvalidListing       = errors.New("invalid listing payload")
	ErrInvalidStatus        = errors.New("invalid status value")
	ErrUnknownPackage       = errors.New("unknown subscription package")
	ErrListingQuotaExceeded = errors.New("listing quota exceeded")
	ErrStorageError         = errors.New("storage error")
	ErrInvalidImage         = errors.New("invalid image")
	ErrContactDelivery      = errors.New("contact message delivery failed")
	ErrExportFailed         = errors.New("export failed")
)
