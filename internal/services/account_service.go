package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"estatehub/internal/identity"
	dbm "estatehub/internal/models/db_models"
	"estatehub/internal/models/request_models"
	resp "estatehub/internal/models/response_models"
	"estatehub/internal/repositories"
	"estatehub/internal/session"
	mem "estatehub/pkg/memcache"
	"estatehub/pkg/utils"
)

const resetTokenTTL = 15 * time.Minute

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (*resp.AccountLoginResponse, error)
	FederatedLogin(ctx context.Context, idToken string) (*resp.AccountLoginResponse, error)
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*resp.AccountResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, request request_models.ResetPasswordRequest) error

	GetProfile(ctx context.Context, accountID uuid.UUID) (*resp.AccountResponse, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, request request_models.UpdateProfileRequest) (*resp.AccountResponse, error)
	// UploadAvatar stores a new profile image and discards the previous one
	// when the store manages it.
	UploadAvatar(ctx context.Context, accountID uuid.UUID, file ImageUpload) (*resp.AccountResponse, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, request request_models.ChangePasswordRequest) error

	GetPublicProfile(ctx context.Context, kind string, id uuid.UUID) (*resp.PublicProfileResponse, error)
	ListPublicProfiles(ctx context.Context, kind string, page, pageSize int) ([]resp.PublicProfileResponse, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	listingRepo repositories.ListingRepository
	mailService IMailService
	images      ImageManager
	limits      UploadLimits
	resetTokens mem.ResetTokenStore
	verifier    identity.Verifier
	jwt         *utils.JWTManager
	log         *zap.Logger
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	listingRepo repositories.ListingRepository,
	mailService IMailService,
	images ImageManager,
	limits UploadLimits,
	resetTokens mem.ResetTokenStore,
	verifier identity.Verifier,
	jwt *utils.JWTManager,
	log *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		listingRepo: listingRepo,
		mailService: mailService,
		images:      images,
		limits:      limits,
		resetTokens: resetTokens,
		verifier:    verifier,
		jwt:         jwt,
		log:         log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AccountService) issueToken(account *dbm.Account) (*resp.AccountLoginResponse, error) {
	token, err := a.jwt.CreateToken(account.ID, account.Kind, account.Email, session.RoleMember)
	if err != nil {
		a.log.Error("sign session token", zap.Error(err))
		return nil, utils.ErrInvalidCredentials
	}
	return &resp.AccountLoginResponse{
		Token:     token,
		ExpiresAt: utils.FormatRFC3339(time.Now().Add(a.jwt.TTL())),
		Account:   toAccountResponse(account),
	}, nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*resp.AccountLoginResponse, error) {
	startTime := time.Now()

	account, err := a.accountRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		a.log.Error("find account by email", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}
	if account.Status == dbm.AccountStatusSuspended {
		return nil, utils.ErrAccountSuspended
	}

	a.log.Debug("login verified", zap.Duration("took", time.Since(startTime)))
	return a.issueToken(account)
}

// FederatedLogin exchanges a verified provider ID token for a session. An
// unknown subject is matched by email first and otherwise registered as a
// buyer account.
func (a *AccountService) FederatedLogin(ctx context.Context, idToken string) (*resp.AccountLoginResponse, error) {
	id, err := a.verifier.Verify(ctx, idToken)
	if err != nil {
		if errors.Is(err, identity.ErrDisabled) {
			return nil, utils.ErrFederatedLoginOff
		}
		a.log.Info("federated token rejected", zap.Error(err))
		return nil, utils.ErrInvalidIDToken
	}

	account, err := a.accountRepo.FindByFirebaseUID(ctx, id.UID)
	if err != nil {
		a.log.Error("find account by firebase uid", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	if account == nil && id.Email != "" {
		account, err = a.accountRepo.FindByEmail(ctx, normalizeEmail(id.Email))
		if err != nil {
			a.log.Error("find account by email", zap.Error(err))
			return nil, utils.ErrDatabaseError
		}
		if account != nil {
			if err := a.accountRepo.LinkFirebaseUID(ctx, account.ID, id.UID); err != nil {
				a.log.Error("link firebase uid", zap.Error(err))
				return nil, utils.ErrDatabaseError
			}
			account.FirebaseUID = id.UID
		}
	}

	if account == nil {
		if id.Email == "" {
			return nil, utils.ErrInvalidIDToken
		}
		name := id.Name
		if name == "" {
			name = strings.Split(id.Email, "@")[0]
		}
		free, _ := FindPackage(DefaultPackageID)
		account = &dbm.Account{
			Kind:         session.KindUser,
			Name:         name,
			Email:        normalizeEmail(id.Email),
			FirebaseUID:  id.UID,
			Status:       dbm.AccountStatusActive,
			Subscription: NewSnapshot(free, time.Now()),
		}
		if err := a.accountRepo.Insert(ctx, account); err != nil {
			a.log.Error("create federated account", zap.Error(err))
			return nil, utils.ErrDatabaseError
		}
		a.log.Info("federated account created", zap.String("account_id", account.ID.String()))
	}

	if account.Status == dbm.AccountStatusSuspended {
		return nil, utils.ErrAccountSuspended
	}
	return a.issueToken(account)
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*resp.AccountResponse, error) {
	if request.Password != request.ConfirmPassword {
		return nil, utils.ErrPasswordMismatch
	}

	existingAccount, err := a.accountRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		a.log.Error("find account by email", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if existingAccount != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	free, _ := FindPackage(DefaultPackageID)
	newAccount := &dbm.Account{
		Kind:         request.Kind,
		Name:         strings.TrimSpace(request.Name),
		Email:        normalizeEmail(request.Email),
		PasswordHash: hashedPassword,
		Phone:        request.Phone,
		CompanyName:  request.CompanyName,
		LicenseNo:    request.LicenseNo,
		Status:       dbm.AccountStatusActive,
		Subscription: NewSnapshot(free, time.Now()),
	}

	if err := a.accountRepo.Insert(ctx, newAccount); err != nil {
		a.log.Error("insert account", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := toAccountResponse(newAccount)
	return &out, nil
}

// ForgotPassword never reveals whether the address is registered.
func (a *AccountService) ForgotPassword(ctx context.Context, email string) error {
	account, err := a.accountRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		a.log.Error("find account by email", zap.Error(err))
		return utils.ErrDatabaseError
	}
	if account == nil {
		return nil
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return utils.ErrDatabaseError
	}
	a.resetTokens.Set(token, account.Email, resetTokenTTL)

	if err := a.mailService.SendMailToResetPassword(account.Email, token); err != nil {
		a.log.Warn("reset mail not sent", zap.String("account_id", account.ID.String()), zap.Error(err))
	}
	return nil
}

func (a *AccountService) ResetPassword(ctx context.Context, request request_models.ResetPasswordRequest) error {
	if request.NewPassword != request.ConfirmPassword {
		return utils.ErrPasswordMismatch
	}

	email := a.resetTokens.Consume(request.Token)
	if email == "" || !strings.EqualFold(email, request.Email) {
		return utils.ErrInvalidResetToken
	}

	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrInvalidResetToken
	}

	hash, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if err := a.accountRepo.UpdatePassword(ctx, account.ID, hash); err != nil {
		a.log.Error("update password", zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (a *AccountService) load(ctx context.Context, id uuid.UUID) (*dbm.Account, error) {
	account, err := a.accountRepo.FindById(ctx, id)
	if err != nil {
		a.log.Error("load account", zap.String("account_id", id.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return account, nil
}

func (a *AccountService) GetProfile(ctx context.Context, accountID uuid.UUID) (*resp.AccountResponse, error) {
	account, err := a.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	out := toAccountResponse(account)
	return &out, nil
}

func (a *AccountService) UpdateProfile(ctx context.Context, accountID uuid.UUID, request request_models.UpdateProfileRequest) (*resp.AccountResponse, error) {
	account, err := a.load(ctx, accountID)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&account.Name, request.Name)
	set(&account.Phone, request.Phone)
	set(&account.Bio, request.Bio)
	set(&account.AvatarURL, request.AvatarURL)
	set(&account.CompanyName, request.CompanyName)
	set(&account.LicenseNo, request.LicenseNo)
	set(&account.Website, request.Website)

	if err := a.accountRepo.UpdateProfile(ctx, account); err != nil {
		a.log.Error("update profile", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	out := toAccountResponse(account)
	return &out, nil
}

func (a *AccountService) UploadAvatar(ctx context.Context, accountID uuid.UUID, file ImageUpload) (*resp.AccountResponse, error) {
	account, err := a.load(ctx, accountID)
	if err != nil {
		return nil, err
	}

	limits := a.limits
	limits.MaxImages = 1
	valid, rejected := ValidateImages([]ImageUpload{file}, 0, limits)
	if len(valid) == 0 {
		reason := "no image received"
		if len(rejected) > 0 {
			reason = rejected[0].Reason
		}
		return nil, fmt.Errorf("%w: %s", utils.ErrInvalidImage, reason)
	}

	url, key, err := a.images.UploadAvatar(ctx, accountID, valid[0])
	if err != nil {
		return nil, err
	}
	if err := a.accountRepo.SetAvatarURL(ctx, accountID, url); err != nil {
		a.images.DiscardKeys(ctx, accountID, []string{key}, "avatar update failed")
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrAccountNotFound
		}
		a.log.Error("set avatar", zap.String("account_id", accountID.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	if old := account.AvatarURL; old != "" && old != url {
		a.images.DiscardURLs(ctx, accountID, []string{old}, "avatar replaced")
	}
	account.AvatarURL = url
	out := toAccountResponse(account)
	return &out, nil
}

func (a *AccountService) ChangePassword(ctx context.Context, accountID uuid.UUID, request request_models.ChangePasswordRequest) error {
	if request.NewPassword != request.ConfirmPassword {
		return utils.ErrPasswordMismatch
	}
	account, err := a.load(ctx, accountID)
	if err != nil {
		return err
	}
	if err := utils.ComparePasswords(account.PasswordHash, request.CurrentPassword); err != nil {
		return utils.ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if err := a.accountRepo.UpdatePassword(ctx, accountID, hash); err != nil {
		a.log.Error("change password", zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (a *AccountService) GetPublicProfile(ctx context.Context, kind string, id uuid.UUID) (*resp.PublicProfileResponse, error) {
	account, err := a.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.Kind != kind || account.Status == dbm.AccountStatusSuspended {
		return nil, utils.ErrAccountNotFound
	}

	listings, err := a.listingRepo.ListByOwner(ctx, id, true)
	if err != nil {
		a.log.Error("list profile listings", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	out := toPublicProfile(account, listings)
	return &out, nil
}

func (a *AccountService) ListPublicProfiles(ctx context.Context, kind string, page, pageSize int) ([]resp.PublicProfileResponse, error) {
	if page <= 0 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize <= 0 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	accounts, err := a.accountRepo.ListByKind(ctx, kind, page, pageSize)
	if err != nil {
		a.log.Error("list profiles", zap.String("kind", kind), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := make([]resp.PublicProfileResponse, 0, len(accounts))
	for i := range accounts {
		if accounts[i].Status == dbm.AccountStatusSuspended {
			continue
		}
		out = append(out, toPublicProfile(&accounts[i], nil))
	}
	return out, nil
}
