package services

import (
	"context"
	"errors"
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
	"estatehub/pkg/utils"
)

type AdminServiceInterface interface {
	Register(ctx context.Context, request request_models.AdminRegisterRequest) (*resp.AdminResponse, error)
	// Login accepts either a federated ID token or email and password. Only
	// approved admins receive a session.
	Login(ctx context.Context, idToken string, request request_models.AdminLoginRequest) (*resp.AdminLoginResponse, error)

	ListAdmins(ctx context.Context, status string) ([]resp.AdminResponse, error)
	UpdateAdminStatus(ctx context.Context, p session.Principal, id uuid.UUID, status string) error

	ListAccounts(ctx context.Context, kind string, page, pageSize int) ([]resp.AccountResponse, error)
	UpdateAccountStatus(ctx context.Context, id uuid.UUID, status string) error
}

type AdminService struct {
	adminRepo   repositories.AdminRepository
	accountRepo repositories.AccountRepository
	mail        IMailService
	verifier    identity.Verifier
	jwt         *utils.JWTManager
	superAdmins map[string]bool
	log         *zap.Logger
}

func NewAdminService(
	adminRepo repositories.AdminRepository,
	accountRepo repositories.AccountRepository,
	mail IMailService,
	verifier identity.Verifier,
	jwt *utils.JWTManager,
	superAdminEmails []string,
	log *zap.Logger,
) AdminServiceInterface {
	supers := make(map[string]bool, len(superAdminEmails))
	for _, e := range superAdminEmails {
		supers[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &AdminService{
		adminRepo:   adminRepo,
		accountRepo: accountRepo,
		mail:        mail,
		verifier:    verifier,
		jwt:         jwt,
		superAdmins: supers,
		log:         log,
	}
}

func (s *AdminService) Register(ctx context.Context, request request_models.AdminRegisterRequest) (*resp.AdminResponse, error) {
	if request.Password != request.ConfirmPassword {
		return nil, utils.ErrPasswordMismatch
	}
	email := strings.ToLower(strings.TrimSpace(request.Email))

	existing, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("find admin by email", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hash, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	admin := &dbm.Admin{
		Name:         strings.TrimSpace(request.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         session.RoleAdmin,
		Status:       dbm.AdminStatusPending,
	}
	if s.superAdmins[email] {
		admin.Role = session.RoleSuperAdmin
		admin.Status = dbm.AdminStatusApproved
	}

	if err := s.adminRepo.Insert(ctx, admin); err != nil {
		s.log.Error("insert admin", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	s.log.Info("admin registered",
		zap.String("admin_id", admin.ID.String()),
		zap.String("status", string(admin.Status)))

	out := toAdminResponse(admin)
	return &out, nil
}

func (s *AdminService) Login(ctx context.Context, idToken string, request request_models.AdminLoginRequest) (*resp.AdminLoginResponse, error) {
	var (
		admin *dbm.Admin
		err   error
	)
	if idToken != "" {
		admin, err = s.federatedAdmin(ctx, idToken)
	} else {
		admin, err = s.passwordAdmin(ctx, request)
	}
	if err != nil {
		return nil, err
	}

	if admin.Status != dbm.AdminStatusApproved {
		return nil, utils.ErrAdminNotApproved
	}

	token, err := s.jwt.CreateToken(admin.ID, session.KindAdmin, admin.Email, admin.Role)
	if err != nil {
		s.log.Error("sign admin token", zap.Error(err))
		return nil, utils.ErrInvalidCredentials
	}
	return &resp.AdminLoginResponse{
		Token:     token,
		ExpiresAt: utils.FormatRFC3339(time.Now().Add(s.jwt.TTL())),
		Admin:     toAdminResponse(admin),
	}, nil
}

func (s *AdminService) passwordAdmin(ctx context.Context, request request_models.AdminLoginRequest) (*dbm.Admin, error) {
	if request.Email == "" || request.Password == "" {
		return nil, utils.ErrInvalidCredentials
	}
	admin, err := s.adminRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		s.log.Error("find admin by email", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if admin == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(admin.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}
	return admin, nil
}

// federatedAdmin resolves a provider token to a registered admin. The
// provider only proves identity; registration decides authorization.
func (s *AdminService) federatedAdmin(ctx context.Context, idToken string) (*dbm.Admin, error) {
	id, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		if errors.Is(err, identity.ErrDisabled) {
			return nil, utils.ErrFederatedLoginOff
		}
		return nil, utils.ErrInvalidIDToken
	}

	admin, err := s.adminRepo.FindByFirebaseUID(ctx, id.UID)
	if err != nil {
		s.log.Error("find admin by firebase uid", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if admin != nil {
		return admin, nil
	}

	if id.Email == "" || !id.EmailVerified {
		return nil, utils.ErrAdminNotFound
	}
	admin, err = s.adminRepo.FindByEmail(ctx, normalizeEmail(id.Email))
	if err != nil {
		s.log.Error("find admin by email", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if admin == nil {
		return nil, utils.ErrAdminNotFound
	}
	if err := s.adminRepo.LinkFirebaseUID(ctx, admin.ID, id.UID); err != nil {
		s.log.Warn("link admin firebase uid", zap.Error(err))
	}
	return admin, nil
}

func (s *AdminService) ListAdmins(ctx context.Context, status string) ([]resp.AdminResponse, error) {
	if status != "" && !dbm.AdminStatus(status).Valid() {
		return nil, utils.ErrInvalidStatus
	}
	admins, err := s.adminRepo.List(ctx, status)
	if err != nil {
		s.log.Error("list admins", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	out := make([]resp.AdminResponse, 0, len(admins))
	for i := range admins {
		out = append(out, toAdminResponse(&admins[i]))
	}
	return out, nil
}

func (s *AdminService) UpdateAdminStatus(ctx context.Context, p session.Principal, id uuid.UUID, status string) error {
	if p.Role != session.RoleSuperAdmin || p.AccountID == id {
		return utils.ErrForbidden
	}
	st := dbm.AdminStatus(strings.ToLower(status))
	if !st.Valid() {
		return utils.ErrInvalidStatus
	}

	admin, err := s.adminRepo.FindById(ctx, id)
	if err != nil {
		s.log.Error("find admin", zap.Error(err))
		return utils.ErrDatabaseError
	}
	if admin == nil {
		return utils.ErrAdminNotFound
	}

	if err := s.adminRepo.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrAdminNotFound
		}
		s.log.Error("update admin status", zap.Error(err))
		return utils.ErrDatabaseError
	}
	s.log.Info("admin status changed",
		zap.String("admin_id", id.String()),
		zap.String("status", string(st)),
		zap.String("by", p.AccountID.String()))

	if admin.Status == st {
		return nil
	}
	switch st {
	case dbm.AdminStatusApproved:
		s.notify(admin.Email, "Your admin access was approved",
			"A super admin approved your registration. You can now sign in to the admin console.",
			"Sign in", "/admin/login")
	case dbm.AdminStatusRejected:
		s.notify(admin.Email, "Your admin access request was declined",
			"A super admin declined your registration. Contact the team if you think this is a mistake.",
			"", "")
	}
	return nil
}

func (s *AdminService) ListAccounts(ctx context.Context, kind string, page, pageSize int) ([]resp.AccountResponse, error) {
	if page <= 0 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize <= 0 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}
	accounts, err := s.accountRepo.ListByKind(ctx, kind, page, pageSize)
	if err != nil {
		s.log.Error("list accounts", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	out := make([]resp.AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountResponse(&accounts[i]))
	}
	return out, nil
}

func (s *AdminService) UpdateAccountStatus(ctx context.Context, id uuid.UUID, status string) error {
	st := dbm.AccountStatus(strings.ToLower(status))
	if st != dbm.AccountStatusActive && st != dbm.AccountStatusSuspended {
		return utils.ErrInvalidStatus
	}

	account, err := s.accountRepo.FindById(ctx, id)
	if err != nil {
		s.log.Error("find account", zap.Error(err))
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}

	if err := s.accountRepo.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrAccountNotFound
		}
		s.log.Error("update account status", zap.Error(err))
		return utils.ErrDatabaseError
	}
	s.log.Info("account status changed",
		zap.String("account_id", id.String()),
		zap.String("status", string(st)))

	if account.Status == st {
		return nil
	}
	if st == dbm.AccountStatusSuspended {
		s.notify(account.Email, "Your account has been suspended",
			"An administrator suspended your account. You cannot sign in or publish listings until it is reinstated.",
			"", "")
	} else {
		s.notify(account.Email, "Your account has been reinstated",
			"An administrator reinstated your account. You can sign in again.",
			"Sign in", "/login")
	}
	return nil
}

// notify mails a status change without holding up the request.
func (s *AdminService) notify(to, subject, body, ctaText, ctaURL string) {
	go func() {
		if err := s.mail.SendMailToNotifyUser(to, subject, body, ctaText, ctaURL); err != nil {
			s.log.Warn("status notification failed", zap.String("to", to), zap.Error(err))
		}
	}()
}
