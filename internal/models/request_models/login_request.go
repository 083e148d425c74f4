package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type SignUpRequest struct {
	Kind            string `json:"kind" binding:"required,oneof=user agent agency"`
	Name            string `json:"name" binding:"required,min=2,max=80"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	Phone           string `json:"phone" binding:"omitempty,max=32"`
	CompanyName     string `json:"company_name" binding:"omitempty,max=120"`
	LicenseNo       string `json:"license_no" binding:"omitempty,max=64"`
}

type FederatedLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type RequestForgotPassword struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Token           string `json:"token" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// UpdateProfileRequest only touches the fields that are present.
type UpdateProfileRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=80"`
	Phone       *string `json:"phone" binding:"omitempty,max=32"`
	Bio         *string `json:"bio" binding:"omitempty,max=2000"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,url"`
	CompanyName *string `json:"company_name" binding:"omitempty,max=120"`
	LicenseNo   *string `json:"license_no" binding:"omitempty,max=64"`
	Website     *string `json:"website" binding:"omitempty,url"`
}

type AdminRegisterRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=80"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// AdminLoginRequest is optional when a federated ID token is sent as the
// bearer credential.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SelectPackageRequest struct {
	PackageID string `json:"package_id" binding:"required"`
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"omitempty,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}
