package http

// Transport DTOs. Validation tags drive govalidator; field names follow the
// external JSON contract.

type localLoginRequest struct {
	Username string `json:"username" valid:"required"`
	Password string `json:"password" valid:"required"`
}

type providerLoginRequest struct {
	ProviderUsername string `json:"provider_username" valid:"required"`
	Password         string `json:"password" valid:"required"`
}

type providerLoginResponse struct {
	ProviderUsername string `json:"provider_username"`
	ExpiresIn        int64  `json:"expires_in"`
}

type providerLogoutRequest struct {
	ProviderUsername string `json:"provider_username" valid:"required"`
}

type changePasswordRequest struct {
	ProviderUsername string `json:"provider_username" valid:"required"`
	CurrentPassword  string `json:"current_password" valid:"required"`
	NewPassword      string `json:"new_password" valid:"required"`
	ConfirmPassword  string `json:"confirm_password" valid:"required"`
}

type demographicVerifyRequest struct {
	ProviderUsername string `json:"provider_username" valid:"required"`
	NationalID       string `json:"national_id" valid:"required"`
	DateOfBirth      string `json:"date_of_birth" valid:"required"`
	FullName         string `json:"full_name"`
	FatherName       string `json:"father_name"`
	MotherName       string `json:"mother_name"`
	Address          string `json:"address"`
}

type billingReportRequest struct {
	ProviderUsername string `json:"provider_username" valid:"required"`
	FromDate         string `json:"from_date" valid:"required"`
	ToDate           string `json:"to_date" valid:"required"`
}

type afisVerifyRequest struct {
	ProviderUsername string   `json:"provider_username" valid:"required"`
	NationalID       string   `json:"national_id" valid:"required"`
	DateOfBirth      string   `json:"date_of_birth" valid:"required"`
	Fingers          []string `json:"fingers" valid:"required"`
}

type fingerprintUploadRequest struct {
	UploadURL string `json:"upload_url" valid:"required,url"`
	Image     []byte `json:"image" valid:"required"`
}

type captureRequest struct {
	FingerID         string  `json:"finger_id" valid:"required"`
	QualityThreshold float64 `json:"quality_threshold"`
	TimeoutSeconds   int     `json:"timeout_seconds"`
	RetryBudget      int     `json:"retry_budget"`
}

type captureBatchRequest struct {
	FingerIDs        []string `json:"finger_ids" valid:"required"`
	QualityThreshold float64  `json:"quality_threshold"`
	TimeoutSeconds   int      `json:"timeout_seconds"`
	RetryBudget      int      `json:"retry_budget"`
	OnPeer           bool     `json:"on_peer"`
}

type cancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

type qualityAssessRequest struct {
	Image []byte `json:"image" valid:"required"`
}
