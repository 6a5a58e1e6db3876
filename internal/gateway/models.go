package gateway

// Wire types for the national-identity provider contract. Field names follow
// the provider's JSON, not ours.

// LoginRequest exchanges provider credentials for a bearer token pair.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is the provider's answer to a successful login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

// ChangePasswordRequest rotates the provider password. The provider
// one-shot-invalidates all outstanding tokens on success.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// DemographicRequest asks the provider to match identity plus biographic
// fields against the national registry.
type DemographicRequest struct {
	NationalID  string `json:"national_id"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	FullName    string `json:"full_name,omitempty"`
	FatherName  string `json:"father_name,omitempty"`
	MotherName  string `json:"mother_name,omitempty"`
	Address     string `json:"address,omitempty"`
}

// FieldMatch is the provider's per-field verdict.
type FieldMatch struct {
	Field string  `json:"field"`
	Match bool    `json:"match"`
	Score float64 `json:"score,omitempty"`
}

// DemographicResult aggregates match/partial/field-level outcomes.
type DemographicResult struct {
	Verified     bool         `json:"verified"`
	PartialMatch bool         `json:"partial_match"`
	Fields       []FieldMatch `json:"fields,omitempty"`
}

// BillingRequest bounds a usage report by date range.
type BillingRequest struct {
	FromDate string `json:"from_date"` // YYYY-MM-DD
	ToDate   string `json:"to_date"`   // YYYY-MM-DD
}

// BillingReport is the provider's aggregated usage answer.
type BillingReport struct {
	TotalCalls     int64   `json:"total_calls"`
	SuccessCalls   int64   `json:"success_calls"`
	FailedCalls    int64   `json:"failed_calls"`
	TotalAmount    float64 `json:"total_amount"`
	Currency       string  `json:"currency,omitempty"`
	PeriodFromDate string  `json:"period_from_date"`
	PeriodToDate   string  `json:"period_to_date"`
}

// AFISVerifyRequest starts a fingerprint verification job.
type AFISVerifyRequest struct {
	NationalID  string   `json:"national_id"`
	DateOfBirth string   `json:"date_of_birth"` // YYYY-MM-DD
	Fingers     []string `json:"fingers"`
}

// FingerUpload names the pre-signed URL for one finger's raw bytes.
type FingerUpload struct {
	Finger    string `json:"finger"`
	UploadURL string `json:"upload_url"`
}

// AFISVerifyResult carries the upload URLs plus the result-check location.
type AFISVerifyResult struct {
	JobID          string         `json:"job_id"`
	Uploads        []FingerUpload `json:"uploads"`
	ResultCheckURL string         `json:"result_check_url"`
}

// AFISResultStatus is the polled state of a verification job.
type AFISResultStatus struct {
	JobID    string  `json:"job_id"`
	Status   string  `json:"status"` // "pending", "completed", "failed"
	Verified bool    `json:"verified"`
	Score    float64 `json:"score,omitempty"`
}
