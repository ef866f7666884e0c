// SPDX-License-Identifier: GPL-3.0-only

package handlers

// swagger:model SignupRequest
type SignupRequest struct {
	// User's password
	// required: true
	Password string `json:"password" example:"MySecretPassword@123"`
	// User's email address
	// required: true
	Email string `json:"email" example:"user@example.com"`
	// Name of the organization to create for this user
	// required: true
	OrganizationName string `json:"organization_name" example:"Acme Marketing"`
	// Optional full name
	FullName *string `json:"full_name" example:"John Doe"`
}

// swagger:model SignupResponse
type SignupResponse struct {
	// Message indicating successful signup
	Message string `json:"message" example:"Signup successful"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	// User's email address
	Email string `json:"email" example:"user@example.com"`
	// User's password
	Password string `json:"password" example:"MySecretPassword@123"`
}

// swagger:model LoginResponse
type LoginResponse struct {
	// Authentication session token
	// Should be used in the Authorization header as a Bearer token.
	SessionToken string `json:"session_token" example:"sample_session_token"`
	// Message indicating successful operation
	Message string `json:"message" example:"Login successful"`
}

// swagger:model GenericResponse
type GenericResponse struct {
	// Message describing the outcome
	Message string `json:"message" example:"Operation successful"`
}

// swagger:model GetUserResponse
type GetUserResponse struct {
	// User's email address
	Email string `json:"email"`
	// Optional full name
	FullName *string `json:"full_name"`
	// Organization identifier
	OrgID string `json:"org_id"`
	// Organization name
	OrganizationName string `json:"organization_name"`
	// Current subscription plan
	Plan string `json:"plan" example:"free"`
	// Message indicating successful retrieval
	Message string `json:"message"`
}

// swagger:model DeleteAccountRequest
type DeleteAccountRequest struct {
	// Current password, required to confirm deletion
	Password string `json:"password"`
}

// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	// Current password
	CurrentPassword string `json:"current_password"`
	// Replacement password
	NewPassword string `json:"new_password"`
}

// swagger:model CreateAPIKeyRequest
type CreateAPIKeyRequest struct {
	// Name for the API key
	Name string `json:"name" example:"CI key"`
	// Description of what the key is for
	Description *string `json:"description" example:"Used by the reporting pipeline."`
}

// swagger:model CreateAPIKeyResponse
type CreateAPIKeyResponse struct {
	// The full API key. Shown once, store it securely.
	APIKey string `json:"api_key" example:"ak_abcdef1234567890"`
	// Key identifier used for revocation
	KeyID string `json:"key_id" example:"ak_abcdef"`
	// Name of the key
	Name string `json:"name" example:"CI key"`
	// Message indicating successful creation
	Message string `json:"message" example:"API key created successfully"`
}

// swagger:model APIKeyDetails
type APIKeyDetails struct {
	KeyID       string  `json:"key_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	LastUsedAt  *string `json:"last_used_at"`
	CreatedAt   string  `json:"created_at"`
}

// swagger:model APIKeyListResponse
type APIKeyListResponse struct {
	Data    []APIKeyDetails `json:"data"`
	Message string          `json:"message"`
}

// swagger:model PaginationDetails
type PaginationDetails struct {
	// Current page number
	Page int `json:"page"`
	// Page size
	PageSize int `json:"page_size"`
	// Total number of items
	Total int64 `json:"total"`
	// Total number of pages
	TotalPages int `json:"total_pages"`
}

// swagger:model CreateCampaignRequest
type CreateCampaignRequest struct {
	// Campaign name, unique within the organization
	Name string `json:"name" example:"Spring Launch"`
	// Description of the campaign
	Description *string `json:"description" example:"Email push for the spring product launch."`
	// Channel: EMAIL, GOOGLE_ADS, META_ADS, LINKEDIN_ADS or WHATSAPP
	Channel string `json:"channel" example:"EMAIL"`
	// Budget in cents
	BudgetCents int64 `json:"budget_cents" example:"150000"`
}

// swagger:model CampaignDetails
type CampaignDetails struct {
	CampaignID  string  `json:"campaign_id" example:"cmp_a1b2c3d4"`
	Name        string  `json:"name" example:"Spring Launch"`
	Description *string `json:"description"`
	Channel     string  `json:"channel" example:"EMAIL"`
	Status      string  `json:"status" example:"DRAFT"`
	BudgetCents int64   `json:"budget_cents"`
	SpendCents  int64   `json:"spend_cents"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	CreatedAt   string  `json:"created_at" example:"2023-10-01T12:00:00Z"`
	UpdatedAt   string  `json:"updated_at" example:"2023-10-01T12:00:00Z"`
}

// swagger:model CreateCampaignResponse
type CreateCampaignResponse struct {
	CampaignDetails
	// Message indicating successful creation
	Message string `json:"message" example:"Campaign created successfully"`
}

// swagger:model CampaignListResponse
type CampaignListResponse struct {
	Data       []CampaignDetails `json:"data"`
	Pagination PaginationDetails `json:"pagination"`
	Message    string            `json:"message"`
}

// swagger:model UpdateCampaignRequest
type UpdateCampaignRequest struct {
	Name        string  `json:"name" example:"Spring Launch v2"`
	Description *string `json:"description"`
	Status      *string `json:"status" example:"ACTIVE"`
	BudgetCents *int64  `json:"budget_cents"`
}

// swagger:model OptimizeCampaignResponse
type OptimizeCampaignResponse struct {
	// Rule-based suggestions derived from the campaign's counters
	Suggestions []string `json:"suggestions"`
	Message     string   `json:"message"`
}

// swagger:model AddTeamMemberRequest
type AddTeamMemberRequest struct {
	// Email of the member to invite
	Email string `json:"email" example:"teammate@example.com"`
	// Role: OWNER or MEMBER (defaults to MEMBER)
	Role *string `json:"role" example:"MEMBER"`
}

// swagger:model TeamMemberDetails
type TeamMemberDetails struct {
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	InvitedAt  *string `json:"invited_at"`
	AcceptedAt *string `json:"accepted_at"`
}

// swagger:model TeamListResponse
type TeamListResponse struct {
	Data    []TeamMemberDetails `json:"data"`
	Message string              `json:"message"`
}

// swagger:model SendCampaignEmailsRequest
type SendCampaignEmailsRequest struct {
	// Recipient email addresses
	Recipients []string `json:"recipients"`
	// Subject line
	Subject string `json:"subject" example:"Our spring sale is live"`
	// Email body
	Body string `json:"body"`
}

// swagger:model SendCampaignEmailsResponse
type SendCampaignEmailsResponse struct {
	// Number of emails queued for dispatch
	Queued  int    `json:"queued"`
	Message string `json:"message"`
}

// swagger:model PlanLimits
type PlanLimits struct {
	// Maximum campaigns; null means unlimited
	MaxCampaigns *int `json:"max_campaigns"`
	// Maximum team members; null means unlimited
	MaxTeamMembers *int `json:"max_team_members"`
	// Maximum emails per calendar month; null means unlimited
	MaxEmailsPerMonth *int `json:"max_emails_per_month"`
	// Whether AI campaign optimization is available
	AIOptimization bool `json:"ai_optimization"`
}

// swagger:model PlanOption
type PlanOption struct {
	// Plan identifier
	ID string `json:"id" example:"pro"`
	// Limits for this plan
	Limits PlanLimits `json:"limits"`
	// Marketing feature list
	Features []string `json:"features"`
	// Whether this is the recommended plan
	Recommended bool `json:"recommended"`
}

// swagger:model GetPlansResponse
type GetPlansResponse struct {
	Plans   []PlanOption `json:"plans"`
	Message string       `json:"message"`
}

// swagger:model GetSubscriptionResponse
type GetSubscriptionResponse struct {
	// Current plan id
	Plan string `json:"plan" example:"pro"`
	// Subscription status
	Status string `json:"status" example:"active"`
	// End of the current billing period, epoch seconds
	CurrentPeriodEnd *int64 `json:"current_period_end,omitempty"`
	// Message indicating successful retrieval
	Message string `json:"message"`
}

// swagger:model CreateCheckoutSessionRequest
type CreateCheckoutSessionRequest struct {
	// Provider price identifier for the chosen plan
	PriceID string `json:"price_id" example:"price_pro_monthly"`
}

// swagger:model CreateCheckoutSessionResponse
type CreateCheckoutSessionResponse struct {
	// Hosted checkout redirect target
	URL string `json:"url"`
}

// swagger:model WebhookResponse
type WebhookResponse struct {
	Received bool `json:"received"`
}

// swagger:model UsageItem
type UsageItem struct {
	Current    int      `json:"current"`
	Limit      *int     `json:"limit"`
	Percentage *float64 `json:"percentage"`
}

// swagger:model UsageDetails
type UsageDetails struct {
	Campaigns       UsageItem `json:"campaigns"`
	TeamMembers     UsageItem `json:"team_members"`
	EmailsThisMonth UsageItem `json:"emails_this_month"`
}

// swagger:model GetUsageResponse
type GetUsageResponse struct {
	Plan             string       `json:"plan"`
	Status           string       `json:"status"`
	Usage            UsageDetails `json:"usage"`
	AvailableActions []string     `json:"available_actions"`
	Message          string       `json:"message"`
}

// swagger:model NotificationDetails
type NotificationDetails struct {
	NID       string  `json:"nid"`
	Kind      string  `json:"kind"`
	Title     string  `json:"title"`
	Body      *string `json:"body"`
	ReadAt    *string `json:"read_at"`
	CreatedAt string  `json:"created_at"`
}

// swagger:model NotificationListResponse
type NotificationListResponse struct {
	Data    []NotificationDetails `json:"data"`
	Message string                `json:"message"`
}
