package domain

// Identity is the authenticated principal. A system operator carries no
// tenant; every other role belongs to exactly one tenant at a time.
type Identity struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
}

// Tenant is the company scope a non-system identity operates within.
type Tenant struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
}
