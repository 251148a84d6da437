package domain

// Headers the staff API reads the caller's scope from.
const (
	HeaderAccessLevel  = "X-Access-Level"
	HeaderBusinessCode = "X-Business-Code"
	HeaderVenueCode    = "X-Venue-Code"
)

// AuthContext carries the signed-in user's scoping. It is resolved once per
// panel mount and passed into every remote call.
type AuthContext struct {
	BusinessCode string      `json:"business_code"`
	VenueCode    string      `json:"venue_code,omitempty"`
	AccessLevel  AccessLevel `json:"access_level"`
}

// Scoped reports whether a business code is present.
func (a AuthContext) Scoped() bool {
	return a.BusinessCode != ""
}

// CanAdminister reports whether the level may manage staff.
func (a AuthContext) CanAdminister() bool {
	return a.AccessLevel == AccessLevelManager || a.AccessLevel == AccessLevelSystemAdmin
}
