package model

import (
	"time"

	"github.com/google/uuid"
)

// TeeShirtSize is stored by name. The _M/_W suffix distinguishes
// men's and women's cuts.
type TeeShirtSize string

const (
	TeeShirtNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	TeeShirtXSM          TeeShirtSize = "XS_M"
	TeeShirtXSW          TeeShirtSize = "XS_W"
	TeeShirtSM           TeeShirtSize = "S_M"
	TeeShirtSW           TeeShirtSize = "S_W"
	TeeShirtMM           TeeShirtSize = "M_M"
	TeeShirtMW           TeeShirtSize = "M_W"
	TeeShirtLM           TeeShirtSize = "L_M"
	TeeShirtLW           TeeShirtSize = "L_W"
	TeeShirtXLM          TeeShirtSize = "XL_M"
	TeeShirtXLW          TeeShirtSize = "XL_W"
	TeeShirtXXLM         TeeShirtSize = "XXL_M"
	TeeShirtXXLW         TeeShirtSize = "XXL_W"
	TeeShirtXXXLM        TeeShirtSize = "XXXL_M"
	TeeShirtXXXLW        TeeShirtSize = "XXXL_W"
)

var teeShirtSizes = map[TeeShirtSize]struct{}{
	TeeShirtNotSpecified: {},
	TeeShirtXSM:          {},
	TeeShirtXSW:          {},
	TeeShirtSM:           {},
	TeeShirtSW:           {},
	TeeShirtMM:           {},
	TeeShirtMW:           {},
	TeeShirtLM:           {},
	TeeShirtLW:           {},
	TeeShirtXLM:          {},
	TeeShirtXLW:          {},
	TeeShirtXXLM:         {},
	TeeShirtXXLW:         {},
	TeeShirtXXXLM:        {},
	TeeShirtXXXLW:        {},
}

// IsValidTeeShirtSize reports whether s names a known size.
func IsValidTeeShirtSize(s string) bool {
	_, ok := teeShirtSizes[TeeShirtSize(s)]
	return ok
}

// Profile is created lazily on first authenticated access, seeded from
// the identity token claims.
type Profile struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	DisplayName  string       `json:"display_name" db:"display_name"`
	MainEmail    string       `json:"main_email" db:"main_email"`
	TeeShirtSize TeeShirtSize `json:"tee_shirt_size" db:"tee_shirt_size"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// ProfileForm is the inbound save payload. Empty fields leave the
// stored values untouched.
type ProfileForm struct {
	DisplayName  string `json:"displayName"`
	TeeShirtSize string `json:"teeShirtSize"`
}

// ProfileResponse is the outbound wire shape.
type ProfileResponse struct {
	DisplayName  string `json:"displayName"`
	MainEmail    string `json:"mainEmail"`
	TeeShirtSize string `json:"teeShirtSize"`
}

func (p *Profile) ToResponse() ProfileResponse {
	return ProfileResponse{
		DisplayName:  p.DisplayName,
		MainEmail:    p.MainEmail,
		TeeShirtSize: string(p.TeeShirtSize),
	}
}
