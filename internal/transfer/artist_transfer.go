package transfer

type ArtistCreation struct {
	Name        string  `json:"name" validate:"required"`
	Email       string  `json:"email" validate:"omitempty,email"`
	RoyaltyRate float64 `json:"royaltyRate" validate:"gte=0,lte=100"`
	Notes       string  `json:"notes"`
}

type ArtistUpdate struct {
	Name        *string  `json:"name"`
	Email       *string  `json:"email" validate:"omitempty,email"`
	RoyaltyRate *float64 `json:"royaltyRate" validate:"omitempty,gte=0,lte=100"`
	Notes       *string  `json:"notes"`
	Status      *string  `json:"status" validate:"omitempty,oneof=active archived"`
}

type ArtistEarningsResponse struct {
	ArtistID           int64   `json:"artistId"`
	RoyaltyRate        float64 `json:"royaltyRate"`
	From               string  `json:"from,omitempty"`
	To                 string  `json:"to,omitempty"`
	TotalEarningsCents int64   `json:"totalEarningsCents"`
	ArtistShareCents   int64   `json:"artistShareCents"`
	PlatformFeeCents   int64   `json:"platformFeeCents"`
}
