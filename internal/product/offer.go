package product

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Offer banner placements on the storefront.
const (
	PositionTop   = "top"
	PositionCard  = "card"
	PositionPopup = "popup"
)

// Offer is a promotional banner shown while active and inside its window.
type Offer struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	Position  string    `json:"position"`
	Active    bool      `json:"is_active"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// LiveAt reports whether the banner should be displayed at now. Both ends
// of the window are inclusive.
func (o *Offer) LiveAt(now time.Time) bool {
	return o.Active && !now.Before(o.StartDate) && !now.After(o.EndDate)
}

// CreateOfferRequest payload for a new banner.
// swagger:model CreateOfferRequest
type CreateOfferRequest struct {
	Title     string    `json:"title"      example:"Summer sale"`
	Subtitle  string    `json:"subtitle"   example:"Up to 30% off footwear"`
	Position  string    `json:"position"   example:"top"`
	Active    *bool     `json:"is_active"`
	StartDate time.Time `json:"start_date" example:"2025-06-01T00:00:00Z"`
	EndDate   time.Time `json:"end_date"   example:"2025-06-30T23:59:59Z"`
}

// ToOffer validates the request and builds an offer with a fresh id.
// is_active defaults to true.
func (r CreateOfferRequest) ToOffer() (*Offer, error) {
	o := &Offer{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(r.Title),
		Subtitle:  strings.TrimSpace(r.Subtitle),
		Position:  strings.ToLower(strings.TrimSpace(r.Position)),
		Active:    true,
		StartDate: r.StartDate.UTC(),
		EndDate:   r.EndDate.UTC(),
	}
	if r.Active != nil {
		o.Active = *r.Active
	}

	switch {
	case o.Title == "":
		return nil, errors.Wrap(ErrInvalid, "title is required")
	case utf8.RuneCountInString(o.Title) > 200:
		return nil, errors.Wrap(ErrInvalid, "title must be at most 200 characters")
	case utf8.RuneCountInString(o.Subtitle) > 255:
		return nil, errors.Wrap(ErrInvalid, "subtitle must be at most 255 characters")
	}
	switch o.Position {
	case PositionTop, PositionCard, PositionPopup:
	default:
		return nil, errors.Wrap(ErrInvalid, "position must be top, card or popup")
	}
	if o.StartDate.IsZero() || o.EndDate.IsZero() {
		return nil, errors.Wrap(ErrInvalid, "start_date and end_date are required")
	}
	if o.EndDate.Before(o.StartDate) {
		return nil, errors.Wrap(ErrInvalid, "end_date must not be before start_date")
	}
	return o, nil
}
