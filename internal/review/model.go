// Package review stores product comments with a 1-5 star rating.
package review

import "time"

const (
	MinRating = 1
	MaxRating = 5

	// MaxTextLen is counted in characters, not bytes.
	MaxTextLen = 500
)

type Comment struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// StarCount is one bar of the rating histogram.
type StarCount struct {
	Stars   int     `json:"stars"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type Summary struct {
	Total   int         `json:"total"`
	Average float64     `json:"average"`
	Stars   []StarCount `json:"stars"`
}

// AddCommentRequest payload for commenting on a product.
// swagger:model AddCommentRequest
type AddCommentRequest struct {
	Text   string `json:"text"   example:"Great fit, good fabric"`
	Rating int    `json:"rating" example:"5"`
}

// ProductComments is what the product page shows under the description.
// swagger:model ProductComments
type ProductComments struct {
	Comments []Comment `json:"comments"`
	Summary  Summary   `json:"summary"`
}
