package review

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/MikeMC777/tienda-ecom/internal/product"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrTextTooLong = errors.New("comment is longer than 500 characters")
)

type Service struct {
	repo    Repository
	catalog product.Catalog
}

func NewService(repo Repository, catalog product.Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// ClampRating forces r into [MinRating, MaxRating].
func ClampRating(r int) int {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}

// Add stores a comment. Blank text is ignored and returns (nil, nil).
func (s *Service) Add(ctx context.Context, productID, userID, text string, rating int) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(text) > MaxTextLen {
		return nil, ErrTextTooLong
	}
	if userID == "" {
		return nil, ErrForbidden
	}
	p, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		return nil, err
	}

	c := &Comment{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		UserID:    userID,
		Text:      text,
		Rating:    ClampRating(rating),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a comment written by userID. Anything else, including a
// comment that does not exist, is ErrForbidden.
func (s *Service) Delete(ctx context.Context, commentID, userID string) error {
	if _, err := uuid.Parse(commentID); err != nil {
		return ErrForbidden
	}
	c, err := s.repo.GetByID(ctx, commentID)
	if errors.Is(err, ErrNotFound) {
		return ErrForbidden
	}
	if err != nil {
		return err
	}
	if userID == "" || c.UserID != userID {
		return ErrForbidden
	}
	if _, err := s.repo.Delete(ctx, commentID); err != nil {
		return err
	}
	log.WithFields(log.Fields{"comment_id": commentID, "product_id": c.ProductID}).Info("comment deleted")
	return nil
}

func (s *Service) ForProduct(ctx context.Context, productID string) (*ProductComments, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, product.ErrNotFound
	}
	cs, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		cs = []Comment{}
	}
	return &ProductComments{Comments: cs, Summary: Summarize(cs)}, nil
}

// Summarize builds the rating histogram, stars 5 down to 1.
func Summarize(cs []Comment) Summary {
	counts := make(map[int]int, MaxRating)
	sum := 0
	for _, c := range cs {
		r := ClampRating(c.Rating)
		counts[r]++
		sum += r
	}

	out := Summary{Total: len(cs), Stars: make([]StarCount, 0, MaxRating)}
	if out.Total > 0 {
		out.Average = math.Round(float64(sum)/float64(out.Total)*10) / 10
	}
	for star := MaxRating; star >= MinRating; star-- {
		sc := StarCount{Stars: star, Count: counts[star]}
		if out.Total > 0 {
			sc.Percent = math.Round(float64(sc.Count)*1000/float64(out.Total)) / 10
		}
		out.Stars = append(out.Stars, sc)
	}
	return out
}
