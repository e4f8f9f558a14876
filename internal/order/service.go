package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Requester is the identity asking for an order operation.
type Requester struct {
	UserID string
	Admin  bool
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// load returns the order if by may act on it. Missing and foreign orders
// look the same to a customer.
func (s *Service) load(ctx context.Context, id string, by Requester, asStaff bool) (*Order, []Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		if asStaff {
			return nil, nil, ErrNotFound
		}
		return nil, nil, ErrForbidden
	}
	o, items, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) && !asStaff {
		return nil, nil, ErrForbidden
	}
	if err != nil {
		return nil, nil, err
	}
	if !asStaff && !o.OwnedBy(by.UserID) {
		return nil, nil, ErrForbidden
	}
	return o, items, nil
}

// Get returns an order and its items to its owner or to staff.
func (s *Service) Get(ctx context.Context, id string, by Requester) (*Detail, error) {
	o, items, err := s.load(ctx, id, by, by.Admin)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Item{}
	}
	return &Detail{Order: *o, Items: items}, nil
}

// Transition runs one lifecycle action. Customer actions need ownership,
// staff actions need an admin requester. The write is conditional on the
// status read here, so a concurrent change turns into ErrInvalidTransition.
func (s *Service) Transition(ctx context.Context, id string, by Requester, action Action, p Payload) (*Order, error) {
	if action.AdminOnly() && !by.Admin {
		return nil, ErrForbidden
	}
	o, _, err := s.load(ctx, id, by, action.AdminOnly())
	if err != nil {
		return nil, err
	}

	from := o.Status
	next := *o
	if err := Apply(&next, action, p, s.now()); err != nil {
		return nil, err
	}
	ok, err := s.repo.Save(ctx, Transition{Order: next, From: from})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	log.WithFields(log.Fields{
		"order_id": id,
		"action":   action,
		"from":     from,
		"to":       next.Status,
	}).Info("order transitioned")
	return &next, nil
}

// ListOrders returns the user's orders, newest first, with return flags
// evaluated against the current time.
func (s *Service) ListOrders(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	if userID == "" {
		return nil, ErrForbidden
	}
	orders, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]Summary, 0, len(orders))
	for _, o := range orders {
		days, can := ReturnEligibility(&o, now)
		out = append(out, Summary{Order: o, ReturnDaysLeft: days, CanReturn: can})
	}
	return out, nil
}

// BulkTransition applies a staff action to every listed order that passes
// its guard and returns how many changed. Unknown ids are skipped.
func (s *Service) BulkTransition(ctx context.Context, ids []string, action Action) (int, error) {
	if !action.AdminOnly() {
		return 0, ErrInvalidTransition
	}
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return 0, nil
	}

	orders, err := s.repo.ListByIDs(ctx, valid)
	if err != nil {
		return 0, err
	}
	_, ts := ApplyBulk(orders, action, s.now())
	if len(ts) == 0 {
		return 0, nil
	}
	n, err := s.repo.SaveAll(ctx, ts)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{
		"action":      action,
		"requested":   len(ids),
		"transitions": n,
	}).Info("bulk order action")
	return n, nil
}
