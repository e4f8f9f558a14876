package order

import (
	"strings"
	"time"
)

// ReturnWindow is how long after creation a completed order may be returned
// or exchanged.
const ReturnWindow = 7 * 24 * time.Hour

type Action string

const (
	ActionCancel          Action = "cancel"
	ActionRequestReturn   Action = "request_return"
	ActionRequestExchange Action = "request_exchange"

	ActionMarkShipped     Action = "mark_shipped"
	ActionMarkCompleted   Action = "mark_completed"
	ActionApproveReturn   Action = "approve_return"
	ActionRejectReturn    Action = "reject_return"
	ActionApproveExchange Action = "approve_exchange"
)

var adminActions = map[Action]bool{
	ActionMarkShipped:     true,
	ActionMarkCompleted:   true,
	ActionApproveReturn:   true,
	ActionRejectReturn:    true,
	ActionApproveExchange: true,
}

// ParseAdminAction accepts only the actions staff may run, singly or in bulk.
func ParseAdminAction(s string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	return a, adminActions[a]
}

func (a Action) AdminOnly() bool { return adminActions[a] }

// Payload carries the customer-supplied text for return and exchange requests.
type Payload struct {
	Reason             string `json:"reason"`
	ReplacementProduct string `json:"new_product"`
}

func ReturnDeadline(o *Order) time.Time {
	return o.CreatedAt.Add(ReturnWindow)
}

// ReturnEligibility reports the whole days left to return or exchange o and
// whether a request would currently be accepted. A window with less than a
// day left still reports one day.
func ReturnEligibility(o *Order, now time.Time) (int, bool) {
	if o.Status != StatusCompleted {
		return 0, false
	}
	deadline := ReturnDeadline(o)
	if now.After(deadline) {
		return 0, false
	}
	days := int(deadline.Sub(now) / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	return days, true
}

// Apply moves o through action, or returns why it cannot. o is untouched on
// error. Ownership and role checks are the caller's job.
func Apply(o *Order, action Action, p Payload, now time.Time) error {
	switch action {
	case ActionCancel:
		if o.Status != StatusPending {
			return ErrInvalidTransition
		}
		o.Status = StatusCancelled

	case ActionMarkShipped:
		if o.Status != StatusPending {
			return ErrInvalidTransition
		}
		o.Status = StatusShipped

	case ActionMarkCompleted:
		if o.Status != StatusShipped {
			return ErrInvalidTransition
		}
		o.Status = StatusCompleted
		o.Paid = true

	case ActionRequestReturn:
		if err := checkWindow(o, now); err != nil {
			return err
		}
		reason := strings.TrimSpace(p.Reason)
		if reason == "" {
			return &ValidationError{Fields: map[string]string{"reason": "required"}}
		}
		o.Status = StatusReturnRequested
		o.ReturnReason = reason
		o.RefundStatus = RefundPending

	case ActionRequestExchange:
		if err := checkWindow(o, now); err != nil {
			return err
		}
		reason := strings.TrimSpace(p.Reason)
		replacement := strings.TrimSpace(p.ReplacementProduct)
		v := &ValidationError{}
		if reason == "" {
			v.add("reason", "required")
		}
		if replacement == "" {
			v.add("new_product", "required")
		}
		if err := v.orNil(); err != nil {
			return err
		}
		o.Status = StatusExchangeRequested
		o.ExchangeReason = reason
		o.ExchangeProduct = replacement

	case ActionApproveReturn:
		if o.Status != StatusReturnRequested {
			return ErrInvalidTransition
		}
		o.Status = StatusReturned
		o.RefundStatus = Refunded
		o.Paid = false

	case ActionRejectReturn:
		if o.Status != StatusReturnRequested {
			return ErrInvalidTransition
		}
		// back to COMPLETED; the window still counts from CreatedAt
		o.Status = StatusCompleted
		o.RefundStatus = NotRefunded

	case ActionApproveExchange:
		if o.Status != StatusExchangeRequested {
			return ErrInvalidTransition
		}
		o.Status = StatusExchanged

	default:
		return ErrInvalidTransition
	}

	o.UpdatedAt = now
	return nil
}

func checkWindow(o *Order, now time.Time) error {
	if o.Status != StatusCompleted {
		return ErrInvalidTransition
	}
	if now.After(ReturnDeadline(o)) {
		return ErrWindowExpired
	}
	return nil
}

// Transition is an order after a successful Apply together with the status
// it had before, used as the compare-and-set guard when saving.
type Transition struct {
	Order Order
	From  Status
}

// ApplyBulk applies action to each order independently. Orders failing the
// guard are skipped; the count is the number actually transitioned.
func ApplyBulk(orders []Order, action Action, now time.Time) (int, []Transition) {
	var out []Transition
	for _, o := range orders {
		next := o
		if err := Apply(&next, action, Payload{}, now); err != nil {
			continue
		}
		out = append(out, Transition{Order: next, From: o.Status})
	}
	return len(out), out
}
