package order

import (
	"context"
	"fmt"
	"os"
	"strings"

	apperrors "github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/errors"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/eventlog"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/logging"
)

// Service is the order lifecycle state machine. It owns explicit references
// to the order store and the event log (no process-wide state): every applied
// transition produces one order-store record and one audit event, and every
// rejected operation produces one Error-level audit event without touching
// the order store.
type Service struct {
	store  *Store
	events *eventlog.Log
	log    logging.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the operational logger used for diagnostics.
func WithServiceLogger(logger logging.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.log = logger
		}
	}
}

// NewService creates the lifecycle service over the given stores.
func NewService(store *Store, events *eventlog.Log, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		events: events,
		log:    logging.NewLogger(os.Stderr, "order"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates a new order id and records it as Initiated. Allocation and
// the first append happen atomically inside the store. An Info event is
// appended to the audit trail.
//
// Returns:
//   - int: The allocated order id.
//   - error: A StoreError if either append fails.
func (s *Service) Create(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	id, err := s.store.CreateNext(StatusInitiated)
	if err != nil {
		s.log.Error("order creation failed", err)
		return 0, err
	}
	if err := s.events.Append(eventlog.LevelInfo,
		fmt.Sprintf("Pedido %d iniciado no drive-thru", id)); err != nil {
		return 0, err
	}

	s.log.Info("order created", logging.Int("order_id", id))
	return id, nil
}

// Advance applies a lifecycle transition to an existing order.
//
// A valid edge appends the new status to the order store and an Info event
// (Warning for cancellation) to the audit trail. An invalid edge leaves the
// order store untouched, appends exactly one Error event describing the
// rejection, and returns an InvalidTransitionError. An unknown id returns a
// NotFoundError, also audited.
//
// Parameters:
//   - ctx: The context for cancellation.
//   - id: The order to advance.
//   - target: The requested target status.
//
// Returns:
//   - error: nil on success; NotFoundError, InvalidTransitionError, or a
//     StoreError otherwise.
func (s *Service) Advance(ctx context.Context, id int, target Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	current, ok := s.store.Current(id)
	if !ok {
		s.audit(eventlog.LevelError, fmt.Sprintf("Pedido %d não encontrado", id))
		return apperrors.NotFoundError{ID: id}
	}

	if !CanTransition(current, target) {
		s.audit(eventlog.LevelError, rejectionMessage(id, current, target))
		s.log.Info("transition rejected",
			logging.Int("order_id", id),
			logging.String("from", current.String()),
			logging.String("to", target.String()))
		return apperrors.InvalidTransitionError{
			ID:   id,
			From: current.String(),
			To:   target.String(),
		}
	}

	if err := s.store.Append(id, target); err != nil {
		s.log.Error("transition append failed", err, logging.Int("order_id", id))
		return err
	}
	if err := s.events.Append(transitionEvent(id, target)); err != nil {
		return err
	}

	s.log.Info("order advanced",
		logging.Int("order_id", id),
		logging.String("from", current.String()),
		logging.String("to", target.String()))
	return nil
}

// Cancel is a convenience wrapper for advancing an order to Cancelled.
func (s *Service) Cancel(ctx context.Context, id int) error {
	return s.Advance(ctx, id, StatusCancelled)
}

// ReportIncident records a manually reported problem against an order as an
// Error-level audit event. Incidents never touch the order store and do not
// require the id to exist: they are a pure audit-trail operation, so problems
// observed for already-archived orders remain reportable.
//
// Parameters:
//   - ctx: The context for cancellation.
//   - id: The order the incident concerns.
//   - description: The incident description; must not be blank.
//
// Returns:
//   - error: An EmptyDescriptionError for a blank description, or a
//     StoreError if the audit append fails.
func (s *Service) ReportIncident(ctx context.Context, id int, description string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if strings.TrimSpace(description) == "" {
		s.audit(eventlog.LevelError, fmt.Sprintf("Pedido %d problema sem descrição", id))
		return apperrors.EmptyDescriptionError{ID: id}
	}

	if err := s.events.Append(eventlog.LevelError,
		fmt.Sprintf("Pedido %d %s", id, description)); err != nil {
		return err
	}

	s.log.Info("incident reported",
		logging.Int("order_id", id),
		logging.String("description", description))
	return nil
}

// Current returns the latest status of an order, and whether it exists.
func (s *Service) Current(id int) (Status, bool) {
	return s.store.Current(id)
}

// Snapshot returns the current-status index sorted by id.
func (s *Service) Snapshot() []Record {
	return s.store.Snapshot()
}

// audit appends an Error-level event on a rejection path. Audit entries on
// failure paths are best effort: the domain error already reports the
// rejection to the caller, so an audit I/O failure is downgraded to an
// operational log entry instead of masking the domain error.
func (s *Service) audit(level eventlog.Level, message string) {
	if err := s.events.Append(level, message); err != nil {
		s.log.Error("audit append failed", err, logging.String("message", message))
	}
}

// transitionEvent returns the audit level and message for a valid transition.
// Cancellations are audited as Warning, everything else as Info, matching the
// original audit trail wording.
func transitionEvent(id int, target Status) (eventlog.Level, string) {
	switch target {
	case StatusPrepared:
		return eventlog.LevelInfo, fmt.Sprintf("Pedido %d preparado na cozinha", id)
	case StatusDelivered:
		return eventlog.LevelInfo, fmt.Sprintf("Pedido %d entregue ao cliente", id)
	case StatusCancelled:
		return eventlog.LevelWarning, fmt.Sprintf("Pedido %d cancelado pelo usuário", id)
	}
	return eventlog.LevelInfo, fmt.Sprintf("Pedido %d mudou para %s", id, target)
}

// rejectionMessage describes an invalid transition in the audit trail. The
// two classic skips keep the historical wording; other invalid edges get a
// generic description.
func rejectionMessage(id int, current, target Status) string {
	switch {
	case target == StatusPrepared && current != StatusInitiated:
		return fmt.Sprintf("Pedido %d não pode ser preparado sem ter sido iniciado!", id)
	case target == StatusDelivered && current != StatusPrepared:
		return fmt.Sprintf("Pedido %d não pode ser entregue sem ter sido preparado!", id)
	default:
		return fmt.Sprintf("Pedido %d não pode ser alterado de %s para %s", id, current, target)
	}
}
