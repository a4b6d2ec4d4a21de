package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/infra/sessionstore"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
)

var (
	ErrSessionNotFound  = httperr.ErrBusiness("booking_not_found")
	ErrSubmitInProgress = httperr.ErrBusiness("submit_in_progress")
)

// SessionStore keeps wizards between requests. Claim/Release guard a session while
// its submission runs.
type SessionStore interface {
	Save(ctx context.Context, id string, v any, ttl time.Duration) error
	Load(ctx context.Context, id string, v any) error
	Expire(ctx context.Context, id string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Claim(ctx context.Context, id string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, id string) error
}

const saveAttempts = 3

// Submission is everything the appointment use case needs from a reviewed wizard.
type Submission struct {
	Admin       bool
	Customer    Customer
	Selection   Selection
	Date        string
	Hour        int
	Observation string
}

type Receipt struct {
	AppointmentID string
	Price         float64
}

// Submitter persists a reviewed booking.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (*Receipt, error)
}

// SlotChecker answers whether one hour is still bookable, for early feedback on step 3.
type SlotChecker interface {
	CheckSlot(ctx context.Context, sub Submission) error
}

type Options struct {
	SessionTTL    time.Duration
	ResetDelay    time.Duration
	SubmitTimeout time.Duration
	Clock         timezone.Clock
	Logger        *zap.Logger
}

type Service struct {
	store     SessionStore
	submitter Submitter
	checker   SlotChecker
	catalog   pricing.Catalog

	ttl           time.Duration
	resetDelay    time.Duration
	submitTimeout time.Duration
	now           timezone.Clock
	log           *zap.Logger
}

func NewService(
	store SessionStore,
	submitter Submitter,
	checker SlotChecker,
	catalog pricing.Catalog,
	opts Options,
) *Service {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	if opts.ResetDelay <= 0 {
		opts.ResetDelay = 5 * time.Second
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = 30 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = timezone.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Service{
		store:         store,
		submitter:     submitter,
		checker:       checker,
		catalog:       catalog,
		ttl:           opts.SessionTTL,
		resetDelay:    opts.ResetDelay,
		submitTimeout: opts.SubmitTimeout,
		now:           opts.Clock,
		log:           opts.Logger,
	}
}

func (s *Service) Start(ctx context.Context, variant Variant) (*Wizard, error) {
	w := New(uuid.NewString(), variant, s.now())
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Wizard, error) {
	return s.load(ctx, id)
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, c Customer) (*Wizard, error) {
	return s.step(ctx, id, func(w *Wizard) error {
		return w.SetCustomer(c, s.now())
	})
}

func (s *Service) UpdateService(ctx context.Context, id string, sel Selection) (*Wizard, error) {
	return s.step(ctx, id, func(w *Wizard) error {
		return w.SetSelection(sel, s.catalog, s.now())
	})
}

// UpdateDateTime checks the hour against the live snapshot before moving to the summary.
func (s *Service) UpdateDateTime(
	ctx context.Context,
	id string,
	date string,
	hour *int,
	observation string,
) (*Wizard, error) {

	return s.step(ctx, id, func(w *Wizard) error {
		if w.State != SelectingDateTime {
			return ErrInvalidTransition
		}
		if hour != nil && s.checker != nil {
			candidate := submissionOf(w)
			candidate.Date = date
			candidate.Hour = *hour
			if err := s.checker.CheckSlot(ctx, candidate); err != nil {
				return err
			}
		}
		return w.SetSlot(date, hour, observation, s.now())
	})
}

func (s *Service) Back(ctx context.Context, id string) (*Wizard, error) {
	return s.step(ctx, id, func(w *Wizard) error {
		return w.Back(s.now())
	})
}

// Recover leaves Failed, or a Submitting session whose submission died before
// recording an outcome. The latter needs the submit claim, so a live submission wins.
func (s *Service) Recover(ctx context.Context, id string) (*Wizard, error) {
	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if w.State == Submitting {
		ok, err := s.store.Claim(ctx, id, s.submitTimeout)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSubmitInProgress
		}
		defer s.release(ctx, id)

		// reload under the claim; the submission may have finished meanwhile
		if w, err = s.load(ctx, id); err != nil {
			return nil, err
		}
	}

	if err := w.Recover(s.now()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Submit runs the reviewed booking through the submitter. A failed submission is not an
// error of this call: the wizard comes back in Failed with the error code recorded.
// Only one Submit per session runs at a time; a concurrent one gets ErrSubmitInProgress.
func (s *Service) Submit(ctx context.Context, id string) (*Wizard, error) {
	ok, err := s.store.Claim(ctx, id, s.submitTimeout)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSubmitInProgress
	}
	keepClaim := false
	defer func() {
		if !keepClaim {
			s.release(ctx, id)
		}
	}()

	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := w.BeginSubmit(s.now()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}

	receipt, subErr := s.submitter.Submit(ctx, submissionOf(w))
	if subErr != nil {
		_ = w.Fail(subErr, s.now())
		if err := s.saveOutcome(ctx, w); err != nil {
			return nil, err
		}
		return w, nil
	}

	_ = w.Succeed(receipt.AppointmentID, receipt.Price, s.now())
	if err := s.saveOutcome(ctx, w); err != nil {
		// The appointment exists but the session still says Submitting. Holding the
		// claim until it lapses keeps a retry from booking it twice.
		keepClaim = true
		s.log.Error("booking outcome not recorded",
			zap.String("booking_id", w.ID),
			zap.String("appointment_id", receipt.AppointmentID),
			zap.Error(err),
		)
		return nil, err
	}

	// The UI resets a moment after success; the session goes with it.
	if err := s.store.Expire(ctx, w.ID, s.resetDelay); err != nil {
		s.log.Warn("booking session reset failed", zap.String("booking_id", w.ID), zap.Error(err))
	}

	return w, nil
}

// Discard drops a session, the equivalent of closing the booking form.
func (s *Service) Discard(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) step(ctx context.Context, id string, fn func(w *Wizard) error) (*Wizard, error) {
	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(w); err != nil {
		return nil, err
	}
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) load(ctx context.Context, id string) (*Wizard, error) {
	var w Wizard
	err := s.store.Load(ctx, id, &w)
	if errors.Is(err, sessionstore.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Service) save(ctx context.Context, w *Wizard) error {
	return s.store.Save(ctx, w.ID, w, s.ttl)
}

// saveOutcome retries the save that closes a submission; a lost write here strands
// the session in Submitting.
func (s *Service) saveOutcome(ctx context.Context, w *Wizard) error {
	var err error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
		}
		if err = s.save(context.WithoutCancel(ctx), w); err == nil {
			return nil
		}
	}
	return err
}

func (s *Service) release(ctx context.Context, id string) {
	if err := s.store.Release(context.WithoutCancel(ctx), id); err != nil {
		s.log.Warn("booking submit claim not released", zap.String("booking_id", id), zap.Error(err))
	}
}

func submissionOf(w *Wizard) Submission {
	sub := Submission{
		Admin:       w.IsAdmin(),
		Customer:    w.Customer,
		Selection:   w.Selection,
		Date:        w.Slot.Date,
		Observation: w.Observation,
	}
	if w.Slot.Hour != nil {
		sub.Hour = *w.Slot.Hour
	}
	return sub
}

// Family of the selected service, empty before step 2.
func (w *Wizard) Family() service.Family {
	return w.Selection.Service.Family()
}
