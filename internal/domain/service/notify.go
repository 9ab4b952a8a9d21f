package service

import (
	"context"
	"time"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/utils/location"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/pkg/logger/types"
)

// Trigger is one of the three time-based notification conditions.
type Trigger string

const (
	TriggerPreStart Trigger = "pre_start"
	TriggerStart    Trigger = "start"
	TriggerEnd      Trigger = "end"
)

// Column returns the enrollment column guarding this trigger.
func (t Trigger) Column() string {
	switch t {
	case TriggerPreStart:
		return "pre_start_notified"
	case TriggerStart:
		return "start_notified"
	default:
		return "end_notified"
	}
}

type notifyEventGameStorage interface {
	GetAll(ctx context.Context) ([]entity.EventGame, error)
}

type notifyEnrollmentStorage interface {
	GetByEventID(ctx context.Context, eventID string) ([]entity.Enrollment, error)
	SetNotified(ctx context.Context, userID int64, eventID string, column string) error
}

type notifyUserStorage interface {
	Get(ctx context.Context, id int64) (*entity.User, error)
}

type notifier interface {
	Notify(user *entity.User, game entity.EventGame, trigger Trigger) error
}

// NotifyService delivers each of the three time-triggered notifications
// exactly once per user per event, guarded by the persisted enrollment flags.
type NotifyService struct {
	eventGameStorage  notifyEventGameStorage
	enrollmentStorage notifyEnrollmentStorage
	userStorage       notifyUserStorage
	notifier          notifier

	cadence      time.Duration
	preStartLead time.Duration
	now          func() time.Time

	logger *types.Logger
	done   chan struct{}
}

func NewNotifyService(
	eventGameStorage notifyEventGameStorage,
	enrollmentStorage notifyEnrollmentStorage,
	userStorage notifyUserStorage,
	notifier notifier,
	cadence time.Duration,
	preStartLead time.Duration,
	logger *types.Logger,
) *NotifyService {
	return &NotifyService{
		eventGameStorage:  eventGameStorage,
		enrollmentStorage: enrollmentStorage,
		userStorage:       userStorage,
		notifier:          notifier,
		cadence:           cadence,
		preStartLead:      preStartLead,
		now: func() time.Time {
			return time.Now().In(location.Location())
		},
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start runs the scheduler until ctx is canceled. An in-flight pass always
// finishes; Wait blocks until the scheduler has drained.
func (s *NotifyService) Start(ctx context.Context) {
	s.logger.Info("Starting notify scheduler")
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.cadence)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.checkAndNotify(context.Background())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Wait blocks until the scheduler goroutine has exited.
func (s *NotifyService) Wait() {
	<-s.done
}

// checkAndNotify is a single scheduler pass over every event game and every
// enrollment on it. Per-item errors are logged and skipped, never abort the
// pass.
func (s *NotifyService) checkAndNotify(ctx context.Context) {
	now := s.now()

	games, err := s.eventGameStorage.GetAll(ctx)
	if err != nil {
		s.logger.Errorf("failed to get event games: %v", err)
		return
	}

	for _, game := range games {
		due := map[Trigger]bool{
			TriggerPreStart: !now.Before(game.StartTime.Add(-s.preStartLead)),
			TriggerStart:    !now.Before(game.StartTime),
			TriggerEnd:      !now.Before(game.EndTime),
		}
		if !due[TriggerPreStart] && !due[TriggerStart] && !due[TriggerEnd] {
			continue
		}

		enrollments, errGet := s.enrollmentStorage.GetByEventID(ctx, game.EventID)
		if errGet != nil {
			s.logger.Errorf("failed to get enrollments for event %s: %v", game.EventID, errGet)
			continue
		}

		for _, enrollment := range enrollments {
			s.notifyEnrollment(ctx, game, enrollment, due)
		}
	}
}

// notifyEnrollment evaluates the three triggers in pre-start -> start -> end
// order, so a pass that wakes up long after several boundaries delivers the
// missed notifications once each, in that order.
func (s *NotifyService) notifyEnrollment(ctx context.Context, game entity.EventGame, enrollment entity.Enrollment, due map[Trigger]bool) {
	sent := map[Trigger]bool{
		TriggerPreStart: enrollment.PreStartNotified,
		TriggerStart:    enrollment.StartNotified,
		TriggerEnd:      enrollment.EndNotified,
	}

	for _, trigger := range []Trigger{TriggerPreStart, TriggerStart, TriggerEnd} {
		if !due[trigger] || sent[trigger] {
			continue
		}

		user, err := s.userStorage.Get(ctx, enrollment.UserID)
		if err != nil {
			s.logger.Errorf("failed to get user %d: %v", enrollment.UserID, err)
			return
		}

		s.logger.Infof(
			"Sending %s notification (user_id=%d, event_id=%s)",
			trigger, enrollment.UserID, game.EventID,
		)
		if err = s.notifier.Notify(user, game, trigger); err != nil {
			s.logger.Errorf("failed to notify user %d about event %s: %v", enrollment.UserID, game.EventID, err)
			continue
		}

		if err = s.enrollmentStorage.SetNotified(ctx, enrollment.UserID, game.EventID, trigger.Column()); err != nil {
			s.logger.Errorf("failed to record %s notification (user_id=%d, event_id=%s): %v",
				trigger, enrollment.UserID, game.EventID, err)
		}
	}
}
