package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/push-reminder/internal/model"
	"github.com/aliskhannn/push-reminder/internal/reminder"
	"github.com/aliskhannn/push-reminder/internal/repository/preference"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/reminder/mock.go -package=mocks

type notificationRepository interface {
	Insert(ctx context.Context, notifications []model.Notification) ([]uuid.UUID, error)
}

type profileRepository interface {
	ListSubscriberIDs(ctx context.Context) ([]uuid.UUID, error)
}

type preferenceRepository interface {
	GetOffsets(ctx context.Context, userID uuid.UUID) (model.Preference, error)
	UpsertOffsets(ctx context.Context, userID uuid.UUID, offsets []float64) error
}

type statusCache interface {
	MarkCached(ctx context.Context, id uuid.UUID, status string) error
}

type Service struct {
	notifications  notificationRepository
	profiles       profileRepository
	preferences    preferenceRepository
	cache          statusCache
	loc            *time.Location
	defaultOffsets []float64
}

// NewService creates a reminder service. loc is the zone event wall-clock
// times are written in; defaultOffsets apply to subscribers without a stored
// preference.
func NewService(
	notifications notificationRepository,
	profiles profileRepository,
	preferences preferenceRepository,
	cache statusCache,
	loc *time.Location,
	defaultOffsets []float64,
) *Service {
	return &Service{
		notifications:  notifications,
		profiles:       profiles,
		preferences:    preferences,
		cache:          cache,
		loc:            loc,
		defaultOffsets: defaultOffsets,
	}
}

// ScheduleEventReminders materializes the reminders of event and inserts them
// atomically. Explicit offsets apply to every subscriber; otherwise each
// subscriber's stored preference is used, falling back to the defaults.
func (s *Service) ScheduleEventReminders(ctx context.Context, event model.Event, offsets []float64) ([]uuid.UUID, error) {
	due, err := reminder.DueInstant(event.DueDate, event.DueTime, s.loc)
	if err != nil {
		return nil, fmt.Errorf("resolve due instant: %w", err)
	}

	subscribers, err := s.subscribers(ctx, event)
	if err != nil {
		return nil, err
	}

	if len(subscribers) == 0 {
		zlog.Logger.Warn().Str("title", event.Title).Msg("event has no subscribers, nothing to schedule")
		return nil, nil
	}

	var records []model.Notification
	if len(offsets) > 0 {
		records, err = reminder.Materialize(event, due, offsets, subscribers)
		if err != nil {
			return nil, fmt.Errorf("materialize reminders: %w", err)
		}
	} else {
		for _, userID := range subscribers {
			userOffsets, err := s.offsetsFor(ctx, userID)
			if err != nil {
				return nil, err
			}

			batch, err := reminder.Materialize(event, due, userOffsets, []uuid.UUID{userID})
			if err != nil {
				return nil, fmt.Errorf("materialize reminders: %w", err)
			}

			records = append(records, batch...)
		}
	}

	ids, err := s.notifications.Insert(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("insert reminders: %w", err)
	}

	for _, id := range ids {
		if err := s.cache.MarkCached(ctx, id, model.StatusPending); err != nil {
			zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to cache notification")
		}
	}

	zlog.Logger.Info().Str("title", event.Title).Int("count", len(ids)).Time("due", due).Msg("reminders scheduled")

	return ids, nil
}

// SetPreferences stores the default offsets of a subscriber.
func (s *Service) SetPreferences(ctx context.Context, userID uuid.UUID, offsets []float64) error {
	if err := reminder.ValidateOffsets(offsets); err != nil {
		return err
	}

	if err := s.preferences.UpsertOffsets(ctx, userID, offsets); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}

	return nil
}

// GetPreferences returns the stored offsets of a subscriber, or the defaults
// if none are stored.
func (s *Service) GetPreferences(ctx context.Context, userID uuid.UUID) (model.Preference, error) {
	p, err := s.preferences.GetOffsets(ctx, userID)
	if errors.Is(err, preference.ErrPreferenceNotFound) {
		return model.Preference{UserID: userID, Offsets: s.defaultOffsets}, nil
	}
	if err != nil {
		return model.Preference{}, fmt.Errorf("get preferences: %w", err)
	}

	return p, nil
}

func (s *Service) subscribers(ctx context.Context, event model.Event) ([]uuid.UUID, error) {
	ids := event.SubscriberIDs
	if len(ids) == 0 && event.IsPublic {
		all, err := s.profiles.ListSubscriberIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("list subscribers: %w", err)
		}
		ids = all
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	return unique, nil
}

func (s *Service) offsetsFor(ctx context.Context, userID uuid.UUID) ([]float64, error) {
	p, err := s.preferences.GetOffsets(ctx, userID)
	if err != nil && !errors.Is(err, preference.ErrPreferenceNotFound) {
		return nil, fmt.Errorf("get preferences of %s: %w", userID, err)
	}

	if len(p.Offsets) == 0 {
		return s.defaultOffsets, nil
	}

	return p.Offsets, nil
}
