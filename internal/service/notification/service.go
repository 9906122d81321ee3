package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/push-reminder/internal/model"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/notification/mock.go -package=mocks

type notificationRepository interface {
	GetNotificationByID(ctx context.Context, id uuid.UUID) (model.Notification, error)
	GetNotificationsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)
}

type profileRepository interface {
	SetDeviceToken(ctx context.Context, userID uuid.UUID, token string) error
}

type cache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
}

const statusKeyPrefix = "notification:status:"

type Service struct {
	repo     notificationRepository
	profiles profileRepository
	cache    cache
	strategy retry.Strategy
}

func NewService(repo notificationRepository, profiles profileRepository, cache cache, strategy retry.Strategy) *Service {
	return &Service{repo: repo, profiles: profiles, cache: cache, strategy: strategy}
}

// GetNotificationStatusByID returns "pending" or "sent", reading the status
// cache first and falling back to the store on a miss.
func (s *Service) GetNotificationStatusByID(ctx context.Context, id uuid.UUID) (string, error) {
	status, err := s.cache.GetWithRetry(ctx, s.strategy, statusKey(id))
	if err == nil {
		return status, nil
	}

	if !errors.Is(err, redis.Nil) {
		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to get notification status from cache")
	}

	n, err := s.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get notification status: %w", err)
	}

	status = n.Status()
	if err := s.cache.SetWithRetry(ctx, s.strategy, statusKey(id), status); err != nil {
		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to cache notification")
	}

	return status, nil
}

func (s *Service) GetUserNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	notifications, err := s.repo.GetNotificationsByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get user notifications: %w", err)
	}

	return notifications, nil
}

// RegisterDeviceToken records the push address of a subscriber. An empty
// token unregisters the device.
func (s *Service) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	if err := s.profiles.SetDeviceToken(ctx, userID, strings.TrimSpace(token)); err != nil {
		return fmt.Errorf("register device token: %w", err)
	}

	return nil
}

// MarkCached writes status to the status cache.
func (s *Service) MarkCached(ctx context.Context, id uuid.UUID, status string) error {
	if err := s.cache.SetWithRetry(ctx, s.strategy, statusKey(id), status); err != nil {
		return fmt.Errorf("cache status: %w", err)
	}

	return nil
}

func statusKey(id uuid.UUID) string {
	return statusKeyPrefix + id.String()
}
