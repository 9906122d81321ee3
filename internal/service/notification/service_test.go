package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/aliskhannn/push-reminder/internal/mocks/service/notification"
	"github.com/aliskhannn/push-reminder/internal/model"
	"github.com/aliskhannn/push-reminder/internal/repository/notification"
)

var strategy = retry.Strategy{Attempts: 1}

func TestService_GetNotificationStatusByID_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(nil, nil, cacheMock, strategy)

	id := uuid.New()

	cacheMock.EXPECT().GetWithRetry(gomock.Any(), strategy, statusKey(id)).Return(model.StatusPending, nil)

	status, err := svc.GetNotificationStatusByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, status)
}

func TestService_GetNotificationStatusByID_CacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMocknotificationRepository(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, nil, cacheMock, strategy)

	id := uuid.New()
	sentAt := time.Now()

	cacheMock.EXPECT().GetWithRetry(gomock.Any(), strategy, statusKey(id)).Return("", redis.Nil)
	repoMock.EXPECT().GetNotificationByID(gomock.Any(), id).Return(model.Notification{ID: id, Sent: true, SentAt: &sentAt}, nil)
	cacheMock.EXPECT().SetWithRetry(gomock.Any(), strategy, statusKey(id), model.StatusSent).Return(nil)

	status, err := svc.GetNotificationStatusByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusSent, status)
}

func TestService_GetNotificationStatusByID_CacheDownFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMocknotificationRepository(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, nil, cacheMock, strategy)

	id := uuid.New()

	cacheMock.EXPECT().GetWithRetry(gomock.Any(), strategy, statusKey(id)).Return("", errors.New("connection refused"))
	repoMock.EXPECT().GetNotificationByID(gomock.Any(), id).Return(model.Notification{ID: id}, nil)
	cacheMock.EXPECT().SetWithRetry(gomock.Any(), strategy, statusKey(id), model.StatusPending).Return(errors.New("connection refused"))

	status, err := svc.GetNotificationStatusByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, status)
}

func TestService_GetNotificationStatusByID_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMocknotificationRepository(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, nil, cacheMock, strategy)

	id := uuid.New()

	cacheMock.EXPECT().GetWithRetry(gomock.Any(), strategy, statusKey(id)).Return("", redis.Nil)
	repoMock.EXPECT().GetNotificationByID(gomock.Any(), id).Return(model.Notification{}, notification.ErrNotificationNotFound)

	_, err := svc.GetNotificationStatusByID(context.Background(), id)
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
}

func TestService_GetUserNotifications(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMocknotificationRepository(ctrl)
	svc := NewService(repoMock, nil, nil, strategy)

	userID := uuid.New()
	notifications := []model.Notification{
		{ID: uuid.New(), UserID: userID, Title: "Reminder: a"},
		{ID: uuid.New(), UserID: userID, Title: "Reminder: b"},
	}

	repoMock.EXPECT().GetNotificationsByUser(gomock.Any(), userID, 50).Return(notifications, nil)

	result, err := svc.GetUserNotifications(context.Background(), userID, 50)
	assert.NoError(t, err)
	assert.Equal(t, notifications, result)
}

func TestService_RegisterDeviceToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	profileMock := mocks.NewMockprofileRepository(ctrl)
	svc := NewService(nil, profileMock, nil, strategy)

	userID := uuid.New()

	profileMock.EXPECT().SetDeviceToken(gomock.Any(), userID, "fcm-token").Return(nil)
	assert.NoError(t, svc.RegisterDeviceToken(context.Background(), userID, " fcm-token "))
}

func TestService_MarkCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(nil, nil, cacheMock, strategy)

	id := uuid.New()
	cacheErr := errors.New("timeout")

	cacheMock.EXPECT().SetWithRetry(gomock.Any(), strategy, statusKey(id), model.StatusSent).Return(nil)
	assert.NoError(t, svc.MarkCached(context.Background(), id, model.StatusSent))

	cacheMock.EXPECT().SetWithRetry(gomock.Any(), strategy, statusKey(id), model.StatusSent).Return(cacheErr)
	assert.ErrorIs(t, svc.MarkCached(context.Background(), id, model.StatusSent), cacheErr)
}
