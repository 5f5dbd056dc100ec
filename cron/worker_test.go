package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"quickstay/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockExpirer struct {
	mock.Mock
}

func (m *MockExpirer) ExpireStale(ctx context.Context, olderThan time.Duration) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

func TestHandleExpirePending(t *testing.T) {
	svc := new(MockExpirer)
	h := HandleExpirePending(svc, zap.NewNop())
	task, _, err := tasks.NewExpirePendingTask(15 * time.Minute)
	require.NoError(t, err)

	svc.On("ExpireStale", mock.Anything, 15*time.Minute).Return(3, nil).Once()
	assert.NoError(t, h(context.Background(), task))

	boom := errors.New("mongo down")
	svc.On("ExpireStale", mock.Anything, 15*time.Minute).Return(0, boom).Once()
	assert.ErrorIs(t, h(context.Background(), task), boom)

	svc.AssertExpectations(t)
}

func TestHandleExpirePending_BadPayloadSkipsRetry(t *testing.T) {
	svc := new(MockExpirer)
	h := HandleExpirePending(svc, zap.NewNop())

	err := h(context.Background(), asynq.NewTask(tasks.TypeExpirePending, []byte(`{}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	svc.AssertNotCalled(t, "ExpireStale", mock.Anything, mock.Anything)
}

func TestNewSweeper_RejectsBadSchedule(t *testing.T) {
	opts := asynq.RedisClientOpt{Addr: "127.0.0.1:1"}

	_, err := NewSweeper(opts, "every so often", time.Minute, new(MockExpirer), zap.NewNop())
	assert.Error(t, err)

	_, err = NewSweeper(opts, "@every 5m", 0, new(MockExpirer), zap.NewNop())
	assert.Error(t, err)
}
