package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/notify"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNotification() notify.Notification {
	return notify.Notification{
		UserID:    "user-1",
		Kind:      notify.ImportCommitted,
		BatchID:   "batch-1",
		Message:   "import batch batch-1 was approved by user-2",
		CreatedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRedisNotifier_Notify(t *testing.T) {
	client, mock := redismock.NewClientMock()
	notifier := notify.NewRedisNotifier(client, "trust")
	n := testNotification()

	payload, err := json.Marshal(n)
	require.NoError(t, err)
	mock.ExpectRPush("trust:user-1", string(payload)).SetVal(1)

	err = notifier.Notify(context.Background(), n)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisNotifier_NotifyError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	notifier := notify.NewRedisNotifier(client, "")
	n := testNotification()

	payload, err := json.Marshal(n)
	require.NoError(t, err)
	mock.ExpectRPush("notifications:user-1", string(payload)).SetErr(errors.New("connection refused"))

	err = notifier.Notify(context.Background(), n)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "user-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogNotifier_Notify(t *testing.T) {
	assert.NoError(t, notify.LogNotifier{}.Notify(context.Background(), testNotification()))
}
