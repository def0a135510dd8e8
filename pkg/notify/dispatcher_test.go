package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/roadwatch/roadwatch/pkg/alerts"
	"github.com/stretchr/testify/assert"
)

type fakeSender struct {
	err   error
	sent  []alerts.Alert
	token string
}

func (s *fakeSender) SendAlert(_ context.Context, pushToken string, alert alerts.Alert) error {
	if s.err != nil {
		return s.err
	}

	s.token = pushToken
	s.sent = append(s.sent, alert)

	return nil
}

type fakeSaver struct {
	err    error
	saved  []alerts.Alert
	userID string
}

func (s *fakeSaver) Insert(_ context.Context, alert alerts.Alert, userID string) error {
	if s.err != nil {
		return s.err
	}

	s.userID = userID
	s.saved = append(s.saved, alert)

	return nil
}

func testJob() DispatchJob {
	return DispatchJob{
		PushToken: "ExponentPushToken[abc]",
		UserID:    "user-1",
		Alert:     testAlert(alerts.AlertTypeTraffic),
	}
}

func TestDispatchSendsThenSaves(t *testing.T) {
	sender := &fakeSender{}
	saver := &fakeSaver{}

	deliveryErr, persistenceErr := NewDispatcher(sender, saver).Dispatch(context.Background(), testJob())

	assert.NoError(t, deliveryErr)
	assert.NoError(t, persistenceErr)
	assert.Equal(t, "ExponentPushToken[abc]", sender.token)
	assert.Len(t, saver.saved, 1)
	assert.Equal(t, "user-1", saver.userID)
	assert.Equal(t, sender.sent[0].PrimaryIdentifier, saver.saved[0].PrimaryIdentifier)
}

func TestDispatchSkipsSaveOnDeliveryFailure(t *testing.T) {
	sender := &fakeSender{err: &DeliveryError{Status: "error"}}
	saver := &fakeSaver{}

	deliveryErr, persistenceErr := NewDispatcher(sender, saver).Dispatch(context.Background(), testJob())

	assert.Error(t, deliveryErr)
	assert.NoError(t, persistenceErr)
	assert.Empty(t, saver.saved)
}

func TestDispatchReportsSaveFailureSeparately(t *testing.T) {
	sender := &fakeSender{}
	saver := &fakeSaver{err: &alerts.PersistenceError{Err: errors.New("connection reset")}}

	deliveryErr, persistenceErr := NewDispatcher(sender, saver).Dispatch(context.Background(), testJob())

	assert.NoError(t, deliveryErr)
	assert.Error(t, persistenceErr)
	assert.Len(t, sender.sent, 1)
}
