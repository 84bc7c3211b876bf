package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/events"
)

func TestNotificationService_LogsSubscribedEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		WebhookURL: "https://hooks.example.com/tickets",
	}).RegisterHandlers()

	ctx := context.Background()
	publish := func(eventType events.EventType, subject string) {
		require.NoError(t, dispatcher.Publish(ctx, events.Event{
			ID: subject, Type: eventType, SubjectID: subject, Timestamp: time.Now(),
		}))
	}
	publish(events.EventUserRegistered, "u1")
	publish(events.EventTicketCreated, "t1")
	publish(events.EventTicketUpdated, "t1")
	publish(events.EventClientDeleted, "c1")

	assert.Equal(t, 1, logs.FilterMessage("UserRegistered").Len())
	assert.Equal(t, 1, logs.FilterMessage("TicketCreated").Len())
	assert.Equal(t, 1, logs.FilterMessage("TicketChanged").Len())
	assert.Equal(t, 1, logs.FilterMessage("ClientDeleted").Len())

	// Email stub is off without a sender; the webhook stub fires for ticket and client events.
	assert.Zero(t, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 3, logs.FilterMessage("sendWebhookNotificationStub").Len())
}

func TestNotificationService_NilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNotificationService(nil, zap.NewNop(), config.NotificationConfig{}).RegisterHandlers()
	})
}
