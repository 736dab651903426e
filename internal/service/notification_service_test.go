package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/publicvoice/internal/config"
	"github.com/spec-kit/publicvoice/internal/events"
)

func TestNotificationServiceHandlesComplaintEvents(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	ns := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		EmailFrom:  "noreply@publicvoice.rw",
		WebhookURL: "https://hooks.example.test/complaints",
	})
	ns.RegisterHandlers()

	ctx := context.Background()
	_ = dispatcher.Publish(ctx, events.Event{Type: events.EventComplaintSubmitted, TrackingID: "CMP-12345"})
	_ = dispatcher.Publish(ctx, events.Event{Type: events.EventComplaintDigest, Payload: events.ComplaintDigestPayload{Total: 2}})

	assert.Equal(t, 1, logs.FilterMessage("ComplaintSubmitted").Len())
	assert.Equal(t, 1, logs.FilterMessage("ComplaintDigest").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 2, logs.FilterMessage("sendWebhookNotificationStub").Len())
}

func TestNotificationStubsSkipUnconfiguredChannels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{}).RegisterHandlers()

	_ = dispatcher.Publish(context.Background(), events.Event{Type: events.EventComplaintCommentAdded})

	assert.Equal(t, 1, logs.FilterMessage("ComplaintCommentAdded").Len())
	assert.Zero(t, logs.FilterMessage("sendEmailNotificationStub").Len())
}
