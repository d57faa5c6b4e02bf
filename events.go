package secureauth

import (
	"context"
	"io"
	"time"

	"github.com/secureauth/secureauth-go/internal/events"
)

const (
	eventLoginSuccess       = "login_success"
	eventLoginFailure       = "login_failure"
	eventTwoFactorChallenge = "two_factor_challenge"
	eventTwoFactorSuccess   = "two_factor_success"
	eventTwoFactorFailure   = "two_factor_failure"
	eventRefreshSuccess     = "refresh_success"
	eventRefreshFailure     = "refresh_failure"
	eventRequestRetried     = "request_retried"
	eventSessionExpired     = "session_expired"
	eventLogout             = "logout"
)

// Event is a structured session record emitted by the client.
type Event = events.Event

// EventSink receives [Event] values from the client's dispatcher.
type EventSink = events.Sink

// NoOpSink is an [EventSink] that silently discards all events.
type NoOpSink = events.NoOpSink

// ChannelSink is a buffered channel-based [EventSink].
type ChannelSink = events.ChannelSink

// JSONWriterSink is an [EventSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = events.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return events.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return events.NewJSONWriterSink(w)
}

func (c *Client) emitEvent(
	ctx context.Context,
	eventType string,
	success bool,
	username string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if c == nil || c.events == nil {
		return
	}
	session, _ := c.store.SessionToken(ctx)
	c.emitSessionEvent(ctx, eventType, success, username, session, err, metadataBuilder)
}

// emitSessionEvent takes the session token explicitly, for teardown paths
// where the store is already wiped by the time the event goes out.
func (c *Client) emitSessionEvent(
	ctx context.Context,
	eventType string,
	success bool,
	username string,
	session string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if c == nil || c.events == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Username:  username,
		SessionID: session,
		Success:   success,
		Metadata:  metadata,
	}
	if err != nil {
		event.Error = err.Error()
	}

	c.events.Emit(ctx, event)
}

// EventsDropped describes the eventsdropped operation and its observable behavior.
//
// EventsDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) EventsDropped() uint64 {
	if c == nil {
		return 0
	}
	return c.events.Dropped()
}
