package source

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/service"
)

// smsConfidenceHint is the baseline confidence for SMS: the highest of all
// sources, since bank SMS formats are the most regular.
const smsConfidenceHint = 0.8

// AndroidSMSListener translates incoming SMS events into UnifiedMessages.
type AndroidSMSListener struct {
	bridge    NativeBridge
	onMessage service.MessageHandler
	onError   service.ErrorHandler
	mu        sync.Mutex
	active    bool
}

// NewAndroidSMSListener creates the SMS adapter over the given bridge.
func NewAndroidSMSListener(bridge NativeBridge) *AndroidSMSListener {
	return &AndroidSMSListener{bridge: bridge}
}

// Source identifies this adapter's message type.
func (l *AndroidSMSListener) Source() model.SourceType {
	return model.SourceSMS
}

// Active reports whether the listener is running.
func (l *AndroidSMSListener) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// StartListening requests SMS permission and registers the event callback.
// Starting an already-active listener returns ErrListenerActive; the running
// listener is untouched.
func (l *AndroidSMSListener) StartListening(onMessage service.MessageHandler, onError service.ErrorHandler) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active {
		slog.Warn("SMS listener already active, refusing start")
		return common.ErrListenerActive
	}

	if err := l.bridge.RequestPermission(PermissionReadSMS); err != nil {
		return fmt.Errorf("request sms permission: %w", err)
	}
	if err := l.bridge.RegisterCallback(l.handleEvent); err != nil {
		return fmt.Errorf("register sms callback: %w", err)
	}

	l.onMessage = onMessage
	l.onError = onError
	l.active = true
	return nil
}

// StopListening unregisters the callback. An in-flight message already
// handed to the pipeline is unaffected.
func (l *AndroidSMSListener) StopListening() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.active {
		return nil
	}
	if err := l.bridge.UnregisterCallback(); err != nil {
		return fmt.Errorf("unregister sms callback: %w", err)
	}
	l.active = false
	l.onMessage = nil
	l.onError = nil
	return nil
}

// InjectSMS feeds a synthetic SMS through the adapter for development
// without a live OS event.
func (l *AndroidSMSListener) InjectSMS(sender, text string) {
	l.handleEvent(RawEvent{
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	})
}

func (l *AndroidSMSListener) handleEvent(event RawEvent) {
	l.mu.Lock()
	onMessage, onError, active := l.onMessage, l.onError, l.active
	l.mu.Unlock()

	if !active || onMessage == nil {
		return
	}

	if event.Text == "" {
		if onError != nil {
			onError(fmt.Errorf("%w: empty sms body from %s", common.ErrInvalidConfig, event.Sender))
		}
		return
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	onMessage(model.UnifiedMessage{
		ID:               uuid.New().String(),
		RawText:          event.Text,
		SourceType:       model.SourceSMS,
		SenderIdentifier: event.Sender,
		Platform:         model.PlatformAndroid,
		Timestamp:        ts,
		ConfidenceHint:   smsConfidenceHint,
	})
}
