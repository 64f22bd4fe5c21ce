package source

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/service"
)

// notificationConfidenceHint is the baseline confidence for push
// notifications: lower than SMS, since app notifications vary more.
const notificationConfidenceHint = 0.65

// defaultBankBundleIDs is the allowlist of banking-app bundle ids. Events
// from other apps fall back to the banking-keyword filter so the pipeline is
// not flooded with unrelated pushes.
var defaultBankBundleIDs = []string{
	"com.hdfc.bank",
	"com.icicibank.imobile",
	"com.sbi.yono",
	"com.chase.sig.android",
	"com.chase.mobile",
	"com.paypal.here",
}

// bankingKeywords accept a notification from an unlisted app when its text
// clearly concerns money movement.
var bankingKeywords = []string{
	"debited", "credited", "transaction", "account", "balance",
	"transferred", "payment", "withdrawn", "deposited",
}

// IOSNotificationListener translates banking-app push notifications into
// UnifiedMessages, filtering out unrelated notifications.
type IOSNotificationListener struct {
	bridge    NativeBridge
	onMessage service.MessageHandler
	onError   service.ErrorHandler
	bundleIDs []string
	mu        sync.Mutex
	active    bool
}

// NewIOSNotificationListener creates the notification adapter. A nil
// allowlist uses the built-in banking apps.
func NewIOSNotificationListener(bridge NativeBridge, bundleIDs []string) *IOSNotificationListener {
	if bundleIDs == nil {
		bundleIDs = defaultBankBundleIDs
	}
	return &IOSNotificationListener{bridge: bridge, bundleIDs: bundleIDs}
}

// Source identifies this adapter's message type.
func (l *IOSNotificationListener) Source() model.SourceType {
	return model.SourceNotification
}

// Active reports whether the listener is running.
func (l *IOSNotificationListener) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// StartListening requests notification access and registers the callback.
// Starting an already-active listener returns ErrListenerActive; the running
// listener is untouched.
func (l *IOSNotificationListener) StartListening(onMessage service.MessageHandler, onError service.ErrorHandler) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active {
		slog.Warn("Notification listener already active, refusing start")
		return common.ErrListenerActive
	}

	if err := l.bridge.RequestPermission(PermissionNotifications); err != nil {
		return fmt.Errorf("request notification permission: %w", err)
	}
	if err := l.bridge.RegisterCallback(l.handleEvent); err != nil {
		return fmt.Errorf("register notification callback: %w", err)
	}

	l.onMessage = onMessage
	l.onError = onError
	l.active = true
	return nil
}

// StopListening unregisters the callback.
func (l *IOSNotificationListener) StopListening() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.active {
		return nil
	}
	if err := l.bridge.UnregisterCallback(); err != nil {
		return fmt.Errorf("unregister notification callback: %w", err)
	}
	l.active = false
	l.onMessage = nil
	l.onError = nil
	return nil
}

// InjectNotification feeds a synthetic notification through the adapter for
// development without a live OS event.
func (l *IOSNotificationListener) InjectNotification(bundleID, title, text string) {
	l.handleEvent(RawEvent{
		BundleID:  bundleID,
		Title:     title,
		Text:      text,
		Timestamp: time.Now(),
	})
}

func (l *IOSNotificationListener) handleEvent(event RawEvent) {
	l.mu.Lock()
	onMessage, active := l.onMessage, l.active
	bundleIDs := l.bundleIDs
	l.mu.Unlock()

	if !active || onMessage == nil {
		return
	}
	if !isBankingNotification(event, bundleIDs) {
		slog.Debug("Dropped non-banking notification", "bundle_id", event.BundleID)
		return
	}

	text := event.Text
	if event.Title != "" {
		text = event.Title + " " + text
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	onMessage(model.UnifiedMessage{
		ID:               uuid.New().String(),
		RawText:          text,
		SourceType:       model.SourceNotification,
		SenderIdentifier: event.BundleID,
		Platform:         model.PlatformIOS,
		Timestamp:        ts,
		ConfidenceHint:   notificationConfidenceHint,
		Metadata:         map[string]string{"bundle_id": event.BundleID, "title": event.Title},
	})
}

// isBankingNotification accepts events from allowlisted apps, or from any
// app whose text contains a banking keyword.
func isBankingNotification(event RawEvent, bundleIDs []string) bool {
	lowerBundle := strings.ToLower(event.BundleID)
	for _, id := range bundleIDs {
		if lowerBundle == strings.ToLower(id) {
			return true
		}
	}

	lowerText := strings.ToLower(event.Title + " " + event.Text)
	for _, kw := range bankingKeywords {
		if strings.Contains(lowerText, kw) {
			return true
		}
	}
	return false
}
