// Package source adapts OS-specific message events into UnifiedMessages.
// Each adapter sits on a NativeBridge: the narrow seam a mobile shell wires
// to the platform's real permission and event APIs. Everything above the
// bridge is portable and testable without a device.
package source

import (
	"sync"
	"time"

	"github.com/ledgerline/ledgerline/internal/common"
)

// Permission kinds requested through the bridge.
const (
	PermissionReadSMS       = "read_sms"
	PermissionNotifications = "notification_access"
)

// RawEvent is one platform event before translation.
type RawEvent struct {
	Timestamp time.Time
	Sender    string
	Text      string
	BundleID  string
	Title     string
}

// NativeBridge is implemented by the platform shell. Registration and
// permission calls may fail; delivery of events never blocks the platform
// side.
type NativeBridge interface {
	RequestPermission(kind string) error
	RegisterCallback(fn func(RawEvent)) error
	UnregisterCallback() error
}

// ChannelBridge is an in-process bridge for development and tests: events
// pushed with Emit are delivered to the registered callback.
type ChannelBridge struct {
	callback    func(RawEvent)
	permissions map[string]bool
	mu          sync.Mutex
	denyAll     bool
}

// NewChannelBridge creates a bridge that grants every permission.
func NewChannelBridge() *ChannelBridge {
	return &ChannelBridge{permissions: make(map[string]bool)}
}

// DenyPermissions makes every subsequent permission request fail.
func (b *ChannelBridge) DenyPermissions() {
	b.mu.Lock()
	b.denyAll = true
	b.mu.Unlock()
}

// RequestPermission grants unless DenyPermissions was called.
func (b *ChannelBridge) RequestPermission(kind string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.denyAll {
		return common.ErrPermissionDenied
	}
	b.permissions[kind] = true
	return nil
}

// RegisterCallback installs the event callback.
func (b *ChannelBridge) RegisterCallback(fn func(RawEvent)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callback = fn
	return nil
}

// UnregisterCallback removes the event callback.
func (b *ChannelBridge) UnregisterCallback() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callback = nil
	return nil
}

// Emit delivers an event to the registered callback, if any.
func (b *ChannelBridge) Emit(event RawEvent) {
	b.mu.Lock()
	fn := b.callback
	b.mu.Unlock()
	if fn != nil {
		fn(event)
	}
}
