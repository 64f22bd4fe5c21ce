package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/model"
)

func TestNotificationListenerAllowlistedApp(t *testing.T) {
	bridge := NewChannelBridge()
	l := NewIOSNotificationListener(bridge, nil)
	assert.Equal(t, model.SourceNotification, l.Source())

	onMessage, got := collectMessages()
	require.NoError(t, l.StartListening(onMessage, nil))

	l.InjectNotification("com.hdfc.bank", "HDFC Bank", "Amount INR 5,000 debited from account XX1234")

	require.Len(t, *got, 1)
	msg := (*got)[0]
	assert.Equal(t, model.SourceNotification, msg.SourceType)
	assert.Equal(t, model.PlatformIOS, msg.Platform)
	assert.Equal(t, "com.hdfc.bank", msg.SenderIdentifier)
	assert.Equal(t, "HDFC Bank Amount INR 5,000 debited from account XX1234", msg.RawText)
	assert.InDelta(t, 0.65, msg.ConfidenceHint, 1e-9)
	assert.Equal(t, "com.hdfc.bank", msg.Metadata["bundle_id"])
	assert.Equal(t, "HDFC Bank", msg.Metadata["title"])
}

func TestNotificationListenerFiltersNonBanking(t *testing.T) {
	l := NewIOSNotificationListener(NewChannelBridge(), nil)
	onMessage, got := collectMessages()
	require.NoError(t, l.StartListening(onMessage, nil))

	l.InjectNotification("com.example.game", "New high score!", "You beat your friends")
	assert.Empty(t, *got)
}

func TestNotificationListenerKeywordFallback(t *testing.T) {
	l := NewIOSNotificationListener(NewChannelBridge(), nil)
	onMessage, got := collectMessages()
	require.NoError(t, l.StartListening(onMessage, nil))

	// Unlisted app, but the text clearly concerns money movement.
	l.InjectNotification("com.smallbank.app", "Alert", "INR 900 debited from your account")
	assert.Len(t, *got, 1)
}

func TestNotificationListenerCustomAllowlist(t *testing.T) {
	l := NewIOSNotificationListener(NewChannelBridge(), []string{"com.mybank.app"})
	onMessage, got := collectMessages()
	require.NoError(t, l.StartListening(onMessage, nil))

	l.InjectNotification("com.mybank.app", "", "market update for you")
	assert.Len(t, *got, 1)

	// The default allowlist no longer applies; this text has no banking
	// keyword either.
	l.InjectNotification("com.hdfc.bank", "", "market update for you")
	assert.Len(t, *got, 1)
}

func TestNotificationListenerDoubleStartReturnsError(t *testing.T) {
	l := NewIOSNotificationListener(NewChannelBridge(), nil)
	onMessage, _ := collectMessages()
	require.NoError(t, l.StartListening(onMessage, nil))
	assert.ErrorIs(t, l.StartListening(onMessage, nil), common.ErrListenerActive)
	assert.True(t, l.Active())
	require.NoError(t, l.StopListening())
	assert.False(t, l.Active())
}

func TestDetectPlatform(t *testing.T) {
	assert.Equal(t, model.PlatformAndroid, DetectPlatform("android"))
	assert.Equal(t, model.PlatformIOS, DetectPlatform("ios"))
	// No override: decided by the build target, but always one of the two.
	got := DetectPlatform("")
	assert.Contains(t, []model.Platform{model.PlatformAndroid, model.PlatformIOS}, got)
}

func TestForPlatform(t *testing.T) {
	bridge := NewChannelBridge()

	android := ForPlatform(model.PlatformAndroid, bridge)
	require.Len(t, android, 1)
	assert.Equal(t, model.SourceSMS, android[0].Source())

	ios := ForPlatform(model.PlatformIOS, bridge)
	require.Len(t, ios, 1)
	assert.Equal(t, model.SourceNotification, ios[0].Source())
}
