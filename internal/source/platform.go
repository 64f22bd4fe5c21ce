package source

import (
	"runtime"

	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/service"
)

// DetectPlatform determines the platform once at startup. An explicit
// override wins; otherwise the build target decides, defaulting to Android
// on desktop so development uses the SMS path.
func DetectPlatform(override string) model.Platform {
	switch override {
	case string(model.PlatformAndroid):
		return model.PlatformAndroid
	case string(model.PlatformIOS):
		return model.PlatformIOS
	}
	if runtime.GOOS == "ios" || runtime.GOOS == "darwin" {
		return model.PlatformIOS
	}
	return model.PlatformAndroid
}

// ForPlatform returns the message sources this platform supports. The
// ingestion manager receives these once and never branches on platform
// itself.
func ForPlatform(platform model.Platform, bridge NativeBridge) []service.MessageSource {
	switch platform {
	case model.PlatformIOS:
		return []service.MessageSource{NewIOSNotificationListener(bridge, nil)}
	default:
		return []service.MessageSource{NewAndroidSMSListener(bridge)}
	}
}
