package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/service"
)

// manualConfidenceHint is the baseline confidence for pasted text: lowest of
// all sources, before the heuristic's field bonuses apply.
const manualConfidenceHint = 0.5

// Manager owns the active user/account context and the platform message
// sources. It is constructed once at startup with the sources the platform
// supports; it never branches on platform itself.
type Manager struct {
	service   *Service
	sources   map[model.SourceType]service.MessageSource
	userID    string
	accountID string
	mu        sync.Mutex
	ready     bool
}

// NewManager creates a manager over the pipeline service and the message
// sources selected for this platform.
func NewManager(svc *Service, sources ...service.MessageSource) *Manager {
	byType := make(map[model.SourceType]service.MessageSource, len(sources))
	for _, src := range sources {
		byType[src.Source()] = src
	}
	return &Manager{
		service: svc,
		sources: byType,
	}
}

// Initialize binds the user/account context and starts the listeners
// enabled by the current settings.
func (m *Manager) Initialize(ctx context.Context, userID, accountID string) error {
	if userID == "" || accountID == "" {
		return fmt.Errorf("%w: user and account ids are required", common.ErrMissingConfig)
	}

	m.mu.Lock()
	m.userID = userID
	m.accountID = accountID
	m.ready = true
	m.mu.Unlock()

	m.syncListeners(ctx)
	return nil
}

// ManualIngest routes pasted text through the same pipeline as automatic
// sources. Manual entry gets no privileged bypass of detection, confidence,
// or dedup.
func (m *Manager) ManualIngest(ctx context.Context, text string) model.IngestionResult {
	m.mu.Lock()
	ready, userID, accountID := m.ready, m.userID, m.accountID
	m.mu.Unlock()

	if !ready {
		return model.IngestionResult{
			Success: false,
			Error:   common.ErrManagerUninitialized.Error(),
		}
	}

	msg := model.UnifiedMessage{
		ID:               uuid.New().String(),
		RawText:          text,
		SourceType:       model.SourceManual,
		SenderIdentifier: "manual_input",
		Timestamp:        time.Now(),
		ConfidenceHint:   manualConfidenceHint,
	}
	return m.service.Ingest(ctx, msg, userID, accountID)
}

// UpdateSettings applies a partial settings update and reconciles the live
// listeners: toggling a source off stops its adapter immediately.
func (m *Manager) UpdateSettings(ctx context.Context, patch model.SettingsPatch) error {
	if patch.ConfidenceThreshold != nil {
		if err := validateThreshold(*patch.ConfidenceThreshold); err != nil {
			return err
		}
	}
	if err := m.service.UpdateSettings(patch); err != nil {
		return err
	}
	m.syncListeners(ctx)
	return nil
}

// SetSourceEnabled toggles one message source on or off.
func (m *Manager) SetSourceEnabled(ctx context.Context, source model.SourceType, enabled bool) error {
	patch := model.SettingsPatch{}
	switch source {
	case model.SourceSMS:
		patch.AndroidSMSEnabled = &enabled
	case model.SourceNotification:
		patch.NotificationsEnabled = &enabled
	case model.SourceEmail:
		patch.EmailParsingEnabled = &enabled
	case model.SourceManual:
		patch.ManualScanEnabled = &enabled
	default:
		return fmt.Errorf("%w: unknown source type %q", common.ErrInvalidConfig, source)
	}
	return m.UpdateSettings(ctx, patch)
}

// SetConfidenceThreshold updates the minimum confidence for persistence.
func (m *Manager) SetConfidenceThreshold(value float64) error {
	if err := validateThreshold(value); err != nil {
		return err
	}
	return m.service.UpdateSettings(model.SettingsPatch{ConfidenceThreshold: &value})
}

// GetSettings returns a copy of the current ingestion settings.
func (m *Manager) GetSettings() model.IngestionSettings {
	return m.service.Settings()
}

// Cleanup stops all listeners and clears the bound context. In-flight
// ingestions already dequeued are allowed to finish; the queue itself is
// dropped.
func (m *Manager) Cleanup() {
	for sourceType, src := range m.sources {
		if !src.Active() {
			continue
		}
		if err := src.StopListening(); err != nil {
			common.LogError(err, "Failed to stop listener", common.Fields{"source": sourceType})
		}
	}

	m.service.DropQueue()

	m.mu.Lock()
	m.userID = ""
	m.accountID = ""
	m.ready = false
	m.mu.Unlock()
}

// syncListeners starts and stops adapters to match the enabled sources.
// Listener failures are logged and reported, never fatal: one broken
// adapter must not take down the others.
func (m *Manager) syncListeners(ctx context.Context) {
	settings := m.service.Settings()

	for sourceType, src := range m.sources {
		enabled := settings.SourceEnabled(sourceType) && settings.AutoDetectionEnabled

		switch {
		case enabled && !src.Active():
			m.startListener(ctx, src)
		case !enabled && src.Active():
			if err := src.StopListening(); err != nil {
				common.LogError(err, "Failed to stop listener", common.Fields{"source": sourceType})
			} else {
				slog.Info("Listener stopped", "source", sourceType)
			}
		}
	}
}

func (m *Manager) startListener(ctx context.Context, src service.MessageSource) {
	onMessage := func(msg model.UnifiedMessage) {
		m.mu.Lock()
		userID, accountID := m.userID, m.accountID
		m.mu.Unlock()

		m.service.QueueMessage(msg, userID, accountID)
		go m.service.ProcessQueue(context.Background())
	}
	onError := func(err error) {
		common.LogError(err, "Listener error", common.Fields{"source": src.Source()})
	}

	// Bridge registration can fail transiently while the platform side
	// is starting up.
	err := common.WithRetry(ctx, func() error {
		return src.StartListening(onMessage, onError)
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond})
	if err != nil {
		common.LogError(err, "Failed to start listener", common.Fields{"source": src.Source()})
		return
	}
	slog.Info("Listener started", "source", src.Source())
}

func validateThreshold(value float64) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("%w: confidence threshold %v outside [0,1]", common.ErrInvalidConfig, value)
	}
	return nil
}
