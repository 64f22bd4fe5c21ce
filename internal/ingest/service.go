package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/detect"
	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/normalize"
	"github.com/ledgerline/ledgerline/internal/service"
)

// defaultBatchDelay is the pause between batch items so a burst never
// overwhelms storage.
const defaultBatchDelay = 25 * time.Millisecond

type queuedMessage struct {
	message   model.UnifiedMessage
	userID    string
	accountID string
}

// Service sequences the pipeline for each message and owns the ingestion
// queue. Dependencies are injected; construct one at startup and pass it by
// reference.
type Service struct {
	normalizer   *normalize.Engine
	detector     *detect.Engine
	classifier   service.Classifier
	persister    *Persister
	accountLocks sync.Map
	queue        []queuedMessage
	settings     model.IngestionSettings
	batchDelay   time.Duration
	queueMu      sync.Mutex
	settingsMu   sync.RWMutex
	draining     atomic.Bool
}

// NewService creates the pipeline service.
func NewService(normalizer *normalize.Engine, detector *detect.Engine, classifier service.Classifier, persister *Persister, settings model.IngestionSettings) *Service {
	return &Service{
		normalizer: normalizer,
		detector:   detector,
		classifier: classifier,
		persister:  persister,
		settings:   settings,
		batchDelay: defaultBatchDelay,
	}
}

// Settings returns a copy of the current settings.
func (s *Service) Settings() model.IngestionSettings {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	return s.settings
}

// UpdateSettings merges a partial settings update. A new bank configuration
// set is pushed into the detection engine immediately.
func (s *Service) UpdateSettings(patch model.SettingsPatch) error {
	s.settingsMu.Lock()
	s.settings = patch.Apply(s.settings)
	configs := s.settings.BankConfigurations
	s.settingsMu.Unlock()

	if patch.BankConfigurations != nil {
		if err := s.detector.UpdateConfigurations(configs); err != nil {
			return fmt.Errorf("update bank configurations: %w", err)
		}
	}
	return nil
}

// Ingest runs one message through the full pipeline and returns a terminal
// result. The sequence short-circuits at the first failed gate; every
// outcome, success or not, is reported with a reason.
func (s *Service) Ingest(ctx context.Context, msg model.UnifiedMessage, userID, accountID string) (result model.IngestionResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic during ingestion",
				"message_id", msg.ID,
				"panic", r)
			result = failure(msg.ID, "", fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	settings := s.Settings()

	if !settings.SourceEnabled(msg.SourceType) {
		return rejection(msg.ID, common.ErrSourceDisabled, "")
	}
	if !settings.AutoDetectionEnabled {
		return rejection(msg.ID, common.ErrAutoDetectionDisabled, "")
	}

	normalized := s.normalizer.Normalize(msg)

	candidate, err := s.detector.Detect(normalized, settings.ConfidenceThreshold)
	if err != nil {
		return failure(msg.ID, "", fmt.Sprintf("detection failed: %v", err))
	}
	if candidate == nil {
		return rejection(msg.ID, common.ErrNoTransactionDetected, "")
	}

	if settings.AutoCategoryEnabled && s.classifier != nil {
		classification, classifyErr := s.classifier.Classify(ctx, *candidate)
		if classifyErr != nil {
			// Classification is best-effort; the record is written
			// uncategorized rather than dropped.
			slog.Warn("Classification failed",
				"message_id", msg.ID,
				"error", classifyErr)
		} else {
			candidate.Classification = &classification
		}
	}

	// Persistence and dedup for one account are serialized so two sources
	// reporting the same transaction cannot both pass the dedup check
	// before either commits.
	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	result = s.persister.CreateFromCandidate(ctx, candidate, userID, accountID, settings.ConfidenceThreshold)

	if settings.DebugMode {
		common.LogDebug("Ingestion complete", common.Fields{
			"message_id": msg.ID,
			"success":    result.Success,
			"reason":     result.Reason,
			"record_id":  result.RecordID,
		})
	}
	return result
}

// IngestBatch processes messages sequentially with a small inter-item
// delay. A failed item never stops the batch.
func (s *Service) IngestBatch(ctx context.Context, msgs []model.UnifiedMessage, userID, accountID string) []model.IngestionResult {
	results := make([]model.IngestionResult, 0, len(msgs))
	for i, msg := range msgs {
		select {
		case <-ctx.Done():
			for _, remaining := range msgs[i:] {
				results = append(results, failure(remaining.ID, "", ctx.Err().Error()))
			}
			return results
		default:
		}

		results = append(results, s.Ingest(ctx, msg, userID, accountID))

		if i < len(msgs)-1 && s.batchDelay > 0 {
			time.Sleep(s.batchDelay)
		}
	}
	return results
}

// QueueMessage appends a message to the internal FIFO queue.
func (s *Service) QueueMessage(msg model.UnifiedMessage, userID, accountID string) {
	s.queueMu.Lock()
	s.queue = append(s.queue, queuedMessage{message: msg, userID: userID, accountID: accountID})
	depth := len(s.queue)
	s.queueMu.Unlock()

	common.LogDebug("Message queued", common.Fields{"message_id": msg.ID, "queue_depth": depth})
}

// ProcessQueue drains the queue in FIFO order. A re-entrancy guard ensures
// draining never runs concurrently with itself; a second caller returns
// immediately with no results.
func (s *Service) ProcessQueue(ctx context.Context) []model.IngestionResult {
	if !s.draining.CompareAndSwap(false, true) {
		return nil
	}
	defer s.draining.Store(false)

	var results []model.IngestionResult
	for {
		s.queueMu.Lock()
		if len(s.queue) == 0 {
			s.queueMu.Unlock()
			return results
		}
		item := s.queue[0]
		s.queue = s.queue[1:]
		s.queueMu.Unlock()

		select {
		case <-ctx.Done():
			results = append(results, failure(item.message.ID, "", ctx.Err().Error()))
			return results
		default:
		}

		results = append(results, s.Ingest(ctx, item.message, item.userID, item.accountID))
	}
}

// QueueDepth returns the number of messages waiting in the queue.
func (s *Service) QueueDepth() int {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	return len(s.queue)
}

// DropQueue discards all not-yet-dequeued messages. In-flight ingestions
// already dequeued are unaffected.
func (s *Service) DropQueue() int {
	s.queueMu.Lock()
	dropped := len(s.queue)
	s.queue = nil
	s.queueMu.Unlock()

	if dropped > 0 {
		slog.Info("Dropped queued messages", "count", dropped)
	}
	return dropped
}

func (s *Service) accountLock(accountID string) *sync.Mutex {
	lock, _ := s.accountLocks.LoadOrStore(accountID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
