package ingest_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/ingest"
	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/service"
)

// fakeSource is a controllable MessageSource for manager tests.
type fakeSource struct {
	sourceType model.SourceType
	onMessage  service.MessageHandler
	startErr   error
	mu         sync.Mutex
	active     bool
	starts     int
	stops      int
}

func (f *fakeSource) StartListening(onMessage service.MessageHandler, _ service.ErrorHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.startErr != nil {
		return f.startErr
	}
	f.onMessage = onMessage
	f.active = true
	return nil
}

func (f *fakeSource) StopListening() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.active = false
	f.onMessage = nil
	return nil
}

func (f *fakeSource) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakeSource) Source() model.SourceType {
	return f.sourceType
}

func (f *fakeSource) emit(msg model.UnifiedMessage) {
	f.mu.Lock()
	handler := f.onMessage
	f.mu.Unlock()
	if handler != nil {
		handler(msg)
	}
}

func newManager(t *testing.T, sources ...service.MessageSource) (*ingest.Manager, *ingest.Service) {
	t.Helper()
	svc, _ := newPipeline(t, nil)
	return ingest.NewManager(svc, sources...), svc
}

func TestManualIngestBeforeInitialize(t *testing.T) {
	m, _ := newManager(t)

	result := m.ManualIngest(context.Background(), hdfcDebitSMS)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, common.ErrManagerUninitialized.Error())
}

func TestInitializeRequiresIdentity(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	assert.ErrorIs(t, m.Initialize(ctx, "", "acct-1"), common.ErrMissingConfig)
	assert.ErrorIs(t, m.Initialize(ctx, "user-1", ""), common.ErrMissingConfig)
}

func TestManualIngestEndToEnd(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx, "user-1", "acct-1"))

	result := m.ManualIngest(ctx, "ICICI Bank: ₹2,500 credited to your account. Balance: ₹45,000")
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "credit", result.Metadata["intent"])
}

func TestManualIngestNoTransaction(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx, "user-1", "acct-1"))

	result := m.ManualIngest(ctx, "lunch on tuesday was nice")
	assert.False(t, result.Success)
	assert.Equal(t, model.ReasonNoTransactionDetected, result.Reason)
}

func TestInitializeStartsEnabledListeners(t *testing.T) {
	sms := &fakeSource{sourceType: model.SourceSMS}
	m, _ := newManager(t, sms)

	require.NoError(t, m.Initialize(context.Background(), "user-1", "acct-1"))
	assert.True(t, sms.Active())
}

func TestSetSourceEnabledStopsListener(t *testing.T) {
	sms := &fakeSource{sourceType: model.SourceSMS}
	m, _ := newManager(t, sms)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx, "user-1", "acct-1"))
	require.True(t, sms.Active())

	require.NoError(t, m.SetSourceEnabled(ctx, model.SourceSMS, false))
	assert.False(t, sms.Active())
	assert.False(t, m.GetSettings().AndroidSMSEnabled)

	require.NoError(t, m.SetSourceEnabled(ctx, model.SourceSMS, true))
	assert.True(t, sms.Active())
}

func TestSetSourceEnabledUnknownSource(t *testing.T) {
	m, _ := newManager(t)
	err := m.SetSourceEnabled(context.Background(), model.SourceType("telegraph"), true)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestAutoDetectionDisabledStopsAllListeners(t *testing.T) {
	sms := &fakeSource{sourceType: model.SourceSMS}
	push := &fakeSource{sourceType: model.SourceNotification}
	m, _ := newManager(t, sms, push)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx, "user-1", "acct-1"))
	require.True(t, sms.Active())
	require.True(t, push.Active())

	disabled := false
	require.NoError(t, m.UpdateSettings(ctx, model.SettingsPatch{AutoDetectionEnabled: &disabled}))
	assert.False(t, sms.Active())
	assert.False(t, push.Active())
}

func TestSetConfidenceThresholdValidation(t *testing.T) {
	m, _ := newManager(t)

	assert.ErrorIs(t, m.SetConfidenceThreshold(1.5), common.ErrInvalidConfig)
	assert.ErrorIs(t, m.SetConfidenceThreshold(-0.1), common.ErrInvalidConfig)

	require.NoError(t, m.SetConfidenceThreshold(0.7))
	assert.InDelta(t, 0.7, m.GetSettings().ConfidenceThreshold, 1e-9)
}

func TestListenerMessagesFlowThroughQueue(t *testing.T) {
	sms := &fakeSource{sourceType: model.SourceSMS}
	m, svc := newManager(t, sms)
	require.NoError(t, m.Initialize(context.Background(), "user-1", "acct-1"))

	sms.emit(smsMessage("msg-1", "VM-HDFCBK", hdfcDebitSMS))

	// The queue drains on a background goroutine.
	require.Eventually(t, func() bool {
		return svc.QueueDepth() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCleanup(t *testing.T) {
	sms := &fakeSource{sourceType: model.SourceSMS}
	m, svc := newManager(t, sms)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx, "user-1", "acct-1"))
	require.True(t, sms.Active())

	svc.QueueMessage(smsMessage("msg-1", "VM-HDFCBK", hdfcDebitSMS), "user-1", "acct-1")

	m.Cleanup()
	assert.False(t, sms.Active())
	assert.Equal(t, 0, svc.QueueDepth())

	result := m.ManualIngest(ctx, hdfcDebitSMS)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, common.ErrManagerUninitialized.Error())
}

func TestStartListenerRetriesTransientFailure(t *testing.T) {
	failing := &fakeSource{sourceType: model.SourceSMS, startErr: common.ErrBridgeUnavailable}
	m, _ := newManager(t, failing)
	require.NoError(t, m.Initialize(context.Background(), "user-1", "acct-1"))

	failing.mu.Lock()
	starts := failing.starts
	failing.mu.Unlock()
	assert.Equal(t, 3, starts)
	assert.False(t, failing.Active())
}
