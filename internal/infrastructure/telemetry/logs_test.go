package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

type recordingProcessor struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (p *recordingProcessor) OnEmit(_ context.Context, record *sdklog.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, record.Clone())
	return nil
}

func (p *recordingProcessor) Enabled(context.Context, sdklog.EnabledParameters) bool { return true }

func (p *recordingProcessor) Shutdown(context.Context) error   { return nil }
func (p *recordingProcessor) ForceFlush(context.Context) error { return nil }

func (p *recordingProcessor) bodies() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.records))
	for _, r := range p.records {
		out = append(out, r.Body().AsString())
	}
	return out
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{ServiceName: "shop-test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	core := lp.Core(zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLoggerProvider_CoreForwardsAtLevel(t *testing.T) {
	processor := &recordingProcessor{}
	lp := NewLoggerProviderWithProcessor("shop-test", processor, zap.NewNop())
	defer func() { _ = lp.Shutdown(context.Background()) }()

	logger := zap.New(lp.Core(zapcore.WarnLevel)).With(zap.String("order_id", "o-1"))
	logger.Info("dropped")
	logger.Warn("order total drifted")
	logger.Error("reconcile failed")

	assert.Equal(t, []string{"order total drifted", "reconcile failed"}, processor.bodies())
}

func TestLevelFilterCore(t *testing.T) {
	core := &levelFilterCore{Core: zapcore.NewNopCore(), min: zapcore.WarnLevel}
	assert.False(t, core.Enabled(zapcore.InfoLevel))

	withFields := core.With([]zapcore.Field{zap.String("k", "v")})
	filtered, ok := withFields.(*levelFilterCore)
	require.True(t, ok)
	assert.Equal(t, zapcore.WarnLevel, filtered.min)
}
