package goroutine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
)

type recordingLogger struct {
	logger.Nop
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) Errorw(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func receive(t *testing.T, ch <-chan error) (error, bool) {
	t.Helper()
	select {
	case err, ok := <-ch:
		return err, ok
	case <-time.After(2 * time.Second):
		t.Fatal("goroutine did not finish")
		return nil, false
	}
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	log := &recordingLogger{}

	err, ok := receive(t, SafeGo(log, "boom", func() error { panic("boom") }))

	require.True(t, ok)
	assert.EqualError(t, err, "goroutine boom panicked: boom")

	log.mu.Lock()
	defer log.mu.Unlock()
	assert.Equal(t, []string{"goroutine panicked"}, log.messages)
}

func TestSafeGo_DeliversError(t *testing.T) {
	want := errors.New("listen failed")

	err, ok := receive(t, SafeGo(logger.NewNop(), "server", func() error { return want }))

	require.True(t, ok)
	assert.ErrorIs(t, err, want)
}

func TestSafeGo_ClosesOnSuccess(t *testing.T) {
	done := SafeGo(logger.NewNop(), "ok", func() error { return nil })

	err, ok := receive(t, done)

	assert.False(t, ok)
	assert.NoError(t, err)
}
