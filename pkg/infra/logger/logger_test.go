package logger

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_WritesJSONToComponentFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "debug")

	log, closer, err := NewLogger("consumer")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("session_id", "s1").Info("safety check passed")
	closer()

	data, err := os.ReadFile(filepath.Join("logs", "consumer.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"safety check passed"`)
	assert.Contains(t, string(data), `"session_id":"s1"`)
}

func TestNewLogger_RejectsPathComponent(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := NewLogger("../etc")
	assert.Error(t, err)
}

type blockingWriter struct {
	release chan struct{}
	buf     []byte
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	<-w.release
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func TestAsyncConsoleHook_FlushesOnClose(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{})}
	close(w.release)
	hook := NewAsyncConsoleHook(w, 10)

	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.AddHook(hook)
	log.Info("first")
	log.Info("second")
	hook.Close()
	hook.Close()

	assert.Contains(t, string(w.buf), "first")
	assert.Contains(t, string(w.buf), "second")
	assert.Zero(t, hook.Dropped())
}

func TestAsyncConsoleHook_DropsWhenFull(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{})}
	hook := NewAsyncConsoleHook(w, 1)

	log := logrus.New()
	log.SetOutput(io.Discard)
	log.AddHook(hook)
	// one line is held by the blocked writer, one fits the buffer
	for i := 0; i < 10; i++ {
		log.Info("line")
	}
	assert.Eventually(t, func() bool { return hook.Dropped() >= 8 }, time.Second, 10*time.Millisecond)

	close(w.release)
	hook.Close()
}
