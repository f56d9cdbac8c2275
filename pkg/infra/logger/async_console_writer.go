package logger

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// AsyncConsoleHook mirrors every entry to a console writer from a single
// goroutine. When the buffer is full the line is dropped and counted, so a
// slow terminal never stalls a consumer worker.
type AsyncConsoleHook struct {
	out     io.Writer
	lines   chan []byte
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Int64
}

func NewAsyncConsoleHook(out io.Writer, bufferSize int) *AsyncConsoleHook {
	hook := &AsyncConsoleHook{
		out:   out,
		lines: make(chan []byte, bufferSize),
		done:  make(chan struct{}),
	}
	hook.wg.Add(1)
	go hook.run()
	return hook
}

func (h *AsyncConsoleHook) Fire(entry *logrus.Entry) error {
	line, err := entry.Bytes()
	if err != nil {
		return err
	}
	select {
	case h.lines <- line:
	default:
		h.dropped.Add(1)
	}
	return nil
}

func (h *AsyncConsoleHook) run() {
	defer h.wg.Done()
	for {
		select {
		case line := <-h.lines:
			_, _ = h.out.Write(line)
		case <-h.done:
			for {
				select {
				case line := <-h.lines:
					_, _ = h.out.Write(line)
				default:
					return
				}
			}
		}
	}
}

// Dropped reports how many lines did not fit in the buffer.
func (h *AsyncConsoleHook) Dropped() int64 {
	return h.dropped.Load()
}

// Close flushes buffered lines and stops the writer goroutine.
func (h *AsyncConsoleHook) Close() {
	h.once.Do(func() {
		close(h.done)
		h.wg.Wait()
	})
}

func (h *AsyncConsoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
