package metrics

import "time"

type workerOptions struct {
	queueSize     int
	exportTimeout time.Duration
}

type Option func(*workerOptions)

func WithQueueSize(n int) Option {
	return func(o *workerOptions) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithExportTimeout bounds a single exporter Handle call.
func WithExportTimeout(d time.Duration) Option {
	return func(o *workerOptions) {
		if d > 0 {
			o.exportTimeout = d
		}
	}
}
