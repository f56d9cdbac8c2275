package broker

import (
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// Backoff is BaseDelay doubled per previous retry, capped at MaxDelay.
func (r RetryPolicy) Backoff(retries int) time.Duration {
	if r.BaseDelay <= 0 {
		return 0
	}
	d := r.BaseDelay
	for i := 0; i < retries; i++ {
		d *= 2
		if r.MaxDelay > 0 && d >= r.MaxDelay {
			return r.MaxDelay
		}
	}
	if r.MaxDelay > 0 && d > r.MaxDelay {
		return r.MaxDelay
	}
	return d
}

func (r RetryPolicy) Exhausted(retries int) bool {
	return retries >= r.MaxRetries
}

// RetryCount reads the retry header. AMQP tables come back with whatever
// integer width the peer encoded, so every numeric form is accepted.
func RetryCount(headers amqp.Table) int {
	switch v := headers[HeaderRetryCount].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case float32:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// retryHeaders copies headers for a republish, bumping the retry count and
// dropping broker-owned keys.
func retryHeaders(headers amqp.Table, retries int) amqp.Table {
	out := amqp.Table{}
	for k, v := range headers {
		switch k {
		case HeaderDelay, HeaderDeath, HeaderRetryCount:
			continue
		}
		out[k] = v
	}
	out[HeaderRetryCount] = int32(retries)
	return out
}

// OriginalRoutingKey recovers the routing key a dead-lettered message was
// first published with.
func OriginalRoutingKey(d amqp.Delivery) string {
	if deaths, ok := d.Headers[HeaderDeath].([]interface{}); ok {
		for _, raw := range deaths {
			death, ok := raw.(amqp.Table)
			if !ok {
				continue
			}
			if keys, ok := death["routing-keys"].([]interface{}); ok && len(keys) > 0 {
				if key, ok := keys[0].(string); ok && key != "" {
					return key
				}
			}
		}
	}
	return d.RoutingKey
}
