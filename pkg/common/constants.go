package common

import "time"

const (
	BannedWordCacheTTL = 1 * time.Minute
	BannedWordSetKey   = "safety:banned_words"
	BannedWordTTLName  = "banned_words"

	DefaultBlockThreshold = 0.7

	SessionIDHeader       = "X-Session-Id"
	CorrelationIDHeader   = "X-Correlation-Id"
	DefaultRefusalMessage = "Sorry, I can't help with that request."
)
