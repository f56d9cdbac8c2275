package common

type contextKey string

const (
	TraceIdKey       contextKey = "trace_id"
	CorrelationIDKey contextKey = "correlation_id"
	AdminSubjectKey  contextKey = "admin_subject"
)
