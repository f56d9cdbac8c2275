package response

import "context"

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=agent_response_repository_mock.go --case=underscore --with-expecter
type Repository interface {
	// Create inserts a PENDING record. An existing record is left untouched.
	Create(ctx context.Context, record *AgentResponse) error
	GetBySessionID(ctx context.Context, sessionID string) (*AgentResponse, error)
	// UpdateStatus moves the record keyed by sessionID to status. Repeating
	// the same terminal write succeeds; any other move out of a terminal
	// state fails with domain.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, sessionID string, status SafetyStatus, result SafetyResult, detectors []string) error
	CountByStatus(ctx context.Context) (map[SafetyStatus]int64, error)
}
