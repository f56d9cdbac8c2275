package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/response"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const agentResponseEntity = "agent_response"

type agentResponseRepository struct {
	db *gorm.DB
}

func NewAgentResponseRepository(db *gorm.DB) response.Repository {
	return &agentResponseRepository{
		db: db,
	}
}

func (r *agentResponseRepository) Create(ctx context.Context, record *response.AgentResponse) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "session_id"}}, DoNothing: true}).
		Create(record).Error
}

func (r *agentResponseRepository) GetBySessionID(ctx context.Context, sessionID string) (*response.AgentResponse, error) {
	var entity response.AgentResponse
	if err := r.db.WithContext(ctx).First(&entity, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(agentResponseEntity, sessionID)
		}
		return nil, err
	}
	return &entity, nil
}

// UpdateStatus only touches rows that are still pending or already hold
// status, so concurrent writers cannot move a record out of a terminal state.
func (r *agentResponseRepository) UpdateStatus(
	ctx context.Context,
	sessionID string,
	status response.SafetyStatus,
	result response.SafetyResult,
	detectors []string,
) error {
	if !response.StatusPending.CanTransitionTo(status) {
		return fmt.Errorf("%w: cannot write %q", domain.ErrInvalidTransition, status)
	}

	res := r.db.WithContext(ctx).
		Model(&response.AgentResponse{}).
		Where("session_id = ? AND safety_status IN ?", sessionID, []string{string(response.StatusPending), string(status)}).
		Updates(map[string]interface{}{
			"safety_status": status,
			"safety_result": result,
			"detectors":     types.StringArray(detectors),
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update safety status of %s: %w", sessionID, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&response.AgentResponse{}).Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up %s: %w", sessionID, err)
	}
	if count == 0 {
		return domain.NewNotFoundError(agentResponseEntity, sessionID)
	}
	return fmt.Errorf("%w: %s is already terminal", domain.ErrInvalidTransition, sessionID)
}

func (r *agentResponseRepository) CountByStatus(ctx context.Context) (map[response.SafetyStatus]int64, error) {
	var rows []struct {
		SafetyStatus string
		Total        int64
	}
	err := r.db.WithContext(ctx).
		Model(&response.AgentResponse{}).
		Select("safety_status, count(*) AS total").
		Group("safety_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[response.SafetyStatus]int64, len(rows))
	for _, row := range rows {
		out[response.SafetyStatus(row.SafetyStatus)] = row.Total
	}
	return out, nil
}
