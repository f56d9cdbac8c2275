package migrations

import (
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20260101_create_agent_responses",
		Name: "Create agent_responses table",
		Up: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS agent_responses (
					session_id          TEXT PRIMARY KEY,
					chat_id             TEXT NOT NULL,
					trigger_message_id  TEXT NOT NULL,
					safety_status       TEXT NOT NULL DEFAULT 'pending',
					safety_result       JSONB,
					detectors           TEXT[],
					created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT agent_responses_safety_status_check
						CHECK (safety_status IN ('pending', 'passed', 'recalled'))
				);
			`).Error; err != nil {
				return err
			}
			return tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_agent_responses_safety_status
					ON agent_responses (safety_status);
			`).Error
		},
		Down: func(tx *gorm.DB) error {
			return tx.Exec(`DROP TABLE IF EXISTS agent_responses;`).Error
		},
	})
}
