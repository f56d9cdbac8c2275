package migrations

import (
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/database"
	"gorm.io/gorm"
)

// Recall lookups and audits go by chat and trigger message.
func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20260102_add_chat_index",
		Name: "Index agent_responses by chat and trigger message",
		Up: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_agent_responses_chat_trigger
					ON agent_responses (chat_id, trigger_message_id);
			`).Error
		},
		Down: func(tx *gorm.DB) error {
			return tx.Exec(`DROP INDEX IF EXISTS idx_agent_responses_chat_trigger;`).Error
		},
	})
}
