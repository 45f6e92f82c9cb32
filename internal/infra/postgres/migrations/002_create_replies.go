package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createRepliesTables creates review_replies and reply_reactions.
func createRepliesTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_create_replies",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS review_replies (
					id BIGSERIAL PRIMARY KEY,
					review_id BIGINT NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
					user_id BIGINT NOT NULL,
					parent_reply_id BIGINT REFERENCES review_replies(id),
					depth SMALLINT NOT NULL DEFAULT 0,

					content TEXT NOT NULL,

					like_count INTEGER NOT NULL DEFAULT 0,
					dislike_count INTEGER NOT NULL DEFAULT 0,
					child_reply_count INTEGER NOT NULL DEFAULT 0,
					report_count INTEGER NOT NULL DEFAULT 0,

					is_author_verified BOOLEAN NOT NULL DEFAULT FALSE,
					is_review_author BOOLEAN NOT NULL DEFAULT FALSE,
					is_flagged BOOLEAN NOT NULL DEFAULT FALSE,

					word_count INTEGER NOT NULL DEFAULT 0,
					character_count INTEGER NOT NULL DEFAULT 0,
					estimated_reading_time_seconds INTEGER NOT NULL DEFAULT 5,
					quality_score SMALLINT NOT NULL DEFAULT 0,

					is_edited BOOLEAN NOT NULL DEFAULT FALSE,
					edited_at TIMESTAMPTZ,
					edit_count INTEGER NOT NULL DEFAULT 0,
					is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
					deleted_at TIMESTAMPTZ,
					deletion_reason VARCHAR(500) NOT NULL DEFAULT '',

					version INTEGER NOT NULL DEFAULT 0,
					created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMPTZ
				);
			`).Error; err != nil {
				return err
			}

			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS reply_reactions (
					id BIGSERIAL PRIMARY KEY,
					reply_id BIGINT NOT NULL REFERENCES review_replies(id) ON DELETE CASCADE,
					user_id BIGINT NOT NULL,

					reaction_type VARCHAR(20) NOT NULL,
					reaction_intensity SMALLINT NOT NULL DEFAULT 3,
					comment VARCHAR(500) NOT NULL DEFAULT '',

					is_user_verified BOOLEAN NOT NULL DEFAULT FALSE,
					is_premium_user BOOLEAN NOT NULL DEFAULT FALSE,
					user_follower_count INTEGER NOT NULL DEFAULT 0,
					time_spent_seconds INTEGER NOT NULL DEFAULT 0,

					spam_score DOUBLE PRECISION NOT NULL DEFAULT 0,
					bot_score DOUBLE PRECISION NOT NULL DEFAULT 0,
					anomaly_score DOUBLE PRECISION NOT NULL DEFAULT 0,
					is_flagged BOOLEAN NOT NULL DEFAULT FALSE,
					report_count INTEGER NOT NULL DEFAULT 0,

					sentiment_value DOUBLE PRECISION NOT NULL DEFAULT 0,
					quality_score SMALLINT NOT NULL DEFAULT 0,
					engagement_score SMALLINT NOT NULL DEFAULT 0,
					influence_score SMALLINT NOT NULL DEFAULT 0,

					created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMPTZ,

					CONSTRAINT uq_reaction_reply_user UNIQUE (reply_id, user_id)
				);
			`).Error; err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_replies_review_created ON review_replies(review_id, created_at);",
				"CREATE INDEX IF NOT EXISTS idx_replies_parent ON review_replies(parent_reply_id);",
			}

			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			if err := tx.Exec("DROP TABLE IF EXISTS reply_reactions;").Error; err != nil {
				return err
			}
			return tx.Exec("DROP TABLE IF EXISTS review_replies;").Error
		},
	}
}
