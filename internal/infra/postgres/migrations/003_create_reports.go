package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createReportsTable creates the moderation reports table.
// One table serves both review and reply reports, keyed by target_type.
func createReportsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "003_create_reports",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS reports (
					id BIGSERIAL PRIMARY KEY,
					target_type VARCHAR(10) NOT NULL CHECK (target_type IN ('review', 'reply')),
					target_id BIGINT NOT NULL,
					reporter_user_id BIGINT NOT NULL,
					reported_user_id BIGINT NOT NULL DEFAULT 0,

					category VARCHAR(50) NOT NULL,
					reason VARCHAR(500) NOT NULL,
					description VARCHAR(2000) NOT NULL DEFAULT '',
					severity SMALLINT NOT NULL,
					priority SMALLINT NOT NULL,

					-- Violation flags
					involves_harassment BOOLEAN NOT NULL DEFAULT FALSE,
					involves_hate_speech BOOLEAN NOT NULL DEFAULT FALSE,
					involves_violence BOOLEAN NOT NULL DEFAULT FALSE,
					involves_threats BOOLEAN NOT NULL DEFAULT FALSE,
					involves_self_harm BOOLEAN NOT NULL DEFAULT FALSE,
					involves_sexual_content BOOLEAN NOT NULL DEFAULT FALSE,
					involves_minors BOOLEAN NOT NULL DEFAULT FALSE,
					involves_spam BOOLEAN NOT NULL DEFAULT FALSE,
					involves_scam BOOLEAN NOT NULL DEFAULT FALSE,
					involves_misinformation BOOLEAN NOT NULL DEFAULT FALSE,
					involves_impersonation BOOLEAN NOT NULL DEFAULT FALSE,
					involves_privacy_violation BOOLEAN NOT NULL DEFAULT FALSE,
					involves_copyright BOOLEAN NOT NULL DEFAULT FALSE,
					involves_spoilers BOOLEAN NOT NULL DEFAULT FALSE,
					involves_off_topic BOOLEAN NOT NULL DEFAULT FALSE,
					involves_profanity BOOLEAN NOT NULL DEFAULT FALSE,
					involves_discrimination BOOLEAN NOT NULL DEFAULT FALSE,
					involves_illegal_activity BOOLEAN NOT NULL DEFAULT FALSE,
					involves_bullying BOOLEAN NOT NULL DEFAULT FALSE,
					involves_extremism BOOLEAN NOT NULL DEFAULT FALSE,

					-- Content analysis
					toxicity_score DOUBLE PRECISION NOT NULL DEFAULT 0,
					spam_probability DOUBLE PRECISION NOT NULL DEFAULT 0,
					ai_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
					reporter_trust_score DOUBLE PRECISION NOT NULL DEFAULT 0,

					-- Corroboration
					duplicate_count INTEGER NOT NULL DEFAULT 0,
					evidence_urls TEXT[],
					is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
					reported_user_prior_violations INTEGER NOT NULL DEFAULT 0,

					-- Scores
					risk_score SMALLINT NOT NULL DEFAULT 0,
					urgency_score SMALLINT NOT NULL DEFAULT 0,
					impact_score SMALLINT NOT NULL DEFAULT 0,
					confidence_score SMALLINT NOT NULL DEFAULT 0,

					-- Workflow
					status VARCHAR(20) NOT NULL DEFAULT 'pending',
					assigned_moderator_id BIGINT,
					assigned_at TIMESTAMPTZ,
					investigation_started_at TIMESTAMPTZ,
					resolved_by_id BIGINT,
					resolved_at TIMESTAMPTZ,
					resolution_action VARCHAR(100) NOT NULL DEFAULT '',
					resolution_notes TEXT NOT NULL DEFAULT '',
					resolution_time_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
					is_valid BOOLEAN,
					dismissed_by_id BIGINT,
					dismissed_at TIMESTAMPTZ,
					dismissal_reason VARCHAR(500) NOT NULL DEFAULT '',
					escalated_at TIMESTAMPTZ,
					escalation_reason VARCHAR(500) NOT NULL DEFAULT '',
					escalation_level SMALLINT NOT NULL DEFAULT 0,
					duplicate_of_report_id BIGINT REFERENCES reports(id),
					marked_duplicate_at TIMESTAMPTZ,

					version INTEGER NOT NULL DEFAULT 0,
					created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMPTZ
				);
			`).Error; err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_reports_target ON reports(target_type, target_id);",
				"CREATE INDEX IF NOT EXISTS idx_reports_status_urgency ON reports(status, urgency_score DESC);",
				"CREATE INDEX IF NOT EXISTS idx_reports_reported_user ON reports(reported_user_id);",
			}

			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS reports;").Error
		},
	}
}
