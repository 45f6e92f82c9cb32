package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createReviewsTable creates the reviews table with its listing indexes.
func createReviewsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_reviews",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS reviews (
					id BIGSERIAL PRIMARY KEY,
					book_id BIGINT NOT NULL,
					user_id BIGINT NOT NULL,

					-- Ratings
					overall_rating SMALLINT NOT NULL CHECK (overall_rating BETWEEN 1 AND 5),
					story_rating SMALLINT,
					character_rating SMALLINT,
					writing_style_rating SMALLINT,
					pacing_rating SMALLINT,
					world_building_rating SMALLINT,

					-- Text
					title VARCHAR(200) NOT NULL,
					content TEXT NOT NULL,
					summary VARCHAR(500) NOT NULL DEFAULT '',
					positive_aspects VARCHAR(1000) NOT NULL DEFAULT '',
					negative_aspects VARCHAR(1000) NOT NULL DEFAULT '',
					target_audience VARCHAR(200) NOT NULL DEFAULT '',
					similar_recommendations VARCHAR(500) NOT NULL DEFAULT '',

					-- Flags
					contains_spoilers BOOLEAN NOT NULL DEFAULT FALSE,
					is_recommended BOOLEAN NOT NULL DEFAULT FALSE,
					is_verified_purchase BOOLEAN NOT NULL DEFAULT FALSE,
					is_visible BOOLEAN NOT NULL DEFAULT TRUE,
					is_flagged BOOLEAN NOT NULL DEFAULT FALSE,

					-- Counters
					helpful_votes INTEGER NOT NULL DEFAULT 0,
					unhelpful_votes INTEGER NOT NULL DEFAULT 0,
					reply_count INTEGER NOT NULL DEFAULT 0,
					report_count INTEGER NOT NULL DEFAULT 0,

					-- Derived
					word_count INTEGER NOT NULL DEFAULT 0,
					character_count INTEGER NOT NULL DEFAULT 0,
					estimated_reading_time_minutes INTEGER NOT NULL DEFAULT 1,
					quality_score SMALLINT NOT NULL DEFAULT 0,

					version INTEGER NOT NULL DEFAULT 0,
					created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMPTZ,

					CONSTRAINT uq_reviews_book_user UNIQUE (book_id, user_id)
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_reviews_book_quality ON reviews(book_id, quality_score DESC);",
				"CREATE INDEX IF NOT EXISTS idx_reviews_book_created ON reviews(book_id, created_at DESC);",
				"CREATE INDEX IF NOT EXISTS idx_reviews_user ON reviews(user_id);",
			}

			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS reviews;").Error
		},
	}
}
