package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// addHelpfulnessIndex backs the "helpfulness" review sort.
//
// The ratio helpful_votes / (helpful_votes + unhelpful_votes) is never stored,
// so the index is built on the same expression the listing query orders by.
// Reviews without votes have a NULL ratio and sort last.
func addHelpfulnessIndex() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "004_add_helpfulness_index",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_reviews_book_helpfulness
				ON reviews (book_id, (helpful_votes::float8 / NULLIF(helpful_votes + unhelpful_votes, 0)) DESC NULLS LAST)
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`DROP INDEX IF EXISTS idx_reviews_book_helpfulness`).Error
		},
	}
}
