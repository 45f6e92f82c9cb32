package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"review-engagement-service/internal/domain"
	"review-engagement-service/internal/infra/postgres/migrations"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// setupTestDB starts a PostgreSQL container and applies every migration.
//
// Requires Docker. Skip with: go test -short
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgresContainer.Run(ctx,
		"postgres:16-alpine",
		postgresContainer.WithDatabase("testdb"),
		postgresContainer.WithUsername("testuser"),
		postgresContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start PostgreSQL container (is Docker running?)")

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgresDriver.Open(connStr), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, migrations.Run(db), "failed to run migrations")

	return db
}

func newSavedReview(t *testing.T, repo *ReviewRepository, bookID, userID int64, rating int) *domain.Review {
	t.Helper()

	review := domain.NewReview(bookID, userID, rating, "A fine title",
		"This review has plenty of words to pass the content length check easily.")
	review.PrepareForSave(testNow)
	require.NoError(t, repo.Create(context.Background(), review))
	require.NotZero(t, review.ID)

	return review
}

func TestReviewRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	t.Run("create and get round trip", func(t *testing.T) {
		review := newSavedReview(t, repo, 1, 10, 4)

		got, err := repo.GetByID(ctx, review.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, review.Title, got.Title)
		assert.Equal(t, review.QualityScore, got.QualityScore)
		assert.True(t, got.IsVisible)
		assert.True(t, got.CreatedAt.Equal(testNow))
	})

	t.Run("missing review returns nil", func(t *testing.T) {
		got, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("update persists zero values and bumps version", func(t *testing.T) {
		review := newSavedReview(t, repo, 2, 10, 5)
		review.Hide(testNow.Add(time.Hour))
		require.NoError(t, repo.Update(ctx, review))
		assert.Equal(t, 1, review.Version)

		got, err := repo.GetByID(ctx, review.ID)
		require.NoError(t, err)
		assert.False(t, got.IsVisible)
		assert.Equal(t, 1, got.Version)
	})

	t.Run("update of unknown id fails", func(t *testing.T) {
		review := domain.NewReview(3, 10, 3, "Ghost title", "ghost content that is long enough")
		review.ID = 424242
		err := repo.Update(ctx, review)
		assert.ErrorIs(t, err, ErrRowNotFound)
	})

	t.Run("exists for user", func(t *testing.T) {
		newSavedReview(t, repo, 4, 11, 3)

		exists, err := repo.ExistsForUser(ctx, 4, 11)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsForUser(ctx, 4, 12)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("list filters hidden and sorts by helpfulness", func(t *testing.T) {
		const bookID = 50
		a := newSavedReview(t, repo, bookID, 1, 5)
		b := newSavedReview(t, repo, bookID, 2, 4)
		c := newSavedReview(t, repo, bookID, 3, 2)

		a.CastVote(true, testNow)
		a.CastVote(false, testNow)
		require.NoError(t, repo.Update(ctx, a))
		b.CastVote(true, testNow)
		require.NoError(t, repo.Update(ctx, b))
		c.Hide(testNow)
		require.NoError(t, repo.Update(ctx, c))

		page, err := repo.ListByBook(ctx, bookID, domain.ReviewListParams{SortBy: domain.ReviewSortHelpfulness})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, int64(2), page.Total)
		assert.Equal(t, b.ID, page.Items[0].ID)
		assert.Equal(t, a.ID, page.Items[1].ID)

		page, err = repo.ListByBook(ctx, bookID, domain.ReviewListParams{IncludeHidden: true, MinRating: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)

		page, err = repo.ListByBook(ctx, bookID, domain.ReviewListParams{IncludeHidden: true, PageSize: 1, Page: 2})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, 3, page.TotalPages)
	})
}

func TestReplyAndReactionRepositories(t *testing.T) {
	db := setupTestDB(t)
	reviews := NewReviewRepository(db)
	replies := NewReplyRepository(db)
	reactions := NewReactionRepository(db)
	ctx := context.Background()

	review := newSavedReview(t, reviews, 7, 1, 4)

	root := domain.NewReviewReply(review.ID, 2, "Thanks for sharing this view.")
	root.PrepareForSave(testNow)
	require.NoError(t, replies.Create(ctx, root))

	child := domain.NewReviewReply(review.ID, 3, "I disagree with the pacing part.")
	child.AttachTo(root)
	child.PrepareForSave(testNow.Add(time.Minute))
	require.NoError(t, replies.Create(ctx, child))

	t.Run("list keeps thread order and hides deleted", func(t *testing.T) {
		child.SoftDelete("off topic", testNow.Add(time.Hour))
		require.NoError(t, replies.Update(ctx, child))

		list, err := replies.ListByReview(ctx, review.ID, false)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, root.ID, list[0].ID)

		list, err = replies.ListByReview(ctx, review.ID, true)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.NotNil(t, list[1].ParentReplyID)
		assert.Equal(t, root.ID, *list[1].ParentReplyID)
		assert.Equal(t, 1, list[1].Depth)
		assert.True(t, list[1].IsDeleted)
	})

	t.Run("one reaction per user and reply", func(t *testing.T) {
		reaction := domain.NewReplyReaction(root.ID, 9, "love", 4)
		reaction.PrepareForSave(testNow)
		require.NoError(t, reactions.Create(ctx, reaction))

		dup := domain.NewReplyReaction(root.ID, 9, "like", 1)
		dup.PrepareForSave(testNow)
		assert.Error(t, reactions.Create(ctx, dup))

		got, err := reactions.GetByReplyAndUser(ctx, root.ID, 9)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.ReactionType("love"), got.ReactionType)
		assert.InDelta(t, reaction.SentimentValue, got.SentimentValue, 1e-9)

		got.ReactionIntensity = 1
		got.PrepareForSave(testNow.Add(time.Hour))
		require.NoError(t, reactions.Update(ctx, got))

		list, err := reactions.ListByReply(ctx, root.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 1, list[0].ReactionIntensity)

		missing, err := reactions.GetByReplyAndUser(ctx, root.ID, 10)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestReportRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	newReport := func(targetID int64, severity int) *domain.Report {
		report := domain.NewReport(domain.ReportTargetReview, targetID, 100, "spam", "advertising links", severity, 2)
		report.ReportedUserID = 200
		report.InvolvesSpam = true
		report.EvidenceURLs = []string{"https://example.com/a.png"}
		report.PrepareForSave(testNow)
		require.NoError(t, repo.Create(ctx, report))
		return report
	}

	low := newReport(1, 1)
	high := newReport(1, 5)
	closed := newReport(2, 3)

	reason := "confirmed"
	closed.Resolve(300, "content_removed", &reason, nil, testNow.Add(2*time.Hour))
	require.NoError(t, repo.Update(ctx, closed))

	t.Run("round trip keeps violations and evidence", func(t *testing.T) {
		got, err := repo.GetByID(ctx, high.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.InvolvesSpam)
		assert.Equal(t, []string{"https://example.com/a.png"}, got.EvidenceURLs)
		assert.Equal(t, high.RiskScore, got.RiskScore)
	})

	t.Run("open queue sorted by risk", func(t *testing.T) {
		page, err := repo.List(ctx, domain.ReportListParams{OpenOnly: true, SortBy: domain.ReportSortRisk})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, high.ID, page.Items[0].ID)
		assert.Equal(t, low.ID, page.Items[1].ID)
	})

	t.Run("status filter", func(t *testing.T) {
		page, err := repo.List(ctx, domain.ReportListParams{Status: domain.ReportStatusResolved})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, closed.ID, page.Items[0].ID)
	})

	t.Run("counts", func(t *testing.T) {
		open, err := repo.CountOpenForTarget(ctx, domain.ReportTargetReview, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, open)

		upheld, err := repo.CountUpheldAgainstUser(ctx, 200)
		require.NoError(t, err)
		assert.Equal(t, 1, upheld)
	})

	t.Run("list open after pages by id", func(t *testing.T) {
		batch, err := repo.ListOpenAfter(ctx, 0, 1)
		require.NoError(t, err)
		require.Len(t, batch, 1)
		assert.Equal(t, low.ID, batch[0].ID)

		batch, err = repo.ListOpenAfter(ctx, low.ID, 10)
		require.NoError(t, err)
		require.Len(t, batch, 1)
		assert.Equal(t, high.ID, batch[0].ID)
	})
}
