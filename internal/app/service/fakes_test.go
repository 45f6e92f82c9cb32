package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"review-engagement-service/internal/domain"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

func ptr[T any](v T) *T { return &v }

type memReviews struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Review
	err    error
}

func newMemReviews() *memReviews { return &memReviews{rows: map[int64]domain.Review{}} }

func (m *memReviews) Create(_ context.Context, r *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	r.ID = m.nextID
	m.rows[r.ID] = *r
	return nil
}

func (m *memReviews) Update(_ context.Context, r *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	r.Version++
	m.rows[r.ID] = *r
	return nil
}

func (m *memReviews) GetByID(_ context.Context, id int64) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memReviews) ListByBook(_ context.Context, bookID int64, params domain.ReviewListParams) (*domain.Page[domain.Review], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	params.Normalize()
	var items []*domain.Review
	for _, r := range m.rows {
		if r.BookID == bookID && (r.IsVisible || params.IncludeHidden) {
			items = append(items, &r)
		}
	}
	slices.SortFunc(items, func(a, b *domain.Review) int { return int(a.ID - b.ID) })
	return domain.NewPage(items, int64(len(items)), params.Page, params.PageSize), nil
}

func (m *memReviews) ExistsForUser(_ context.Context, bookID, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.BookID == bookID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type memReplies struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.ReviewReply
}

func newMemReplies() *memReplies { return &memReplies{rows: map[int64]domain.ReviewReply{}} }

func (m *memReplies) Create(_ context.Context, r *domain.ReviewReply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	m.rows[r.ID] = *r
	return nil
}

func (m *memReplies) Update(_ context.Context, r *domain.ReviewReply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.Version++
	m.rows[r.ID] = *r
	return nil
}

func (m *memReplies) GetByID(_ context.Context, id int64) (*domain.ReviewReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memReplies) ListByReview(_ context.Context, reviewID int64, includeDeleted bool) ([]*domain.ReviewReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ReviewReply
	for _, r := range m.rows {
		if r.ReviewID == reviewID && (includeDeleted || !r.IsDeleted) {
			out = append(out, &r)
		}
	}
	slices.SortFunc(out, func(a, b *domain.ReviewReply) int { return int(a.ID - b.ID) })
	return out, nil
}

type memReactions struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.ReplyReaction
}

func newMemReactions() *memReactions { return &memReactions{rows: map[int64]domain.ReplyReaction{}} }

func (m *memReactions) Create(_ context.Context, r *domain.ReplyReaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.ReplyID == r.ReplyID && existing.UserID == r.UserID {
			return errors.New("duplicate reaction")
		}
	}
	m.nextID++
	r.ID = m.nextID
	m.rows[r.ID] = *r
	return nil
}

func (m *memReactions) Update(_ context.Context, r *domain.ReplyReaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[r.ID] = *r
	return nil
}

func (m *memReactions) GetByReplyAndUser(_ context.Context, replyID, userID int64) (*domain.ReplyReaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ReplyID == replyID && r.UserID == userID {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memReactions) ListByReply(_ context.Context, replyID int64) ([]*domain.ReplyReaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ReplyReaction
	for _, r := range m.rows {
		if r.ReplyID == replyID {
			out = append(out, &r)
		}
	}
	return out, nil
}

type memReports struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]domain.Report
	updates int
}

func newMemReports() *memReports { return &memReports{rows: map[int64]domain.Report{}} }

func (m *memReports) Create(_ context.Context, r *domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	m.rows[r.ID] = *r
	return nil
}

func (m *memReports) Update(_ context.Context, r *domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	r.Version++
	m.rows[r.ID] = *r
	return nil
}

func (m *memReports) GetByID(_ context.Context, id int64) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memReports) sorted() []*domain.Report {
	var out []*domain.Report
	for _, r := range m.rows {
		out = append(out, &r)
	}
	slices.SortFunc(out, func(a, b *domain.Report) int { return int(a.ID - b.ID) })
	return out
}

func (m *memReports) List(_ context.Context, params domain.ReportListParams) (*domain.Page[domain.Report], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	params.Normalize()
	var items []*domain.Report
	for _, r := range m.sorted() {
		if params.OpenOnly && !r.IsOpen() {
			continue
		}
		items = append(items, r)
	}
	return domain.NewPage(items, int64(len(items)), params.Page, params.PageSize), nil
}

func (m *memReports) CountOpenForTarget(_ context.Context, targetType domain.ReportTargetType, targetID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if r.TargetType == targetType && r.TargetID == targetID && r.IsOpen() {
			n++
		}
	}
	return n, nil
}

func (m *memReports) CountUpheldAgainstUser(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if r.ReportedUserID == userID && r.Status == domain.ReportStatusResolved && r.IsValid != nil && *r.IsValid {
			n++
		}
	}
	return n, nil
}

func (m *memReports) ListOpenAfter(_ context.Context, afterID int64, limit int) ([]*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Report
	for _, r := range m.sorted() {
		if r.ID > afterID && r.IsOpen() && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = map[string][]byte{}
	return nil
}

func (c *memCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

type stubAnalyzer struct {
	text       *domain.TextAnalysis
	assessment *domain.ReactionAssessment
	err        error
}

func (a stubAnalyzer) AnalyzeText(context.Context, string) (*domain.TextAnalysis, error) {
	return a.text, a.err
}

func (a stubAnalyzer) AssessReaction(context.Context, domain.ReactionSignals) (*domain.ReactionAssessment, error) {
	return a.assessment, a.err
}

type publishedEvent struct {
	eventType   string
	aggregateID int64
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, _ string, aggregateID int64, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{eventType, aggregateID})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.eventType
	}
	return out
}
