package domain

import "fmt"

// SortOrder represents the sort direction.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// ReviewSortField represents the field reviews are sorted by.
type ReviewSortField string

const (
	ReviewSortQuality     ReviewSortField = "quality"
	ReviewSortHelpfulness ReviewSortField = "helpfulness" // helpful_votes / total votes
	ReviewSortRecent      ReviewSortField = "recent"
)

// ReportSortField represents the field the moderation queue is sorted by.
type ReportSortField string

const (
	ReportSortUrgency ReportSortField = "urgency"
	ReportSortRisk    ReportSortField = "risk"
	ReportSortCreated ReportSortField = "created"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ReviewListParams holds filter and paging parameters for a book's reviews.
type ReviewListParams struct {
	// Filters
	MinRating     int  // 0 disables the filter
	IncludeHidden bool // moderators see hidden reviews

	// Sorting
	SortBy    ReviewSortField
	SortOrder SortOrder

	// Pagination
	Page     int // 1-indexed
	PageSize int
}

// DefaultReviewListParams returns the public listing defaults.
func DefaultReviewListParams() ReviewListParams {
	return ReviewListParams{
		SortBy:    ReviewSortQuality,
		SortOrder: SortOrderDesc,
		Page:      1,
		PageSize:  defaultPageSize,
	}
}

// Normalize corrects out-of-range values. This is bound correction, not validation.
func (p *ReviewListParams) Normalize() {
	p.Page, p.PageSize = normalizePaging(p.Page, p.PageSize)
	if p.SortBy == "" {
		p.SortBy = ReviewSortQuality
	}
	if p.SortOrder == "" {
		p.SortOrder = SortOrderDesc
	}
	if p.MinRating < 0 || p.MinRating > 5 {
		p.MinRating = 0
	}
}

// Offset calculates the database offset for pagination.
func (p *ReviewListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// CacheKey identifies the listing for a book in the review cache.
func (p *ReviewListParams) CacheKey(bookID int64) string {
	return fmt.Sprintf("%s:%s:%s:r%d:h%t:p%d:s%d",
		BookReviewsCachePrefix(bookID), p.SortBy, p.SortOrder, p.MinRating, p.IncludeHidden, p.Page, p.PageSize)
}

// BookReviewsCachePrefix is the cache namespace of every listing of a book.
func BookReviewsCachePrefix(bookID int64) string {
	return fmt.Sprintf("reviews:book:%d", bookID)
}

// ReportListParams holds filter and paging parameters for the moderation queue.
type ReportListParams struct {
	Status     ReportStatus     // empty lists every status
	OpenOnly   bool             // overrides Status with every open state
	TargetType ReportTargetType // empty lists both kinds

	SortBy    ReportSortField
	SortOrder SortOrder

	Page     int
	PageSize int
}

// Normalize corrects out-of-range values.
func (p *ReportListParams) Normalize() {
	p.Page, p.PageSize = normalizePaging(p.Page, p.PageSize)
	if p.SortBy == "" {
		p.SortBy = ReportSortUrgency
	}
	if p.SortOrder == "" {
		p.SortOrder = SortOrderDesc
	}
}

// Offset calculates the database offset for pagination.
func (p *ReportListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize
}

// Page holds one page of results.
type Page[T any] struct {
	Items      []*T  `json:"items"`
	Total      int64 `json:"total"`       // Total matching records
	Page       int   `json:"page"`        // Current page (1-indexed)
	PageSize   int   `json:"page_size"`   // Items per page
	TotalPages int   `json:"total_pages"` // Total number of pages
}

// NewPage creates a Page with calculated pagination.
func NewPage[T any](items []*T, total int64, page, pageSize int) *Page[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}

	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
