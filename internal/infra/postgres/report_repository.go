package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"review-engagement-service/internal/domain"
)

// ReportRepository implements domain.ReportRepository using PostgreSQL.
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new PostgreSQL report repository.
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	model := FromDomainReport(report)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("creating report: %w", err)
	}

	report.ID = model.ID

	return nil
}

func (r *ReportRepository) Update(ctx context.Context, report *domain.Report) error {
	model := FromDomainReport(report)
	model.Version++

	if err := updateAll(ctx, r.db, model, report.ID); err != nil {
		return fmt.Errorf("updating report: %w", err)
	}

	report.Version = model.Version

	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*domain.Report, error) {
	var model ReportModel
	found, err := findOne(ctx, r.db, &model, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting report by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return model.ToDomain(), nil
}

// List returns one page of the moderation queue.
func (r *ReportRepository) List(ctx context.Context, params domain.ReportListParams) (*domain.Page[domain.Report], error) {
	params.Normalize()

	query := r.db.WithContext(ctx).Model(&ReportModel{})
	switch {
	case params.OpenOnly:
		query = query.Where("status IN ?", openStatuses())
	case params.Status != "":
		query = query.Where("status = ?", string(params.Status))
	}
	if params.TargetType != "" {
		query = query.Where("target_type = ?", string(params.TargetType))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting reports: %w", err)
	}

	var models []ReportModel
	err := r.applyOrdering(query, params).
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	reports := make([]*domain.Report, len(models))
	for i := range models {
		reports[i] = models[i].ToDomain()
	}

	return domain.NewPage(reports, total, params.Page, params.PageSize), nil
}

func (r *ReportRepository) applyOrdering(query *gorm.DB, params domain.ReportListParams) *gorm.DB {
	dir := direction(params.SortOrder)

	switch params.SortBy {
	case domain.ReportSortRisk:
		return orderBy(query, "risk_score", dir)
	case domain.ReportSortCreated:
		return orderBy(query, "created_at", dir)
	default:
		return orderBy(query, "urgency_score", dir)
	}
}

// CountOpenForTarget counts open reports filed against a review or reply.
func (r *ReportRepository) CountOpenForTarget(ctx context.Context, targetType domain.ReportTargetType, targetID int64) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ReportModel{}).
		Where("target_type = ? AND target_id = ? AND status IN ?", string(targetType), targetID, openStatuses()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting open reports for target: %w", err)
	}

	return int(count), nil
}

// CountUpheldAgainstUser counts resolved, valid reports against the user.
func (r *ReportRepository) CountUpheldAgainstUser(ctx context.Context, userID int64) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ReportModel{}).
		Where("reported_user_id = ? AND status = ? AND is_valid = ?", userID, string(domain.ReportStatusResolved), true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting upheld reports: %w", err)
	}

	return int(count), nil
}

// ListOpenAfter pages through open reports by id, for batch rescoring.
func (r *ReportRepository) ListOpenAfter(ctx context.Context, afterID int64, limit int) ([]*domain.Report, error) {
	var models []ReportModel
	err := r.db.WithContext(ctx).
		Where("id > ? AND status IN ?", afterID, openStatuses()).
		Order("id ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing open reports: %w", err)
	}

	reports := make([]*domain.Report, len(models))
	for i := range models {
		reports[i] = models[i].ToDomain()
	}

	return reports, nil
}

func openStatuses() []string {
	statuses := domain.OpenReportStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}

	return out
}
