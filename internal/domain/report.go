package domain

import (
	"strings"
	"time"
)

// ReportTargetType is the kind of content a report points at.
type ReportTargetType string

const (
	ReportTargetReview ReportTargetType = "review"
	ReportTargetReply  ReportTargetType = "reply"
)

// ReportStatus is the moderation state of a report.
type ReportStatus string

const (
	ReportStatusPending       ReportStatus = "pending"
	ReportStatusAssigned      ReportStatus = "assigned"
	ReportStatusInvestigating ReportStatus = "investigating"
	ReportStatusResolved      ReportStatus = "resolved"
	ReportStatusDismissed     ReportStatus = "dismissed"
	ReportStatusEscalated     ReportStatus = "escalated"
	ReportStatusDuplicate     ReportStatus = "duplicate"
)

// IsKnown reports whether s is one of the defined states.
func (s ReportStatus) IsKnown() bool {
	switch s {
	case ReportStatusPending, ReportStatusAssigned, ReportStatusInvestigating,
		ReportStatusResolved, ReportStatusDismissed, ReportStatusEscalated, ReportStatusDuplicate:
		return true
	}

	return false
}

// IsOpen reports whether a moderator still has to act on the report.
func (s ReportStatus) IsOpen() bool {
	switch s {
	case ReportStatusPending, ReportStatusAssigned, ReportStatusInvestigating, ReportStatusEscalated:
		return true
	}

	return false
}

// OpenReportStatuses lists every status for which IsOpen is true.
func OpenReportStatuses() []ReportStatus {
	return []ReportStatus{ReportStatusPending, ReportStatusAssigned, ReportStatusInvestigating, ReportStatusEscalated}
}

const maxReportLevel = 5

// Violations are the "involves X" flags a reporter can tick.
type Violations struct {
	InvolvesHarassment       bool `json:"involves_harassment"`
	InvolvesHateSpeech       bool `json:"involves_hate_speech"`
	InvolvesViolence         bool `json:"involves_violence"`
	InvolvesThreats          bool `json:"involves_threats"`
	InvolvesSelfHarm         bool `json:"involves_self_harm"`
	InvolvesSexualContent    bool `json:"involves_sexual_content"`
	InvolvesMinors           bool `json:"involves_minors"`
	InvolvesSpam             bool `json:"involves_spam"`
	InvolvesScam             bool `json:"involves_scam"`
	InvolvesMisinformation   bool `json:"involves_misinformation"`
	InvolvesImpersonation    bool `json:"involves_impersonation"`
	InvolvesPrivacyViolation bool `json:"involves_privacy_violation"`
	InvolvesCopyright        bool `json:"involves_copyright"`
	InvolvesSpoilers         bool `json:"involves_spoilers"`
	InvolvesOffTopic         bool `json:"involves_off_topic"`
	InvolvesProfanity        bool `json:"involves_profanity"`
	InvolvesDiscrimination   bool `json:"involves_discrimination"`
	InvolvesIllegalActivity  bool `json:"involves_illegal_activity"`
	InvolvesBullying         bool `json:"involves_bullying"`
	InvolvesExtremism        bool `json:"involves_extremism"`
}

// weighted pairs each flag with its risk weight.
func (v Violations) weighted() []struct {
	set    bool
	weight int
} {
	return []struct {
		set    bool
		weight int
	}{
		{v.InvolvesMinors, 25},
		{v.InvolvesViolence, 20},
		{v.InvolvesThreats, 20},
		{v.InvolvesSelfHarm, 20},
		{v.InvolvesExtremism, 20},
		{v.InvolvesHateSpeech, 15},
		{v.InvolvesIllegalActivity, 15},
		{v.InvolvesSexualContent, 15},
		{v.InvolvesHarassment, 10},
		{v.InvolvesDiscrimination, 10},
		{v.InvolvesBullying, 10},
		{v.InvolvesScam, 10},
		{v.InvolvesPrivacyViolation, 10},
		{v.InvolvesImpersonation, 8},
		{v.InvolvesMisinformation, 8},
		{v.InvolvesSpam, 5},
		{v.InvolvesCopyright, 5},
		{v.InvolvesProfanity, 3},
		{v.InvolvesSpoilers, 2},
		{v.InvolvesOffTopic, 1},
	}
}

// Weight is the summed risk weight of every set flag.
func (v Violations) Weight() int {
	total := 0
	for _, f := range v.weighted() {
		if f.set {
			total += f.weight
		}
	}

	return total
}

// Count is the number of set flags.
func (v Violations) Count() int {
	n := 0
	for _, f := range v.weighted() {
		if f.set {
			n++
		}
	}

	return n
}

// IsCritical reports flags that demand immediate attention.
func (v Violations) IsCritical() bool {
	return v.InvolvesViolence || v.InvolvesThreats || v.InvolvesSelfHarm || v.InvolvesMinors
}

// Report is a moderation report filed against a review or a reply.
type Report struct {
	ID             int64            `json:"id"`
	TargetType     ReportTargetType `json:"target_type"`
	TargetID       int64            `json:"target_id"`
	ReporterUserID int64            `json:"reporter_user_id"`
	ReportedUserID int64            `json:"reported_user_id,omitempty"`

	Category    string `json:"category"`
	Reason      string `json:"reason"`
	Description string `json:"description,omitempty"`
	Severity    int    `json:"severity"`
	Priority    int    `json:"priority"`

	Violations

	// Content analysis inputs
	ToxicityScore      float64 `json:"toxicity_score"`
	SpamProbability    float64 `json:"spam_probability"`
	AIConfidence       float64 `json:"ai_confidence"`
	ReporterTrustScore float64 `json:"reporter_trust_score"`

	// Corroboration
	DuplicateCount              int      `json:"duplicate_count"`
	EvidenceURLs                []string `json:"evidence_urls,omitempty"`
	IsAnonymous                 bool     `json:"is_anonymous"`
	ReportedUserPriorViolations int      `json:"reported_user_prior_violations"`

	// Derived
	RiskScore       int `json:"risk_score"`
	UrgencyScore    int `json:"urgency_score"`
	ImpactScore     int `json:"impact_score"`
	ConfidenceScore int `json:"confidence_score"`

	// Workflow
	Status                 ReportStatus `json:"status"`
	AssignedModeratorID    *int64       `json:"assigned_moderator_id,omitempty"`
	AssignedAt             *time.Time   `json:"assigned_at,omitempty"`
	InvestigationStartedAt *time.Time   `json:"investigation_started_at,omitempty"`
	ResolvedByID           *int64       `json:"resolved_by_id,omitempty"`
	ResolvedAt             *time.Time   `json:"resolved_at,omitempty"`
	ResolutionAction       string       `json:"resolution_action,omitempty"`
	ResolutionNotes        string       `json:"resolution_notes,omitempty"`
	ResolutionTimeHours    float64      `json:"resolution_time_hours,omitempty"`
	IsValid                *bool        `json:"is_valid,omitempty"`
	DismissedByID          *int64       `json:"dismissed_by_id,omitempty"`
	DismissedAt            *time.Time   `json:"dismissed_at,omitempty"`
	DismissalReason        string       `json:"dismissal_reason,omitempty"`
	EscalatedAt            *time.Time   `json:"escalated_at,omitempty"`
	EscalationReason       string       `json:"escalation_reason,omitempty"`
	EscalationLevel        int          `json:"escalation_level"`
	DuplicateOfReportID    *int64       `json:"duplicate_of_report_id,omitempty"`
	MarkedDuplicateAt      *time.Time   `json:"marked_duplicate_at,omitempty"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReport creates a pending report against a review or reply.
func NewReport(targetType ReportTargetType, targetID, reporterID int64, category, reason string, severity, priority int) *Report {
	return &Report{
		TargetType:     targetType,
		TargetID:       targetID,
		ReporterUserID: reporterID,
		Category:       category,
		Reason:         reason,
		Severity:       severity,
		Priority:       priority,
		Status:         ReportStatusPending,
	}
}

// IsOpen reports whether the report still awaits a final decision.
func (r *Report) IsOpen() bool {
	return r.Status.IsOpen()
}

// AgeHours is the time since the report was filed, never negative.
func (r *Report) AgeHours(now time.Time) float64 {
	if r.CreatedAt.IsZero() {
		return 0
	}

	return max(0, now.Sub(r.CreatedAt).Hours())
}

// reportScoring evaluates a report at a fixed instant, since urgency depends on age.
type reportScoring struct {
	r   *Report
	now time.Time
}

func reportLevel(get func(*Report) int) func(reportScoring) float64 {
	return func(s reportScoring) float64 { return float64(get(s.r)) }
}

var (
	reportSeverity   = reportLevel(func(r *Report) int { return r.Severity })
	reportPriority   = reportLevel(func(r *Report) int { return r.Priority })
	reportDuplicates = reportLevel(func(r *Report) int { return r.DuplicateCount })
)

var reportRisk = Scorecard[reportScoring]{
	// severity and priority
	Capped(func(s reportScoring) int { return s.r.Severity*10 + s.r.Priority*8 }, 70),
	// violation flags
	Capped(func(s reportScoring) int { return s.r.Violations.Weight() }, 40),
	// content analysis
	Threshold(func(s reportScoring) float64 { return s.r.ToxicityScore }, Rung{0.8, 15}, Rung{0.5, 10}, Rung{0.3, 5}),
	Threshold(func(s reportScoring) float64 { return s.r.SpamProbability }, Rung{0.8, 10}, Rung{0.5, 5}),
}

var reportUrgency = Scorecard[reportScoring]{
	Threshold(reportPriority, Rung{5, 30}, Rung{4, 24}, Rung{3, 18}, Rung{2, 12}, Rung{1, 6}),
	Threshold(reportSeverity, Rung{4, 20}, Rung{3, 10}),
	Flag(func(s reportScoring) bool { return s.r.Violations.IsCritical() }, 25),
	// age
	Threshold(func(s reportScoring) float64 { return s.r.AgeHours(s.now) },
		Rung{72, 25}, Rung{24, 15}, Rung{6, 10}, Rung{1, 5}),
}

var reportImpact = Scorecard[reportScoring]{
	Threshold(reportSeverity, Rung{5, 30}, Rung{4, 25}, Rung{3, 15}, Rung{2, 10}, Rung{1, 5}),
	Threshold(reportDuplicates, Rung{10, 30}, Rung{5, 20}, Rung{2, 10}, Rung{1, 5}),
	Threshold(func(s reportScoring) float64 { return float64(s.r.Violations.Count()) },
		Rung{3, 25}, Rung{2, 15}, Rung{1, 10}),
	Threshold(func(s reportScoring) float64 { return float64(s.r.ReportedUserPriorViolations) },
		Rung{3, 15}, Rung{1, 5}),
}

var reportConfidence = Scorecard[reportScoring]{
	Proportional(nil, func(s reportScoring) float64 { return clampUnit(s.r.ReporterTrustScore) }, 30),
	Threshold(func(s reportScoring) float64 { return float64(len(s.r.EvidenceURLs)) }, Rung{3, 20}, Rung{1, 10}),
	Threshold(func(s reportScoring) float64 { return float64(MeasureContent(s.r.Description).WordCount) },
		Rung{20, 15}, Rung{5, 10}),
	Proportional(nil, func(s reportScoring) float64 { return clampUnit(s.r.AIConfidence) }, 25),
	Threshold(reportDuplicates, Rung{3, 10}, Rung{1, 5}),
	// anonymity penalty
	Flag(func(s reportScoring) bool { return s.r.IsAnonymous }, -15),
}

// CalculateRiskScore scores how harmful the reported content is likely to be.
func (r *Report) CalculateRiskScore() int {
	return reportRisk.Score(reportScoring{r: r})
}

// CalculateUrgencyScore scores how soon a moderator should act, as of now.
func (r *Report) CalculateUrgencyScore(now time.Time) int {
	return reportUrgency.Score(reportScoring{r: r, now: now})
}

// CalculateImpactScore scores how widely the problem reaches.
func (r *Report) CalculateImpactScore() int {
	return reportImpact.Score(reportScoring{r: r})
}

// CalculateConfidenceScore scores how trustworthy the report is.
func (r *Report) CalculateConfidenceScore() int {
	return reportConfidence.Score(reportScoring{r: r})
}

// RecalculateScores refreshes all four scores as of now.
func (r *Report) RecalculateScores(now time.Time) {
	r.RiskScore = r.CalculateRiskScore()
	r.UrgencyScore = r.CalculateUrgencyScore(now)
	r.ImpactScore = r.CalculateImpactScore()
	r.ConfidenceScore = r.CalculateConfidenceScore()
}

// PrepareForSave normalizes the report and recomputes its scores.
func (r *Report) PrepareForSave(now time.Time) *Report {
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	r.Reason = strings.TrimSpace(r.Reason)
	r.Description = strings.TrimSpace(r.Description)
	r.ResolutionNotes = strings.TrimSpace(r.ResolutionNotes)
	if r.Status == "" {
		r.Status = ReportStatusPending
	}

	stampSave(&r.CreatedAt, &r.UpdatedAt, now)

	r.RecalculateScores(now)

	return r
}

// Validate returns every violated constraint; empty means valid.
func (r *Report) Validate() []string {
	var p problems

	if r.ID < 0 {
		p.add("id must not be negative")
	}
	if r.TargetType != ReportTargetReview && r.TargetType != ReportTargetReply {
		p.add("target_type must be one of: review reply")
	}
	p.requireID("target_id", r.TargetID)
	p.requireID("reporter_user_id", r.ReporterUserID)
	if r.ReportedUserID < 0 {
		p.add("reported_user_id must not be negative")
	}
	if r.ReportedUserID != 0 && r.ReportedUserID == r.ReporterUserID {
		p.add("reporter_user_id must differ from reported_user_id")
	}

	if strings.TrimSpace(r.Category) == "" {
		p.add("category is required")
	}
	p.maxLength("category", r.Category, 50)
	p.length("reason", strings.TrimSpace(r.Reason), 1, 500)
	p.maxLength("description", r.Description, 2000)
	p.between("severity", r.Severity, 1, maxReportLevel)
	p.between("priority", r.Priority, 1, maxReportLevel)

	p.unit("toxicity_score", r.ToxicityScore)
	p.unit("spam_probability", r.SpamProbability)
	p.unit("ai_confidence", r.AIConfidence)
	p.unit("reporter_trust_score", r.ReporterTrustScore)
	p.nonNegative("duplicate_count", r.DuplicateCount)
	p.nonNegative("reported_user_prior_violations", r.ReportedUserPriorViolations)
	p.nonNegative("escalation_level", r.EscalationLevel)

	if r.Status != "" && !r.Status.IsKnown() {
		p.add("status %q is not a known report status", string(r.Status))
	}

	return p.list()
}

// Transitions are permissive: any of them may be called from any state.

// Assign hands the report to a moderator.
func (r *Report) Assign(moderatorID int64, now time.Time) {
	r.AssignedModeratorID = &moderatorID
	r.AssignedAt = &now
	r.Status = ReportStatusAssigned
	r.UpdatedAt = now
}

// StartInvestigation marks the report as being worked on.
func (r *Report) StartInvestigation(now time.Time) {
	r.InvestigationStartedAt = &now
	r.Status = ReportStatusInvestigating
	r.UpdatedAt = now
}

// Resolve closes the report with the action taken. isValid defaults to true.
func (r *Report) Resolve(resolverID int64, action string, notes *string, isValid *bool, now time.Time) {
	valid := true
	if isValid != nil {
		valid = *isValid
	}

	r.ResolvedByID = &resolverID
	r.ResolvedAt = &now
	r.ResolutionAction = action
	if notes != nil {
		r.ResolutionNotes = *notes
	}
	r.IsValid = &valid

	started := r.CreatedAt
	if r.InvestigationStartedAt != nil {
		started = *r.InvestigationStartedAt
	}
	r.ResolutionTimeHours = now.Sub(started).Hours()

	r.Status = ReportStatusResolved
	r.UpdatedAt = now
}

// Dismiss closes the report as unfounded.
func (r *Report) Dismiss(dismisserID int64, reason string, now time.Time) {
	invalid := false

	r.DismissedByID = &dismisserID
	r.DismissedAt = &now
	r.DismissalReason = reason
	r.IsValid = &invalid
	r.Status = ReportStatusDismissed
	r.UpdatedAt = now
}

// Escalate raises the report one level and bumps its priority, capped at 5.
func (r *Report) Escalate(reason string, now time.Time) {
	r.EscalationLevel++
	r.EscalationReason = reason
	r.EscalatedAt = &now
	r.Priority = min(maxReportLevel, r.Priority+1)
	r.Status = ReportStatusEscalated
	r.UpdatedAt = now
}

// MarkDuplicate links the report to the original it repeats.
func (r *Report) MarkDuplicate(originalID int64, now time.Time) {
	r.DuplicateOfReportID = &originalID
	r.MarkedDuplicateAt = &now
	r.Status = ReportStatusDuplicate
	r.UpdatedAt = now
}
