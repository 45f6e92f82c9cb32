package domain

import (
	"testing"
	"time"
)

func TestReport_RiskScoreExample(t *testing.T) {
	r := NewReport(ReportTargetReview, 10, 3, "violence", "threatening language", 5, 5)
	r.InvolvesViolence = true

	r.PrepareForSave(testNow)

	// min(70, 50+40) + 20 violence
	if r.RiskScore != 90 {
		t.Errorf("RiskScore = %d, want 90", r.RiskScore)
	}
}

func TestReport_RiskScore(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(r *Report)
		expected int
	}{
		{"low severity and priority", func(r *Report) {}, 18},
		{"flags are capped", func(r *Report) {
			r.InvolvesMinors = true
			r.InvolvesViolence = true
			r.InvolvesHateSpeech = true
		}, 58},
		{"high toxicity", func(r *Report) { r.ToxicityScore = 0.85 }, 33},
		{"moderate toxicity", func(r *Report) { r.ToxicityScore = 0.5 }, 28},
		{"slight toxicity", func(r *Report) { r.ToxicityScore = 0.3 }, 23},
		{"likely spam", func(r *Report) { r.SpamProbability = 0.9 }, 28},
		{"possible spam", func(r *Report) { r.SpamProbability = 0.6 }, 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReport(ReportTargetReply, 1, 2, "other", "reason", 1, 1)
			tt.mutate(r)

			if got := r.CalculateRiskScore(); got != tt.expected {
				t.Errorf("CalculateRiskScore() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestReport_UrgencyScore(t *testing.T) {
	tests := []struct {
		name     string
		priority int
		severity int
		critical bool
		age      time.Duration
		expected int
	}{
		{"fresh low", 1, 1, false, 0, 6},
		{"thirty hours", 3, 2, false, 30 * time.Hour, 33},
		{"one hour", 2, 3, false, time.Hour, 27},
		{"six hours", 4, 4, false, 6 * time.Hour, 54},
		{"three days critical", 5, 5, true, 72 * time.Hour, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReport(ReportTargetReview, 1, 2, "other", "reason", tt.severity, tt.priority)
			r.InvolvesSelfHarm = tt.critical
			r.CreatedAt = testNow.Add(-tt.age)

			if got := r.CalculateUrgencyScore(testNow); got != tt.expected {
				t.Errorf("CalculateUrgencyScore() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestReport_UrgencyGrowsWithAge(t *testing.T) {
	r := NewReport(ReportTargetReview, 1, 2, "spam", "reason", 1, 1).PrepareForSave(testNow)
	if r.UrgencyScore != 6 {
		t.Fatalf("UrgencyScore = %d, want 6", r.UrgencyScore)
	}

	r.RecalculateScores(testNow.Add(80 * time.Hour))
	if r.UrgencyScore != 31 {
		t.Errorf("UrgencyScore after 80h = %d, want 31", r.UrgencyScore)
	}
}

func TestReport_ImpactScore(t *testing.T) {
	r := NewReport(ReportTargetReview, 1, 2, "harassment", "reason", 4, 1)
	r.DuplicateCount = 5
	r.InvolvesHarassment = true
	r.InvolvesSpam = true
	r.ReportedUserPriorViolations = 1

	// 25 severity + 20 duplicates + 15 flag count + 5 prior violations
	if got := r.CalculateImpactScore(); got != 65 {
		t.Errorf("CalculateImpactScore() = %d, want 65", got)
	}
}

func TestReport_ConfidenceScore(t *testing.T) {
	r := NewReport(ReportTargetReview, 1, 2, "spam", "reason", 1, 1)
	r.ReporterTrustScore = 0.5
	r.EvidenceURLs = []string{"https://example.com/shot.png"}
	r.Description = "posted the same link everywhere"
	r.AIConfidence = 0.4
	r.DuplicateCount = 1
	r.IsAnonymous = true

	// 15 trust + 10 evidence + 10 description + 10 ai + 5 duplicates - 15 anonymous
	if got := r.CalculateConfidenceScore(); got != 35 {
		t.Errorf("CalculateConfidenceScore() = %d, want 35", got)
	}
}

func TestReport_ConfidenceNeverNegative(t *testing.T) {
	r := NewReport(ReportTargetReview, 1, 2, "spam", "reason", 1, 1)
	r.IsAnonymous = true

	if got := r.CalculateConfidenceScore(); got != 0 {
		t.Errorf("CalculateConfidenceScore() = %d, want 0", got)
	}
}

func TestReport_ScoresInRange(t *testing.T) {
	r := NewReport(ReportTargetReview, 1, 2, "everything", "reason", 5, 5)
	r.Violations = Violations{
		InvolvesHarassment: true, InvolvesHateSpeech: true, InvolvesViolence: true, InvolvesThreats: true,
		InvolvesSelfHarm: true, InvolvesSexualContent: true, InvolvesMinors: true, InvolvesSpam: true,
		InvolvesScam: true, InvolvesMisinformation: true, InvolvesImpersonation: true, InvolvesPrivacyViolation: true,
		InvolvesCopyright: true, InvolvesSpoilers: true, InvolvesOffTopic: true, InvolvesProfanity: true,
		InvolvesDiscrimination: true, InvolvesIllegalActivity: true, InvolvesBullying: true, InvolvesExtremism: true,
	}
	r.ToxicityScore = 1
	r.SpamProbability = 1
	r.AIConfidence = 3
	r.ReporterTrustScore = 3
	r.DuplicateCount = 50
	r.ReportedUserPriorViolations = 9
	r.EvidenceURLs = []string{"a", "b", "c", "d"}
	r.Description = words(40)
	r.CreatedAt = testNow.Add(-200 * time.Hour)

	r.PrepareForSave(testNow)

	for name, score := range map[string]int{
		"risk":       r.RiskScore,
		"urgency":    r.UrgencyScore,
		"impact":     r.ImpactScore,
		"confidence": r.ConfidenceScore,
	} {
		if score < MinScore || score > MaxScore {
			t.Errorf("%s score %d out of range", name, score)
		}
	}
	if r.Violations.Count() != 20 {
		t.Errorf("Count() = %d, want 20", r.Violations.Count())
	}
}

func TestViolations_Weight(t *testing.T) {
	v := Violations{InvolvesMinors: true, InvolvesSpoilers: true, InvolvesOffTopic: true}

	if got := v.Weight(); got != 28 {
		t.Errorf("Weight() = %d, want 28", got)
	}
	if !v.IsCritical() {
		t.Errorf("minors should be critical")
	}
	if (Violations{InvolvesSpam: true}).IsCritical() {
		t.Errorf("spam should not be critical")
	}
}

func TestReport_PrepareForSave(t *testing.T) {
	r := &Report{TargetType: ReportTargetReply, TargetID: 1, ReporterUserID: 2, Category: "  HATE_Speech ", Reason: " rude ", Severity: 2, Priority: 2}

	r.PrepareForSave(testNow)

	if r.Category != "hate_speech" {
		t.Errorf("Category = %q, want hate_speech", r.Category)
	}
	if r.Reason != "rude" {
		t.Errorf("Reason = %q", r.Reason)
	}
	if r.Status != ReportStatusPending {
		t.Errorf("Status = %q, want pending", r.Status)
	}
	if !r.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt not stamped")
	}
}

func TestReport_Escalate(t *testing.T) {
	for start := 1; start <= 5; start++ {
		r := NewReport(ReportTargetReview, 1, 2, "spam", "reason", 1, start)

		r.Escalate("x", testNow)
		r.Escalate("x", testNow)
		r.Escalate("x", testNow)

		if r.EscalationLevel != 3 {
			t.Errorf("start=%d: EscalationLevel = %d, want 3", start, r.EscalationLevel)
		}
		if want := min(5, start+3); r.Priority != want {
			t.Errorf("start=%d: Priority = %d, want %d", start, r.Priority, want)
		}
		if r.Status != ReportStatusEscalated || r.EscalatedAt == nil {
			t.Errorf("start=%d: escalation state not recorded", start)
		}
	}
}

func TestReport_ResolveAfterInvestigation(t *testing.T) {
	r := NewReport(ReportTargetReview, 1, 2, "spam", "reason", 1, 1)
	r.CreatedAt = testNow

	r.Assign(9, testNow.Add(time.Hour))
	r.StartInvestigation(testNow.Add(2 * time.Hour))
	notes := "removed"
	r.Resolve(9, "content_removed", &notes, nil, testNow.Add(5*time.Hour))

	if r.Status != ReportStatusResolved {
		t.Errorf("Status = %q, want resolved", r.Status)
	}
	if r.ResolutionTimeHours != 3 {
		t.Errorf("ResolutionTimeHours = %v, want 3", r.ResolutionTimeHours)
	}
	if r.IsValid == nil || !*r.IsValid {
		t.Errorf("IsValid should default to true")
	}
	if r.ResolutionNotes != "removed" || r.ResolutionAction != "content_removed" {
		t.Errorf("resolution details not recorded")
	}
	if r.AssignedModeratorID == nil || *r.AssignedModeratorID != 9 {
		t.Errorf("AssignedModeratorID not recorded")
	}
}

func TestReport_ResolveFromPending(t *testing.T) {
	r := NewReport(ReportTargetReview, 1, 2, "spam", "reason", 1, 1)
	r.CreatedAt = testNow
	invalid := false

	r.Resolve(9, "no_action", nil, &invalid, testNow.Add(5*time.Hour))

	if r.ResolutionTimeHours != 5 {
		t.Errorf("ResolutionTimeHours = %v, want 5", r.ResolutionTimeHours)
	}
	if r.IsValid == nil || *r.IsValid {
		t.Errorf("IsValid should be false")
	}
	if r.IsOpen() {
		t.Errorf("resolved report should be closed")
	}
}

func TestReport_DismissAndDuplicate(t *testing.T) {
	r := NewReport(ReportTargetReview, 1, 2, "spam", "reason", 1, 1)

	r.Dismiss(4, "not a violation", testNow)
	if r.Status != ReportStatusDismissed || r.IsValid == nil || *r.IsValid {
		t.Errorf("Dismiss should close the report as invalid")
	}

	r.MarkDuplicate(77, testNow)
	if r.Status != ReportStatusDuplicate || r.DuplicateOfReportID == nil || *r.DuplicateOfReportID != 77 {
		t.Errorf("MarkDuplicate did not link the original")
	}
}

func TestReportStatus_IsOpen(t *testing.T) {
	open := map[ReportStatus]bool{
		ReportStatusPending:       true,
		ReportStatusAssigned:      true,
		ReportStatusInvestigating: true,
		ReportStatusEscalated:     true,
		ReportStatusResolved:      false,
		ReportStatusDismissed:     false,
		ReportStatusDuplicate:     false,
	}

	for status, want := range open {
		if got := status.IsOpen(); got != want {
			t.Errorf("%s.IsOpen() = %v, want %v", status, got, want)
		}
	}
}

func TestReport_Validate(t *testing.T) {
	valid := NewReport(ReportTargetReview, 1, 2, "spam", "repeated link", 3, 2)
	if problems := valid.Validate(); len(problems) != 0 {
		t.Fatalf("expected valid report, got %v", problems)
	}

	tests := []struct {
		name   string
		mutate func(r *Report)
		want   string
	}{
		{"bad target", func(r *Report) { r.TargetType = "book" }, "target_type must be one of: review reply"},
		{"self report", func(r *Report) { r.ReportedUserID = 2 }, "reporter_user_id must differ from reported_user_id"},
		{"no category", func(r *Report) { r.Category = " " }, "category is required"},
		{"no reason", func(r *Report) { r.Reason = "" }, "reason is required"},
		{"severity", func(r *Report) { r.Severity = 0 }, "severity must be between 1 and 5"},
		{"priority", func(r *Report) { r.Priority = 6 }, "priority must be between 1 and 5"},
		{"toxicity", func(r *Report) { r.ToxicityScore = 1.2 }, "toxicity_score must be between 0 and 1"},
		{"status", func(r *Report) { r.Status = "archived" }, `status "archived" is not a known report status`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := *valid
			tt.mutate(&r)

			if problems := r.Validate(); !contains(problems, tt.want) {
				t.Errorf("Validate() = %v, want it to contain %q", problems, tt.want)
			}
		})
	}
}
