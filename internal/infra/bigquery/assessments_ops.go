package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	bq "github.com/nischint/nischint/internal/bigquery"
)

// UpsertAssessment creates the session row when the session_id is new
// and returns the assessment ID either way.
func (r *Repository) UpsertAssessment(ctx context.Context, row *bq.AssessmentRow) (string, error) {
	existing, _, err := r.FindBySessionID(ctx, row.SessionID)
	if err != nil {
		return "", fmt.Errorf("UpsertAssessment: %w", err)
	}
	if existing != nil {
		return existing.AssessmentID, nil
	}

	if row.AssessmentID == "" {
		row.AssessmentID = uuid.NewString()
	}
	if row.CreatedTS.IsZero() {
		row.CreatedTS = time.Now().UTC()
	}

	if err := r.inserter(assessmentsTable).Put(ctx, row); err != nil {
		return "", fmt.Errorf("UpsertAssessment: inserting row: %w", err)
	}
	return row.AssessmentID, nil
}

// ReplaceAnswers replaces the session's answers with the given rows.
// The caller assigns question_order; rows are written as provided.
func (r *Repository) ReplaceAnswers(ctx context.Context, assessmentID string, rows []*bq.AnswerRow) error {
	del := r.client.Query(fmt.Sprintf(`
		DELETE FROM %s WHERE assessment_id = @assessment_id
	`, r.table(answersTable)))
	del.Parameters = []bigquery.QueryParameter{
		{Name: "assessment_id", Value: assessmentID},
	}
	job, err := del.Run(ctx)
	if err != nil {
		return fmt.Errorf("ReplaceAnswers: delete run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("ReplaceAnswers: delete wait: %w", err)
	}
	if status.Err() != nil {
		return fmt.Errorf("ReplaceAnswers: delete job: %w", status.Err())
	}

	if len(rows) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, row := range rows {
		if row.AnswerID == "" {
			row.AnswerID = uuid.NewString()
		}
		row.AssessmentID = assessmentID
		if row.CreatedTS.IsZero() {
			row.CreatedTS = now
		}
	}

	if err := r.inserter(answersTable).Put(ctx, rows); err != nil {
		return fmt.Errorf("ReplaceAnswers: inserting rows: %w", err)
	}
	return nil
}

// UpdateSummary stores the persona summary and stamps completion.
func (r *Repository) UpdateSummary(ctx context.Context, assessmentID, summary string) error {
	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s
		SET profile_summary = @summary,
		    completed_ts = CURRENT_TIMESTAMP()
		WHERE assessment_id = @assessment_id
	`, r.table(assessmentsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "summary", Value: summary},
		{Name: "assessment_id", Value: assessmentID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("UpdateSummary: run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("UpdateSummary: wait: %w", err)
	}
	if status.Err() != nil {
		return fmt.Errorf("UpdateSummary: job: %w", status.Err())
	}
	return nil
}

// FindBySessionID returns the session and its answers ordered by
// question_order, or (nil, nil, nil) when the session does not exist.
func (r *Repository) FindBySessionID(ctx context.Context, sessionID string) (*bq.AssessmentRow, []*bq.AnswerRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			assessment_id,
			session_id,
			user_id,
			name,
			age,
			gender,
			profile_summary,
			created_ts,
			completed_ts
		FROM %s
		WHERE session_id = @session_id
		ORDER BY created_ts
		LIMIT 1
	`, r.table(assessmentsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "session_id", Value: sessionID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("FindBySessionID: query read: %w", err)
	}

	var assessment bq.AssessmentRow
	err = it.Next(&assessment)
	if err == iterator.Done {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("FindBySessionID: iter next: %w", err)
	}

	answers, err := r.listAnswers(ctx, assessment.AssessmentID)
	if err != nil {
		return nil, nil, err
	}

	return &assessment, answers, nil
}

func (r *Repository) listAnswers(ctx context.Context, assessmentID string) ([]*bq.AnswerRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			answer_id,
			assessment_id,
			question_id,
			question_text,
			question_category,
			option_id,
			option_text,
			option_value,
			question_order,
			created_ts
		FROM %s
		WHERE assessment_id = @assessment_id
		ORDER BY question_order
	`, r.table(answersTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "assessment_id", Value: assessmentID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("listAnswers: query read: %w", err)
	}

	var rows []*bq.AnswerRow
	for {
		var row bq.AnswerRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listAnswers: iter next: %w", err)
		}
		rows = append(rows, &row)
	}

	return rows, nil
}
