// Package store persists completed story runs in SQLite so past requests,
// assessments, and revisions can be inspected with the history command.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/valpere/bedtale/internal"
	"github.com/valpere/bedtale/internal/judge"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS story_runs (
		id TEXT PRIMARY KEY,
		character_name TEXT,
		length TEXT,
		setting TEXT,
		tone TEXT,
		additional TEXT,
		storyteller_prompt TEXT NOT NULL,
		draft_story TEXT NOT NULL,
		refined_story TEXT NOT NULL,
		-- assessment columns are NULL when the judge reply did not parse;
		-- assessment_raw then holds the reply verbatim
		safety_ok BOOLEAN,
		safety_issues TEXT,
		quality_score INTEGER,
		justification TEXT,
		suggestions TEXT,
		assessment_raw TEXT,
		model TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON story_runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun records one completed run together with its assessment.
func (s *Store) SaveRun(ctx context.Context, run internal.StoryRun, assessment *judge.Assessment) error {
	var (
		safetyOK      sql.NullBool
		safetyIssues  sql.NullString
		qualityScore  sql.NullInt64
		justification sql.NullString
		suggestions   sql.NullString
		assessmentRaw sql.NullString
	)

	if assessment != nil {
		if assessment.Structured() {
			safetyOK = sql.NullBool{Bool: assessment.SafetyOK, Valid: true}
			justification = sql.NullString{String: assessment.Justification, Valid: true}
			if assessment.QualityScore != nil {
				qualityScore = sql.NullInt64{Int64: int64(*assessment.QualityScore), Valid: true}
			}
			if encoded, err := json.Marshal(assessment.SafetyIssues); err == nil {
				safetyIssues = sql.NullString{String: string(encoded), Valid: true}
			}
			if encoded, err := json.Marshal(assessment.Suggestions); err == nil {
				suggestions = sql.NullString{String: string(encoded), Valid: true}
			}
		} else {
			assessmentRaw = sql.NullString{String: assessment.RawText, Valid: true}
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO story_runs
			(id, character_name, length, setting, tone, additional,
			 storyteller_prompt, draft_story, refined_story,
			 safety_ok, safety_issues, quality_score, justification, suggestions, assessment_raw,
			 model, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Request.CharacterName, run.Request.Length, run.Request.Setting,
		run.Request.Tone, run.Request.Additional,
		run.StorytellerPrompt, run.DraftStory, run.RefinedStory,
		safetyOK, safetyIssues, qualityScore, justification, suggestions, assessmentRaw,
		run.Model, run.Timestamp)
	return err
}

// RunRecord is a full row from the story_runs table. Assessment fields are
// pointers because a degraded assessment stores NULLs.
type RunRecord struct {
	ID            string
	Request       internal.StoryRequest
	Prompt        string
	DraftStory    string
	RefinedStory  string
	SafetyOK      *bool
	SafetyIssues  []string
	QualityScore  *int
	Justification string
	Suggestions   []string
	AssessmentRaw string
	Model         string
	CreatedAt     time.Time
}

// GetRun returns one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, character_name, length, setting, tone, additional,
			storyteller_prompt, draft_story, refined_story,
			safety_ok, safety_issues, quality_score, justification, suggestions, assessment_raw,
			model, created_at
		 FROM story_runs WHERE id = ?`, id)

	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRuns returns all runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, character_name, length, setting, tone, additional,
			storyteller_prompt, draft_story, refined_story,
			safety_ok, safety_issues, quality_score, justification, suggestions, assessment_raw,
			model, created_at
		 FROM story_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *rec)
	}

	return results, rows.Err()
}

// DeleteRun permanently removes a run by ID.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM story_runs WHERE id = ?`, id)
	return err
}

// ClearRuns removes all recorded runs.
func (s *Store) ClearRuns(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM story_runs`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RunStats summarises the run history.
type RunStats struct {
	TotalRuns       int
	StructuredRuns  int
	SafeRuns        int
	AvgQualityScore float64
}

// Stats returns summary statistics for the run history. AvgQualityScore
// covers only runs whose assessment carried a score.
func (s *Store) Stats(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN assessment_raw IS NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN safety_ok THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(quality_score), 0)
		FROM story_runs`).Scan(
		&stats.TotalRuns,
		&stats.StructuredRuns,
		&stats.SafeRuns,
		&stats.AvgQualityScore,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		rec           RunRecord
		safetyOK      sql.NullBool
		safetyIssues  sql.NullString
		qualityScore  sql.NullInt64
		justification sql.NullString
		suggestions   sql.NullString
		assessmentRaw sql.NullString
	)

	err := row.Scan(
		&rec.ID,
		&rec.Request.CharacterName, &rec.Request.Length, &rec.Request.Setting,
		&rec.Request.Tone, &rec.Request.Additional,
		&rec.Prompt, &rec.DraftStory, &rec.RefinedStory,
		&safetyOK, &safetyIssues, &qualityScore, &justification, &suggestions, &assessmentRaw,
		&rec.Model, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if safetyOK.Valid {
		v := safetyOK.Bool
		rec.SafetyOK = &v
	}
	if qualityScore.Valid {
		v := int(qualityScore.Int64)
		rec.QualityScore = &v
	}
	rec.Justification = justification.String
	rec.AssessmentRaw = assessmentRaw.String
	if safetyIssues.Valid {
		_ = json.Unmarshal([]byte(safetyIssues.String), &rec.SafetyIssues)
	}
	if suggestions.Valid {
		_ = json.Unmarshal([]byte(suggestions.String), &rec.Suggestions)
	}

	return &rec, nil
}
