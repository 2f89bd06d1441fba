package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/parvagarwal/hireagent/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS jobs (
		job_id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		embedding_json TEXT,
		status TEXT NOT NULL DEFAULT 'open',
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS candidates (
		candidate_id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id INTEGER NOT NULL REFERENCES jobs(job_id),
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		resume_text TEXT,
		embedding_json TEXT,
		fit_score REAL NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_candidates_job ON candidates(job_id);
	CREATE INDEX IF NOT EXISTS idx_candidates_email ON candidates(email);

	CREATE TABLE IF NOT EXISTS pending_interviews (
		interview_id INTEGER PRIMARY KEY AUTOINCREMENT,
		candidate_id INTEGER NOT NULL REFERENCES candidates(candidate_id),
		job_id INTEGER NOT NULL REFERENCES jobs(job_id),
		summary TEXT NOT NULL,
		proposed_start INTEGER NOT NULL,
		proposed_end INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		meet_link TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_interviews_candidate ON pending_interviews(candidate_id);
	CREATE INDEX IF NOT EXISTS idx_interviews_status ON pending_interviews(status);

	CREATE TABLE IF NOT EXISTS feedback (
		feedback_id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id INTEGER NOT NULL REFERENCES jobs(job_id),
		candidate_id INTEGER NOT NULL REFERENCES candidates(candidate_id),
		agent_score REAL NOT NULL,
		hr_decision TEXT NOT NULL,
		hr_comments TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_logs (
		log_id INTEGER PRIMARY KEY AUTOINCREMENT,
		candidate_id INTEGER NOT NULL,
		job_id INTEGER NOT NULL,
		action TEXT NOT NULL,
		details TEXT,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_candidate ON audit_logs(candidate_id);

	CREATE TABLE IF NOT EXISTS exams (
		exam_id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id INTEGER NOT NULL REFERENCES jobs(job_id),
		questions_json TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS candidate_exams (
		candidate_exam_id INTEGER PRIMARY KEY AUTOINCREMENT,
		candidate_id INTEGER NOT NULL REFERENCES candidates(candidate_id),
		exam_id INTEGER NOT NULL REFERENCES exams(exam_id),
		access_token TEXT NOT NULL UNIQUE,
		answers_json TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		submitted_at INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_candidate_exams_token ON candidate_exams(access_token);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func marshalEmbedding(v []float64) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding: %w", err)
	}
	return string(b), nil
}

func unmarshalEmbedding(s sql.NullString) ([]float64, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var v []float64
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		return nil, fmt.Errorf("unmarshal embedding: %w", err)
	}
	return v, nil
}

// CreateJob inserts a new job posting.
func (s *SQLiteStore) CreateJob(ctx context.Context, job *domain.Job) error {
	embedding, err := marshalEmbedding(job.Embedding)
	if err != nil {
		return err
	}
	if job.Status == "" {
		job.Status = domain.JobOpen
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (title, description, embedding_json, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		job.Title, job.Description, embedding, string(job.Status), job.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	job.JobID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("job last insert id: %w", err)
	}
	return nil
}

// GetJob retrieves a job by id.
func (s *SQLiteStore) GetJob(ctx context.Context, jobID int64) (*domain.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT job_id, title, description, embedding_json, status, created_at FROM jobs WHERE job_id = ?`, jobID)
	return scanJob(row)
}

// ListJobs retrieves job postings with pagination.
func (s *SQLiteStore) ListJobs(ctx context.Context, offset, limit int) ([]*domain.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, title, description, embedding_json, status, created_at
		 FROM jobs ORDER BY job_id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer closeRows(rows, "jobs")

	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var job domain.Job
	var embedding sql.NullString
	var status string
	var createdAt int64

	err := row.Scan(&job.JobID, &job.Title, &job.Description, &embedding, &status, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan job row: %w", err)
	}

	job.Embedding, err = unmarshalEmbedding(embedding)
	if err != nil {
		return nil, err
	}
	job.Status = domain.JobStatus(status)
	job.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &job, nil
}

// CreateCandidate inserts a new candidate.
func (s *SQLiteStore) CreateCandidate(ctx context.Context, c *domain.Candidate) error {
	embedding, err := marshalEmbedding(c.Embedding)
	if err != nil {
		return err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO candidates (job_id, name, email, resume_text, embedding_json, fit_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.JobID, c.Name, c.Email, c.ResumeText, embedding, c.FitScore, c.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}
	c.CandidateID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("candidate last insert id: %w", err)
	}
	return nil
}

// GetCandidate retrieves a candidate by id.
func (s *SQLiteStore) GetCandidate(ctx context.Context, candidateID int64) (*domain.Candidate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT candidate_id, job_id, name, email, resume_text, embedding_json, fit_score, created_at
		 FROM candidates WHERE candidate_id = ?`, candidateID)
	return scanCandidate(row)
}

// ListCandidatesForJob retrieves all candidates for a job.
func (s *SQLiteStore) ListCandidatesForJob(ctx context.Context, jobID int64) ([]*domain.Candidate, error) {
	return s.queryCandidates(ctx,
		`SELECT candidate_id, job_id, name, email, resume_text, embedding_json, fit_score, created_at
		 FROM candidates WHERE job_id = ? ORDER BY candidate_id`, jobID)
}

// ListShortlist retrieves candidates at or above the score threshold, best first.
func (s *SQLiteStore) ListShortlist(ctx context.Context, jobID int64, minScore float64) ([]*domain.Candidate, error) {
	return s.queryCandidates(ctx,
		`SELECT candidate_id, job_id, name, email, resume_text, embedding_json, fit_score, created_at
		 FROM candidates WHERE job_id = ? AND fit_score >= ? ORDER BY fit_score DESC`, jobID, minScore)
}

func (s *SQLiteStore) queryCandidates(ctx context.Context, query string, args ...interface{}) ([]*domain.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer closeRows(rows, "candidates")

	var out []*domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCandidate(row rowScanner) (*domain.Candidate, error) {
	var c domain.Candidate
	var resume, embedding sql.NullString
	var createdAt int64

	err := row.Scan(&c.CandidateID, &c.JobID, &c.Name, &c.Email, &resume, &embedding, &c.FitScore, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan candidate row: %w", err)
	}

	c.ResumeText = resume.String
	c.Embedding, err = unmarshalEmbedding(embedding)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &c, nil
}

// CreateInterview inserts a new pending-interview ledger entry.
func (s *SQLiteStore) CreateInterview(ctx context.Context, iv *domain.Interview) error {
	if iv.Status == "" {
		iv.Status = domain.InterviewPending
	}
	if iv.CreatedAt.IsZero() {
		iv.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO pending_interviews (candidate_id, job_id, summary, proposed_start, proposed_end, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		iv.CandidateID, iv.JobID, iv.Summary,
		iv.ProposedStart.Unix(), iv.ProposedEnd.Unix(),
		string(iv.Status), iv.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}
	iv.InterviewID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("interview last insert id: %w", err)
	}
	return nil
}

// GetInterview retrieves a ledger entry by id.
func (s *SQLiteStore) GetInterview(ctx context.Context, interviewID int64) (*domain.Interview, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT interview_id, candidate_id, job_id, summary, proposed_start, proposed_end, status, meet_link, created_at
		 FROM pending_interviews WHERE interview_id = ?`, interviewID)
	return scanInterview(row)
}

// ListInterviewsByStatus retrieves ledger entries in the given state.
func (s *SQLiteStore) ListInterviewsByStatus(ctx context.Context, status domain.InterviewStatus) ([]*domain.Interview, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT interview_id, candidate_id, job_id, summary, proposed_start, proposed_end, status, meet_link, created_at
		 FROM pending_interviews WHERE status = ? ORDER BY interview_id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("query interviews: %w", err)
	}
	defer closeRows(rows, "interviews")

	var out []*domain.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

func scanInterview(row rowScanner) (*domain.Interview, error) {
	var iv domain.Interview
	var meetLink sql.NullString
	var status string
	var start, end, createdAt int64

	err := row.Scan(&iv.InterviewID, &iv.CandidateID, &iv.JobID, &iv.Summary,
		&start, &end, &status, &meetLink, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan interview row: %w", err)
	}

	iv.ProposedStart = time.Unix(start, 0).UTC()
	iv.ProposedEnd = time.Unix(end, 0).UTC()
	iv.Status = domain.InterviewStatus(status)
	iv.MeetLink = meetLink.String
	iv.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &iv, nil
}

// TransitionInterviewStatus applies a guarded status change. The WHERE clause
// on the current status is the idempotency guard: of two concurrent triggers,
// only one sees RowsAffected == 1.
func (s *SQLiteStore) TransitionInterviewStatus(ctx context.Context, interviewID int64, from, to domain.InterviewStatus) error {
	if !domain.CanTransition(from, to) {
		return fmt.Errorf("transition %s -> %s not allowed", from, to)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE pending_interviews SET status = ? WHERE interview_id = ? AND status = ?`,
		string(to), interviewID, string(from),
	)
	if err != nil {
		return fmt.Errorf("update interview status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("interview status transition affected 0 rows",
			"interview_id", interviewID, "from", from, "to", to)
		return domain.ErrStatusConflict
	}
	return nil
}

// SetInterviewMeetLink records the meeting link after booking.
func (s *SQLiteStore) SetInterviewMeetLink(ctx context.Context, interviewID int64, link string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE pending_interviews SET meet_link = ? WHERE interview_id = ?`, link, interviewID)
	if err != nil {
		return fmt.Errorf("set meet link: %w", err)
	}
	return nil
}

// CreateFeedback inserts an HR feedback record.
func (s *SQLiteStore) CreateFeedback(ctx context.Context, fb *domain.Feedback) error {
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (job_id, candidate_id, agent_score, hr_decision, hr_comments, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fb.JobID, fb.CandidateID, fb.AgentScore, fb.HRDecision, fb.HRComments, fb.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	fb.FeedbackID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("feedback last insert id: %w", err)
	}
	return nil
}

// CreateAuditEntry inserts an audit log record.
func (s *SQLiteStore) CreateAuditEntry(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_logs (candidate_id, job_id, action, details, timestamp) VALUES (?, ?, ?, ?, ?)`,
		entry.CandidateID, entry.JobID, entry.Action, entry.Details, entry.Timestamp.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	entry.LogID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("audit last insert id: %w", err)
	}
	return nil
}

// ListAuditForCandidate retrieves the audit trail for a candidate, oldest first.
func (s *SQLiteStore) ListAuditForCandidate(ctx context.Context, candidateID int64) ([]*domain.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT log_id, candidate_id, job_id, action, details, timestamp
		 FROM audit_logs WHERE candidate_id = ? ORDER BY log_id`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer closeRows(rows, "audit entries")

	var out []*domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var details sql.NullString
		var ts int64
		if err := rows.Scan(&entry.LogID, &entry.CandidateID, &entry.JobID, &entry.Action, &details, &ts); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		entry.Details = details.String
		entry.Timestamp = time.Unix(ts, 0).UTC()
		out = append(out, &entry)
	}
	return out, rows.Err()
}

// CreateExam inserts a generated exam.
func (s *SQLiteStore) CreateExam(ctx context.Context, exam *domain.Exam) error {
	if exam.CreatedAt.IsZero() {
		exam.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO exams (job_id, questions_json, created_at) VALUES (?, ?, ?)`,
		exam.JobID, exam.QuestionsJSON, exam.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert exam: %w", err)
	}
	exam.ExamID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("exam last insert id: %w", err)
	}
	return nil
}

// GetExam retrieves an exam by id.
func (s *SQLiteStore) GetExam(ctx context.Context, examID int64) (*domain.Exam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT exam_id, job_id, questions_json, created_at FROM exams WHERE exam_id = ?`, examID)

	var exam domain.Exam
	var createdAt int64
	err := row.Scan(&exam.ExamID, &exam.JobID, &exam.QuestionsJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan exam row: %w", err)
	}
	exam.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &exam, nil
}

// CreateCandidateExam inserts an exam assignment with its access token.
func (s *SQLiteStore) CreateCandidateExam(ctx context.Context, ce *domain.CandidateExam) error {
	if ce.Status == "" {
		ce.Status = domain.ExamPending
	}
	if ce.CreatedAt.IsZero() {
		ce.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO candidate_exams (candidate_id, exam_id, access_token, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ce.CandidateID, ce.ExamID, ce.AccessToken, string(ce.Status), ce.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert candidate exam: %w", err)
	}
	ce.CandidateExamID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("candidate exam last insert id: %w", err)
	}
	return nil
}

// GetCandidateExamByToken retrieves an assignment by its access token.
func (s *SQLiteStore) GetCandidateExamByToken(ctx context.Context, token string) (*domain.CandidateExam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT candidate_exam_id, candidate_id, exam_id, access_token, answers_json, status, submitted_at, created_at
		 FROM candidate_exams WHERE access_token = ?`, token)
	return scanCandidateExam(row)
}

// SubmitCandidateExam records answers for a pending assignment. The status
// guard in the WHERE clause makes resubmission a no-op.
func (s *SQLiteStore) SubmitCandidateExam(ctx context.Context, token, answersJSON string) (*domain.CandidateExam, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE candidate_exams SET answers_json = ?, status = ?, submitted_at = ?
		 WHERE access_token = ? AND status = ?`,
		answersJSON, string(domain.ExamCompleted), time.Now().UTC().Unix(),
		token, string(domain.ExamPending),
	)
	if err != nil {
		return nil, fmt.Errorf("submit candidate exam: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, domain.ErrStatusConflict
	}
	return s.GetCandidateExamByToken(ctx, token)
}

func scanCandidateExam(row rowScanner) (*domain.CandidateExam, error) {
	var ce domain.CandidateExam
	var answers sql.NullString
	var status string
	var submittedAt sql.NullInt64
	var createdAt int64

	err := row.Scan(&ce.CandidateExamID, &ce.CandidateID, &ce.ExamID, &ce.AccessToken,
		&answers, &status, &submittedAt, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan candidate exam row: %w", err)
	}

	ce.AnswersJSON = answers.String
	ce.Status = domain.CandidateExamStatus(status)
	if submittedAt.Valid {
		ts := time.Unix(submittedAt.Int64, 0).UTC()
		ce.SubmittedAt = &ts
	}
	ce.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &ce, nil
}

// GetPipelineMetrics computes candidate progress counters.
func (s *SQLiteStore) GetPipelineMetrics(ctx context.Context) (*PipelineMetrics, error) {
	var m PipelineMetrics
	counts := []struct {
		dest  *int
		query string
		args  []interface{}
	}{
		{&m.TotalCandidates, `SELECT COUNT(*) FROM candidates`, nil},
		{&m.Screened, `SELECT COUNT(*) FROM candidates WHERE fit_score > 0`, nil},
		{&m.Shortlisted, `SELECT COUNT(*) FROM candidates WHERE fit_score >= 0.7`, nil},
		{&m.Rejected, `SELECT COUNT(*) FROM candidates WHERE fit_score < 0.7`, nil},
		{&m.InterviewPending, `SELECT COUNT(*) FROM pending_interviews WHERE status = ?`, []interface{}{string(domain.InterviewPending)}},
		{&m.InterviewScheduled, `SELECT COUNT(*) FROM pending_interviews WHERE status = ?`, []interface{}{string(domain.InterviewScheduled)}},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("pipeline metrics: %w", err)
		}
	}
	return &m, nil
}

// GetScoreDistribution buckets fit scores into fifths.
func (s *SQLiteStore) GetScoreDistribution(ctx context.Context) (*ScoreDistribution, error) {
	var d ScoreDistribution
	buckets := []struct {
		dest    *int
		lo, hi  float64
		openTop bool
	}{
		{&d.Range0to20, 0.0, 0.2, false},
		{&d.Range20to40, 0.2, 0.4, false},
		{&d.Range40to60, 0.4, 0.6, false},
		{&d.Range60to80, 0.6, 0.8, false},
		{&d.Range80to100, 0.8, 1.0, true},
	}
	for _, b := range buckets {
		query := `SELECT COUNT(*) FROM candidates WHERE fit_score >= ? AND fit_score < ?`
		args := []interface{}{b.lo, b.hi}
		if b.openTop {
			query = `SELECT COUNT(*) FROM candidates WHERE fit_score >= ?`
			args = []interface{}{b.lo}
		}
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(b.dest); err != nil {
			return nil, fmt.Errorf("score distribution: %w", err)
		}
	}
	return &d, nil
}

// GetJobMetrics computes posting counters.
func (s *SQLiteStore) GetJobMetrics(ctx context.Context) (*JobMetrics, error) {
	var m JobMetrics
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&m.TotalJobs); err != nil {
		return nil, fmt.Errorf("job metrics: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE status = 'open'`).Scan(&m.OpenJobs); err != nil {
		return nil, fmt.Errorf("job metrics: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE status = 'closed'`).Scan(&m.ClosedJobs); err != nil {
		return nil, fmt.Errorf("job metrics: %w", err)
	}

	var totalCandidates int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&totalCandidates); err != nil {
		return nil, fmt.Errorf("job metrics: %w", err)
	}
	if m.TotalJobs > 0 {
		m.AvgCandidatesPerJob = float64(totalCandidates) / float64(m.TotalJobs)
	}
	return &m, nil
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Warn("failed to close rows", "what", what, "error", err)
	}
}
