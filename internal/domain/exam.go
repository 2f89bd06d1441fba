package domain

import (
	"time"
)

// Exam holds generated screening questions for a job. Questions are stored
// as a JSON document exactly as the generator produced them.
type Exam struct {
	ExamID        int64     `json:"exam_id"`
	JobID         int64     `json:"job_id"`
	QuestionsJSON string    `json:"questions"`
	CreatedAt     time.Time `json:"created_at"`
}

// CandidateExamStatus is the lifecycle of an assigned exam.
type CandidateExamStatus string

const (
	// ExamPending means the candidate has not yet submitted answers.
	ExamPending CandidateExamStatus = "pending"
	// ExamCompleted means answers were submitted.
	ExamCompleted CandidateExamStatus = "completed"
)

// CandidateExam links a candidate to an exam through an opaque access token.
type CandidateExam struct {
	CandidateExamID int64               `json:"candidate_exam_id"`
	CandidateID     int64               `json:"candidate_id"`
	ExamID          int64               `json:"exam_id"`
	AccessToken     string              `json:"-"`
	AnswersJSON     string              `json:"answers,omitempty"`
	Status          CandidateExamStatus `json:"status"`
	SubmittedAt     *time.Time          `json:"submitted_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}
