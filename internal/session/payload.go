package session

import (
	"time"

	"github.com/SaadAmawi/VocalFlow/internal/analyzer"
	"github.com/SaadAmawi/VocalFlow/internal/flow"
)

// Answer pairs a question with the analysis of the candidate's answer clip.
// Answers are accumulated in question order and never mutated.
type Answer struct {
	QuestionID string                  `json:"questionId"`
	Analysis   analyzer.AnalysisResult `json:"analysis"`
}

// SubmissionResult is one entry of the webhook payload, joining the answer
// analysis back against the question text.
type SubmissionResult struct {
	QuestionID   string                  `json:"questionId"`
	QuestionText string                  `json:"questionText"`
	Analysis     analyzer.AnalysisResult `json:"analysis"`
}

// SubmissionPayload is the final result set POSTed to the flow's
// destination endpoint. Built once, at the end of a session.
type SubmissionPayload struct {
	InterviewID string             `json:"interviewId"`
	CandidateID string             `json:"candidateId"`
	FlowTitle   string             `json:"flowTitle"`
	SubmittedAt time.Time          `json:"submittedAt"`
	Results     []SubmissionResult `json:"results"`
}

func buildPayload(f *flow.Flow, answers []Answer, interviewID, candidateID string, submittedAt time.Time) SubmissionPayload {
	texts := make(map[string]string, len(f.Questions))
	for _, q := range f.Questions {
		texts[q.ID] = q.Text
	}

	results := make([]SubmissionResult, 0, len(answers))
	for _, a := range answers {
		results = append(results, SubmissionResult{
			QuestionID:   a.QuestionID,
			QuestionText: texts[a.QuestionID],
			Analysis:     a.Analysis,
		})
	}

	return SubmissionPayload{
		InterviewID: interviewID,
		CandidateID: candidateID,
		FlowTitle:   f.Title,
		SubmittedAt: submittedAt,
		Results:     results,
	}
}
