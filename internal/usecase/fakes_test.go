package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/prajwalts/interviewdost/internal/service"
)

// fakeTavus records calls and can be flipped into failure mode per method.
type fakeTavus struct {
	provisionCalls  int
	provisionFail   bool
	sentMessages    []string
	sendFail        bool
	lastContextText string
}

func (f *fakeTavus) Provision(_ context.Context, conversationName, contextText string) (*service.Conversation, error) {
	f.provisionCalls++
	f.lastContextText = contextText
	if f.provisionFail {
		return nil, &service.ProviderError{Op: "create conversation", StatusCode: 402, Body: "out of credits"}
	}
	return &service.Conversation{
		ID:  fmt.Sprintf("conv-%d", f.provisionCalls),
		URL: fmt.Sprintf("https://tavus.daily.co/conv-%d", f.provisionCalls),
	}, nil
}

func (f *fakeTavus) SendSystemMessage(_ context.Context, conversationID, content string) error {
	if f.sendFail {
		return &service.ProviderError{Op: "send system message", StatusCode: 400, Body: "bad conversation"}
	}
	f.sentMessages = append(f.sentMessages, content)
	return nil
}

// fakeGemini returns canned results so usecase tests stay deterministic.
type fakeGemini struct {
	question       string
	scores         service.AnswerScores
	feedback       service.FeedbackDraft
	feedbackCalls  int
	summary        service.ProfileSummary
	embedding      []float32
	embeddingErr   bool
	lastTranscript []service.TranscriptItem
}

func newFakeGemini() *fakeGemini {
	return &fakeGemini{
		question: "Tell me about a project you are proud of.",
		scores:   service.AnswerScores{Relevance: 8, Confidence: 7},
		feedback: service.FeedbackDraft{Comments: "Strong answers.", Suggestions: "Add more detail."},
		summary: service.ProfileSummary{
			ResumeSummary: "Backend engineer with Go experience.",
			Skills:        []string{"Go", "PostgreSQL"},
		},
		embedding: []float32{0.1, 0.2, 0.3},
	}
}

func (f *fakeGemini) GenerateQuestion(_ context.Context, _ service.ProfileContext) string {
	return f.question
}

func (f *fakeGemini) EvaluateAnswer(_ context.Context, _, _ string) service.AnswerScores {
	return f.scores
}

func (f *fakeGemini) SynthesizeFeedback(_ context.Context, _, _ string, transcript []service.TranscriptItem) service.FeedbackDraft {
	f.feedbackCalls++
	f.lastTranscript = transcript
	return f.feedback
}

func (f *fakeGemini) SummarizeProfile(_ context.Context, _ service.ProfileInput) service.ProfileSummary {
	return f.summary
}

func (f *fakeGemini) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	if f.embeddingErr {
		return nil, errors.New("embedding unavailable")
	}
	return f.embedding, nil
}
