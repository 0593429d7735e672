package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prajwalts/interviewdost/internal/repository"
	"github.com/prajwalts/interviewdost/internal/service"
	"github.com/prajwalts/interviewdost/internal/testhelpers"
	"github.com/prajwalts/interviewdost/internal/usecase"
	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

type stubTavus struct {
	fail bool
}

func (s *stubTavus) Provision(_ context.Context, _, _ string) (*service.Conversation, error) {
	if s.fail {
		return nil, &service.ProviderError{Op: "create conversation", StatusCode: 503, Body: "down"}
	}
	return &service.Conversation{ID: "conv-1", URL: "https://tavus.daily.co/conv-1"}, nil
}

func (s *stubTavus) SendSystemMessage(_ context.Context, _, _ string) error {
	if s.fail {
		return &service.ProviderError{Op: "send system message", StatusCode: 503, Body: "down"}
	}
	return nil
}

type stubGemini struct{}

func (stubGemini) GenerateQuestion(_ context.Context, profile service.ProfileContext) string {
	return fmt.Sprintf("Tell me about yourself, %s.", profile.Name)
}

func (stubGemini) EvaluateAnswer(_ context.Context, _, _ string) service.AnswerScores {
	return service.AnswerScores{Relevance: 9, Confidence: 8}
}

func (stubGemini) SynthesizeFeedback(_ context.Context, _, _ string, _ []service.TranscriptItem) service.FeedbackDraft {
	return service.FeedbackDraft{Comments: "Solid.", Suggestions: "Practice more."}
}

func (stubGemini) SummarizeProfile(_ context.Context, _ service.ProfileInput) service.ProfileSummary {
	return service.ProfileSummary{ResumeSummary: "summary", Skills: nil}
}

func (stubGemini) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	return nil, fmt.Errorf("not available")
}

func newTestApp(t *testing.T, tavus *stubTavus) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := testhelpers.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)

	profileUc := usecase.NewProfileUsecase(userRepo, skillRepo, stubGemini{})
	interviewUc := usecase.NewInterviewUsecase(interviewRepo, userRepo, profileUc, tavus, stubGemini{})

	app := fiber.New()
	NewInterviewHandler(interviewUc).RegisterRoutes(app)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, string(raw)
}

func TestInterviewFlow(t *testing.T) {
	tavus := &stubTavus{}
	app, db := newTestApp(t, tavus)
	interviewer := testhelpers.SeedUser(t, db, "Ravi", "ravi@example.com", "interviewer")

	status, body := doJSON(t, app, http.MethodPost, "/api/interview/start", fiber.Map{
		"candidate":      fiber.Map{"name": "Asha", "email": "asha@example.com"},
		"interviewer_id": interviewer.ID,
		"interview_type": "Backend Engineer",
		"skills":         []string{"Go", "go"},
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	if !gjson.Get(body, "success").Bool() {
		t.Fatalf("expected success envelope: %s", body)
	}
	interviewID := gjson.Get(body, "data.interview_id").Int()
	questionID := gjson.Get(body, "data.question.question_id").Int()
	if interviewID == 0 || questionID == 0 {
		t.Fatalf("expected interview and question ids: %s", body)
	}
	if gjson.Get(body, "data.conversation_url").String() == "" {
		t.Fatalf("expected a conversation url: %s", body)
	}
	if gjson.Get(body, "data.provider_error").Exists() {
		t.Fatalf("unexpected provider_error: %s", body)
	}

	status, body = doJSON(t, app,
		http.MethodPost,
		fmt.Sprintf("/api/interview/%d/questions/%d/answer", interviewID, questionID),
		fiber.Map{"answer_text": "I built a distributed cache in Go."},
	)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/interview/%d/summary", interviewID), nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	items := gjson.Get(body, "data.items").Array()
	if len(items) != 1 {
		t.Fatalf("expected 1 summary item: %s", body)
	}
	if items[0].Get("answer").String() != "I built a distributed cache in Go." {
		t.Fatalf("unexpected summary answer: %s", body)
	}
	// (9 + 8) / 2 truncates to 8.
	if gjson.Get(body, "data.overall_score").Int() != 8 {
		t.Fatalf("expected overall score 8: %s", body)
	}

	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/interview/%d/feedback", interviewID), nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	firstID := gjson.Get(body, "data.feedback_id").Int()

	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/interview/%d/feedback", interviewID), nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if gjson.Get(body, "data.feedback_id").Int() != firstID {
		t.Fatalf("expected idempotent feedback: %s", body)
	}
}

func TestInterviewFlow_ProviderDown(t *testing.T) {
	tavus := &stubTavus{fail: true}
	app, db := newTestApp(t, tavus)
	interviewer := testhelpers.SeedUser(t, db, "Ravi", "ravi@example.com", "interviewer")

	status, body := doJSON(t, app, http.MethodPost, "/api/interview/start", fiber.Map{
		"candidate":      fiber.Map{"name": "Asha", "email": "asha@example.com"},
		"interviewer_id": interviewer.ID,
	})
	if status != http.StatusCreated {
		t.Fatalf("expected degraded 201, got %d: %s", status, body)
	}
	if !gjson.Get(body, "data.provider_error").Exists() {
		t.Fatalf("expected provider_error to be set: %s", body)
	}
	if gjson.Get(body, "data.conversation_url").Value() != nil {
		t.Fatalf("expected null conversation_url: %s", body)
	}
	interviewID := gjson.Get(body, "data.interview_id").Int()

	// Without a linked conversation, pushing a message is a client error.
	status, body = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/interview/%d/system-message", interviewID),
		fiber.Map{"message": "hello"},
	)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", status, body)
	}
}

func TestStart_UnknownInterviewerIs404(t *testing.T) {
	app, _ := newTestApp(t, &stubTavus{})

	status, body := doJSON(t, app, http.MethodPost, "/api/interview/start", fiber.Map{
		"candidate":      fiber.Map{"name": "Asha"},
		"interviewer_id": 12345,
	})
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", status, body)
	}
	if gjson.Get(body, "success").Bool() {
		t.Fatalf("expected error envelope: %s", body)
	}
}
