package service

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

// fallbackOnly is a gateway with no provider client; every generation call
// must be served locally.
func fallbackOnly() *GeminiService {
	return &GeminiService{RequestTimeout: time.Second}
}

func TestGenerateQuestion_FallbackUsesRole(t *testing.T) {
	s := fallbackOnly()

	question := s.GenerateQuestion(context.Background(), ProfileContext{Role: "Backend Engineer"})
	if question == "" {
		t.Fatalf("expected non-empty question")
	}
	if !strings.Contains(question, "Backend Engineer") {
		t.Fatalf("expected question to mention the role, got %q", question)
	}

	generic := s.GenerateQuestion(context.Background(), ProfileContext{})
	if generic == "" {
		t.Fatalf("expected non-empty generic question")
	}
}

func TestEvaluateAnswer_FallbackBuckets(t *testing.T) {
	s := fallbackOnly()
	ctx := context.Background()

	cases := []struct {
		name   string
		answer string
		want   AnswerScores
	}{
		{"short", "yes", AnswerScores{Relevance: 3, Confidence: 2}},
		{"medium", "I built a distributed cache", AnswerScores{Relevance: 6, Confidence: 5}},
		{"long", strings.Repeat("detailed explanation of the project ", 10), AnswerScores{Relevance: 8, Confidence: 7}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.EvaluateAnswer(ctx, "Tell me about a project.", tc.answer)
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
			if got.Relevance < 1 || got.Relevance > 10 || got.Confidence < 1 || got.Confidence > 10 {
				t.Fatalf("scores out of range: %+v", got)
			}
		})
	}
}

func TestParseAnswerScores(t *testing.T) {
	t.Run("valid json", func(t *testing.T) {
		scores, ok := parseAnswerScores(`{"relevance_score": 7, "confidence_level": 9}`)
		if !ok {
			t.Fatalf("expected parse to succeed")
		}
		if scores.Relevance != 7 || scores.Confidence != 9 {
			t.Fatalf("unexpected scores: %+v", scores)
		}
	})

	t.Run("out of range values are clamped", func(t *testing.T) {
		scores, ok := parseAnswerScores(`{"relevance_score": 42, "confidence_level": -3}`)
		if !ok {
			t.Fatalf("expected parse to succeed")
		}
		if scores.Relevance != 10 || scores.Confidence != 1 {
			t.Fatalf("expected clamped scores, got %+v", scores)
		}
	})

	t.Run("fenced json", func(t *testing.T) {
		scores, ok := parseAnswerScores("```json\n{\"relevance_score\": 5, \"confidence_level\": 6}\n```")
		if !ok {
			t.Fatalf("expected parse to succeed")
		}
		if scores.Relevance != 5 || scores.Confidence != 6 {
			t.Fatalf("unexpected scores: %+v", scores)
		}
	})

	t.Run("missing fields fail parse", func(t *testing.T) {
		if _, ok := parseAnswerScores(`{"something": "else"}`); ok {
			t.Fatalf("expected parse to fail")
		}
	})

	t.Run("prose reply fails parse", func(t *testing.T) {
		if _, ok := parseAnswerScores("The answer was pretty good overall."); ok {
			t.Fatalf("expected parse to fail")
		}
	})
}

func TestParseFeedback(t *testing.T) {
	draft, ok := parseFeedback(`{"comments": "solid", "suggestions": "practice more"}`)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if draft.Comments != "solid" || draft.Suggestions != "practice more" {
		t.Fatalf("unexpected draft: %+v", draft)
	}

	if _, ok := parseFeedback("not json at all"); ok {
		t.Fatalf("expected parse to fail")
	}
}

func TestSynthesizeFeedback_FallbackMentionsCandidate(t *testing.T) {
	s := fallbackOnly()

	draft := s.SynthesizeFeedback(context.Background(), "Asha", "Backend Engineer", []TranscriptItem{
		{Question: "Intro?", Answer: "Hello"},
		{Question: "Unanswered?"},
	})
	if !strings.Contains(draft.Comments, "Asha") {
		t.Fatalf("expected comments to mention the candidate, got %q", draft.Comments)
	}
	if draft.Suggestions == "" {
		t.Fatalf("expected non-empty suggestions")
	}
}

func TestSummarizeProfile_FallbackDedupsSkills(t *testing.T) {
	s := fallbackOnly()

	summary := s.SummarizeProfile(context.Background(), ProfileInput{
		Name:       "Asha",
		TargetRole: "Backend Engineer",
		TechStack:  []string{"Go", "go", " Postgres ", ""},
	})
	if summary.ResumeSummary == "" {
		t.Fatalf("expected non-empty summary")
	}
	if len(summary.Skills) != 2 {
		t.Fatalf("expected 2 deduped skills, got %v", summary.Skills)
	}
}

func TestGenerateEmbedding_RequiresClient(t *testing.T) {
	s := fallbackOnly()

	if _, err := s.GenerateEmbedding(context.Background(), "some resume text"); err == nil {
		t.Fatalf("expected error without a configured client")
	}
	if _, err := s.GenerateEmbedding(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty text")
	}
}

func TestTruncateForEmbedding(t *testing.T) {
	short := "a short resume summary"
	if got := truncateForEmbedding(short); got != short {
		t.Fatalf("expected short text untouched, got %q", got)
	}

	// 3-byte runes so the byte cap lands mid-rune; the cut must back up to
	// a rune boundary and stay valid UTF-8.
	long := strings.Repeat("世", 4000)
	got := truncateForEmbedding(long)
	if len(got) > maxEmbeddingBytes {
		t.Fatalf("expected at most %d bytes, got %d", maxEmbeddingBytes, len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("expected valid UTF-8 after truncation")
	}
	if len(got) != maxEmbeddingBytes-1 {
		t.Fatalf("expected cut at previous rune boundary (%d bytes), got %d", maxEmbeddingBytes-1, len(got))
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":               `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
	}
	for in, want := range cases {
		if got := stripCodeFence(in); got != want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClampScore(t *testing.T) {
	for in, want := range map[int]int{-5: 1, 0: 1, 1: 1, 5: 5, 10: 10, 99: 10} {
		if got := clampScore(in); got != want {
			t.Fatalf("clampScore(%d) = %d, want %d", in, got, want)
		}
	}
}
