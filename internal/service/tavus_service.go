package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/prajwalts/interviewdost/internal/config"
	"github.com/tidwall/gjson"
)

// ProviderError is any non-2xx reply from the conversation provider. The raw
// body is kept so callers can log it without guessing at the provider's
// error shape.
type ProviderError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("tavus %s error %d: %s", e.Op, e.StatusCode, e.Body)
}

// Conversation is the narrow internal result mapped out of the provider's
// reply. Either field may be empty when the provider omits it.
type Conversation struct {
	ID  string
	URL string
}

type TavusServiceInterface interface {
	Provision(ctx context.Context, conversationName, contextText string) (*Conversation, error)
	SendSystemMessage(ctx context.Context, conversationID, content string) error
}

type TavusService struct {
	client    *resty.Client
	apiKey    string
	personaID string
	replicaID string
}

func NewTavusService() *TavusService {
	cfg := config.LoadTavusConfig()
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(60 * time.Second)

	return &TavusService{
		client:    client,
		apiKey:    cfg.APIKey,
		personaID: cfg.PersonaID,
		replicaID: cfg.ReplicaID,
	}
}

// Provision creates a conversation and returns its id and join URL. When the
// create reply carries an id but no URL yet, the conversation detail is
// fetched once to recover it. The interview briefing is then injected as a
// system message; the create call's inline context field is unreliable
// across provider configurations, so it is not used.
func (s *TavusService) Provision(ctx context.Context, conversationName, contextText string) (*Conversation, error) {
	conv, err := s.createConversation(ctx, conversationName)
	if err != nil {
		return nil, err
	}

	if conv.URL == "" && conv.ID != "" {
		detail, err := s.getConversation(ctx, conv.ID)
		if err != nil {
			log.Printf("tavus: could not recover conversation url: %v", err)
		} else {
			conv.URL = detail.URL
		}
	}

	if conv.ID != "" && contextText != "" {
		if err := s.SendSystemMessage(ctx, conv.ID, contextText); err != nil {
			// The conversation itself is usable; the avatar just starts
			// without the briefing.
			log.Printf("tavus: could not send interview briefing: %v", err)
		}
	}

	return conv, nil
}

func (s *TavusService) createConversation(ctx context.Context, conversationName string) (*Conversation, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("TAVUS_API_KEY is not configured")
	}
	if s.personaID == "" {
		return nil, fmt.Errorf("TAVUS_PERSONA_ID is not configured")
	}

	payload := map[string]any{
		"persona_id": s.personaID,
	}
	if s.replicaID != "" {
		payload["replica_id"] = s.replicaID
	}
	if conversationName != "" {
		payload["conversation_name"] = conversationName
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("x-api-key", s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/v2/conversations")
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return nil, &ProviderError{Op: "create conversation", StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	body := resp.String()
	return &Conversation{
		ID:  gjson.Get(body, "conversation_id").String(),
		URL: gjson.Get(body, "conversation_url").String(),
	}, nil
}

func (s *TavusService) getConversation(ctx context.Context, conversationID string) (*Conversation, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("x-api-key", s.apiKey).
		Get("/v2/conversations/" + conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return nil, &ProviderError{Op: "get conversation", StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	body := resp.String()
	return &Conversation{
		ID:  conversationID,
		URL: gjson.Get(body, "conversation_url").String(),
	}, nil
}

// SendSystemMessage feeds instructions into an existing conversation. The
// messages endpoint uses Bearer auth with the same key.
func (s *TavusService) SendSystemMessage(ctx context.Context, conversationID, content string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"role":    "system",
			"content": content,
		}).
		Post("/v2/conversations/" + conversationID + "/messages")
	if err != nil {
		return fmt.Errorf("send system message: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return &ProviderError{Op: "send message", StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}
