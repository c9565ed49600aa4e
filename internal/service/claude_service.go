package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/huddle-ai/huddle/internal/config"
	"github.com/huddle-ai/huddle/internal/domain"
	"github.com/huddle-ai/huddle/internal/metrics"
	"github.com/huddle-ai/huddle/internal/sleeper"
	"go.uber.org/zap"
)

const systemPrompt = `You are an expert fantasy football AI assistant. Your role is to help users make informed decisions about their fantasy football teams.

Your capabilities include:
- Analyzing player performance and matchups
- Providing lineup optimization recommendations
- Evaluating trade proposals for fairness and value
- Identifying waiver wire opportunities
- Offering strategic advice for roster management

When providing recommendations:
1. Be specific and actionable
2. Explain your reasoning clearly
3. Consider matchups, trends, and context
4. Acknowledge uncertainty when appropriate
5. Provide confidence levels (high/medium/low) for your suggestions

Format your responses in a conversational, helpful tone. When making recommendations, structure them clearly with bullet points or numbered lists.`

var startSitPattern = regexp.MustCompile(`(?i)(start|sit):\s*([^\n]+)`)

// Assistant is the language model surface used by the analysis pipeline
type Assistant interface {
	SendMessage(ctx context.Context, userMessage string, conv *domain.ConversationContext) (*domain.AnalysisResponse, error)
	AnalyzeLineup(ctx context.Context, req *AnalysisRequest) (*domain.AnalysisResponse, error)
	EvaluateTrade(ctx context.Context, req *AnalysisRequest) (*domain.AnalysisResponse, error)
	AnalyzeWaiverWire(ctx context.Context, req *AnalysisRequest) (*domain.AnalysisResponse, error)
	AnalyzePlayer(ctx context.Context, player *sleeper.Player) (*domain.AnalysisResponse, error)
}

// AnalysisRequest is a classified query with its gathered context
type AnalysisRequest struct {
	Intent      domain.Intent
	UserMessage string
	Context     *ContextBundle
}

type claudeMessage struct {
	Role    domain.Role `json:"role"`
	Content string      `json:"content"`
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *claudeError `json:"error"`
}

type claudeError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ClaudeService talks to the Anthropic Messages API
type ClaudeService struct {
	apiKey     string
	model      string
	maxTokens  int
	baseURL    string
	apiVersion string
	http       *http.Client
	logger     *zap.Logger
}

// NewClaudeService creates a new Claude service. httpClient may be nil;
// no client timeout is set, the request context bounds each call.
func NewClaudeService(cfg config.ClaudeConfig, httpClient *http.Client, logger *zap.Logger) *ClaudeService {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &ClaudeService{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiVersion: cfg.APIVersion,
		http:       httpClient,
		logger:     logger.With(zap.String("component", "claude")),
	}
}

// SystemPrompt returns the fixed instruction sent with every request
func SystemPrompt() string {
	return systemPrompt
}

// SendMessage sends the conversation history plus userMessage as one request.
func (s *ClaudeService) SendMessage(ctx context.Context, userMessage string, conv *domain.ConversationContext) (*domain.AnalysisResponse, error) {
	var history []domain.Message
	var userID string
	if conv != nil {
		history = conv.Messages
		userID = conv.UserID
	}

	messages := make([]claudeMessage, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, claudeMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, claudeMessage{Role: domain.RoleUser, Content: userMessage})

	s.logger.Info("Sending message to Claude API",
		zap.Int("message_count", len(messages)),
		zap.String("user_id", userID),
	)

	resp, err := s.createMessage(ctx, &claudeRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    systemPrompt,
		Messages:  messages,
	})
	if err != nil {
		s.logger.Error("Claude API error", zap.Error(err))
		return nil, domain.NewExternalAPIError(domain.ServiceClaude,
			fmt.Sprintf("Failed to get response from Claude: %v", err), err)
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.Join(parts, "\n")

	s.logger.Info("Received response from Claude API",
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)
	metrics.LLMTokens.WithLabelValues("input").Add(float64(resp.Usage.InputTokens))
	metrics.LLMTokens.WithLabelValues("output").Add(float64(resp.Usage.OutputTokens))

	return &domain.AnalysisResponse{
		Message:         text,
		Recommendations: ExtractRecommendations(text),
	}, nil
}

func (s *ClaudeService) createMessage(ctx context.Context, body *claudeRequest) (*claudeResponse, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(domain.ServiceClaude).Observe(time.Since(start).Seconds())
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", s.apiVersion)

	resp, err := s.http.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(domain.ServiceClaude, metrics.OutcomeError).Inc()
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(domain.ServiceClaude, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out claudeResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequests.WithLabelValues(domain.ServiceClaude, metrics.OutcomeError).Inc()
		if decodeErr == nil && out.Error != nil {
			return nil, fmt.Errorf("status %d: %s: %s", resp.StatusCode, out.Error.Type, out.Error.Message)
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		metrics.UpstreamRequests.WithLabelValues(domain.ServiceClaude, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	if out.Error != nil {
		metrics.UpstreamRequests.WithLabelValues(domain.ServiceClaude, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %s", out.Error.Type, out.Error.Message)
	}

	metrics.UpstreamRequests.WithLabelValues(domain.ServiceClaude, metrics.OutcomeOK).Inc()
	return &out, nil
}

// AnalyzeLineup adds the caller's roster, starters and matchups to the question.
func (s *ClaudeService) AnalyzeLineup(ctx context.Context, req *AnalysisRequest) (*domain.AnalysisResponse, error) {
	var b strings.Builder
	b.WriteString(req.UserMessage)

	bundle := req.Context
	if bundle != nil && bundle.Roster != nil && bundle.Players != nil {
		b.WriteString("\n\nCurrent Roster Context:\n")
		fmt.Fprintf(&b, "Players: %s\n", toJSON(bundle.Players))
		fmt.Fprintf(&b, "Starters: %s\n", toJSON(bundle.Roster.Starters))
	}
	if bundle != nil && len(bundle.Matchups) > 0 {
		fmt.Fprintf(&b, "\nWeek %d Matchups:\n%s\n", bundle.CurrentWeek, toJSON(bundle.Matchups))
	}
	if bundle != nil && len(bundle.MentionedPlayers) > 0 {
		fmt.Fprintf(&b, "\nMentioned Players:\n%s\n", toJSON(bundle.MentionedPlayers))
	}

	return s.SendMessage(ctx, b.String(), nil)
}

func (s *ClaudeService) EvaluateTrade(ctx context.Context, req *AnalysisRequest) (*domain.AnalysisResponse, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Please evaluate this trade:\n%s\n\n", req.UserMessage)

	bundle := req.Context
	if bundle != nil && bundle.Players != nil {
		fmt.Fprintf(&b, "Player Details:\n%s\n", toJSON(bundle.Players))
	}
	if bundle != nil && len(bundle.MentionedPlayers) > 0 {
		fmt.Fprintf(&b, "Players Mentioned in Trade:\n%s\n", toJSON(bundle.MentionedPlayers))
	}
	if bundle != nil && bundle.Roster != nil {
		fmt.Fprintf(&b, "My Current Roster:\n%s\n", toJSON(bundle.Roster))
	}

	b.WriteString(`
Provide an analysis of:
1. Trade fairness and value
2. How it impacts my team composition
3. Strengths and weaknesses of each side
4. Overall recommendation with confidence level`)

	return s.SendMessage(ctx, b.String(), nil)
}

func (s *ClaudeService) AnalyzeWaiverWire(ctx context.Context, req *AnalysisRequest) (*domain.AnalysisResponse, error) {
	var b strings.Builder
	b.WriteString(req.UserMessage)

	bundle := req.Context
	if bundle != nil && bundle.Players != nil {
		fmt.Fprintf(&b, "\n\nAvailable Players:\n%s\n", toJSON(bundle.Players))
	}
	if bundle != nil && bundle.Roster != nil {
		fmt.Fprintf(&b, "My Roster:\n%s\n", toJSON(bundle.Roster))
	}
	if bundle != nil && len(bundle.MentionedPlayers) > 0 {
		fmt.Fprintf(&b, "Mentioned Players:\n%s\n", toJSON(bundle.MentionedPlayers))
	}

	b.WriteString(`
Provide recommendations for:
1. Which players to prioritize adding
2. Who to drop (if needed)
3. Reasoning for each suggestion
4. Priority order with confidence levels`)

	return s.SendMessage(ctx, b.String(), nil)
}

func (s *ClaudeService) AnalyzePlayer(ctx context.Context, player *sleeper.Player) (*domain.AnalysisResponse, error) {
	message := fmt.Sprintf(`Please provide a detailed analysis of this player:

%s

Include:
1. Current performance assessment
2. Upcoming matchup analysis
3. Season outlook
4. Recommendation (start/sit, add/drop value)`, toJSON(player))

	return s.SendMessage(ctx, message, nil)
}

// ExtractRecommendations scans text for "start:" and "sit:" lines.
// It returns nil when none are found.
func ExtractRecommendations(text string) []domain.Recommendation {
	var recs []domain.Recommendation
	for _, m := range startSitPattern.FindAllStringSubmatch(text, -1) {
		recType := domain.RecommendSit
		if strings.EqualFold(m[1], "start") {
			recType = domain.RecommendStart
		}
		recs = append(recs, domain.Recommendation{
			Type:       recType,
			Player:     strings.TrimSpace(m[2]),
			Reason:     "Based on matchup analysis",
			Confidence: domain.ConfidenceMedium,
		})
	}
	return recs
}

func toJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "null"
	}
	return string(data)
}
