package domain

import "time"

// Intent is the coarse category a user query is classified into
type Intent string

const (
	IntentLineup  Intent = "lineup"
	IntentTrade   Intent = "trade"
	IntentWaiver  Intent = "waiver"
	IntentPlayer  Intent = "player"
	IntentGeneral Intent = "general"
)

// Role of a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is user or assistant
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one conversation turn
type Message struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ConversationContext carries caller-supplied history and ids for generic chat
type ConversationContext struct {
	Messages []Message `json:"messages"`
	LeagueID string    `json:"leagueId,omitempty"`
	UserID   string    `json:"userId,omitempty"`
}

// RecommendationType is the suggested action
type RecommendationType string

const (
	RecommendStart RecommendationType = "start"
	RecommendSit   RecommendationType = "sit"
	RecommendAdd   RecommendationType = "add"
	RecommendDrop  RecommendationType = "drop"
	RecommendTrade RecommendationType = "trade"
)

// Confidence level attached to a recommendation
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Recommendation is a structured suggestion scraped from the model reply
type Recommendation struct {
	Type       RecommendationType `json:"type"`
	Player     string             `json:"player,omitempty"`
	Reason     string             `json:"reason"`
	Confidence Confidence         `json:"confidence"`
}

// AnalysisResponse is the normalized result of every model call
type AnalysisResponse struct {
	Message         string           `json:"message"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	Message             string    `json:"message" binding:"required"`
	LeagueID            string    `json:"leagueId,omitempty"`
	UserID              string    `json:"userId,omitempty"`
	ConversationHistory []Message `json:"conversationHistory,omitempty"`
}

// OptimizeLineupRequest asks for the best lineup for a week
type OptimizeLineupRequest struct {
	LeagueID string `json:"leagueId" binding:"required"`
	UserID   string `json:"userId" binding:"required"`
	Week     *int   `json:"week,omitempty"`
}

// WaiverRecommendationsRequest asks for waiver pickups
type WaiverRecommendationsRequest struct {
	LeagueID string `json:"leagueId" binding:"required"`
	UserID   string `json:"userId" binding:"required"`
	Limit    *int   `json:"limit,omitempty"`
}

// EvaluateTradeRequest asks for a trade evaluation
type EvaluateTradeRequest struct {
	Message  string `json:"message" binding:"required"`
	LeagueID string `json:"leagueId,omitempty"`
	UserID   string `json:"userId,omitempty"`
}

// ChatResponse is the response envelope of every assistant mutation
type ChatResponse struct {
	Message         string           `json:"message"`
	Recommendations []Recommendation `json:"recommendations"`
	Timestamp       time.Time        `json:"timestamp"`
}

// NewChatResponse wraps an analysis result; recommendations are never null
func NewChatResponse(resp *AnalysisResponse, now time.Time) *ChatResponse {
	recs := resp.Recommendations
	if recs == nil {
		recs = []Recommendation{}
	}
	return &ChatResponse{
		Message:         resp.Message,
		Recommendations: recs,
		Timestamp:       now,
	}
}

// Analysis is one entry of the analysis log
type Analysis struct {
	ID                  string    `json:"id"`
	Kind                string    `json:"kind"`
	Intent              Intent    `json:"intent"`
	LeagueID            string    `json:"leagueId,omitempty"`
	UserID              string    `json:"userId,omitempty"`
	Message             string    `json:"message"`
	Response            string    `json:"response"`
	RecommendationCount int       `json:"recommendationCount"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Analysis kinds
const (
	AnalysisKindChat   = "chat"
	AnalysisKindLineup = "lineup_optimize"
	AnalysisKindWaiver = "waiver_recommendations"
	AnalysisKindTrade  = "trade_evaluate"
)

// Stats represents system statistics
type Stats struct {
	TotalAnalyses    int            `json:"totalAnalyses"`
	AnalysesByIntent map[string]int `json:"analysesByIntent"`
	SnapshotPlayers  int            `json:"snapshotPlayers"`
	LastPlayerSync   *time.Time     `json:"lastPlayerSync,omitempty"`
	CacheBackend     string         `json:"cacheBackend"`
}

// SyncResult reports a player directory snapshot run
type SyncResult struct {
	Synced     int   `json:"synced"`
	DurationMS int64 `json:"durationMs"`
}
