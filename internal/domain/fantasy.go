package domain

// User is a fantasy platform account
type User struct {
	UserID      string  `json:"userId"`
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	Avatar      *string `json:"avatar"`
}

// League is a fantasy league for one season
type League struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Season          string           `json:"season"`
	Status          string           `json:"status"`
	Sport           string           `json:"sport"`
	TotalRosters    int              `json:"totalRosters"`
	RosterPositions []string         `json:"rosterPositions"`
	Settings        *LeagueSettings  `json:"settings"`
	ScoringSettings *ScoringSettings `json:"scoringSettings"`
}

// LeagueSettings holds the league settings surfaced to callers
type LeagueSettings struct {
	Wins             *int `json:"wins"`
	Losses           *int `json:"losses"`
	Ties             *int `json:"ties"`
	PlayoffTeams     *int `json:"playoffTeams"`
	PlayoffWeekStart *int `json:"playoffWeekStart"`
}

// ScoringSettings holds the common scoring weights
type ScoringSettings struct {
	PassTD *float64 `json:"passTd"`
	PassYd *float64 `json:"passYd"`
	Rec    *float64 `json:"rec"`
	RecYd  *float64 `json:"recYd"`
	RushYd *float64 `json:"rushYd"`
	RushTD *float64 `json:"rushTd"`
}

// Roster is one team in a league
type Roster struct {
	ID            int      `json:"id"`
	OwnerID       string   `json:"ownerId"`
	LeagueID      string   `json:"leagueId"`
	Players       []string `json:"players"`
	Starters      []string `json:"starters"`
	Reserve       []string `json:"reserve"`
	Wins          int      `json:"wins"`
	Losses        int      `json:"losses"`
	Ties          int      `json:"ties"`
	Points        float64  `json:"points"`
	PointsAgainst float64  `json:"pointsAgainst"`
}

// LeagueUser is a member of a league
type LeagueUser struct {
	UserID      string  `json:"userId"`
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	Avatar      *string `json:"avatar"`
	TeamName    *string `json:"teamName"`
	IsOwner     bool    `json:"isOwner"`
}

// Matchup is one roster's side of a weekly pairing
type Matchup struct {
	RosterID  int      `json:"rosterId"`
	MatchupID int      `json:"matchupId"`
	Starters  []string `json:"starters"`
	Players   []string `json:"players"`
	Points    float64  `json:"points"`
}

// Player is an NFL player record
type Player struct {
	ID               string   `json:"id"`
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	FullName         string   `json:"fullName"`
	Team             *string  `json:"team"`
	Position         string   `json:"position"`
	Status           string   `json:"status"`
	InjuryStatus     *string  `json:"injuryStatus"`
	FantasyPositions []string `json:"fantasyPositions"`
	Age              *int     `json:"age"`
	Height           *string  `json:"height"`
	Weight           *string  `json:"weight"`
	College          *string  `json:"college"`
	YearsExperience  *int     `json:"yearsExperience"`
	Number           *int     `json:"number"`
	SearchRank       *int     `json:"searchRank"`
}

// TrendingType selects trending adds or drops
type TrendingType string

const (
	TrendingAdd  TrendingType = "add"
	TrendingDrop TrendingType = "drop"
)

// Valid reports whether t is add or drop
func (t TrendingType) Valid() bool {
	return t == TrendingAdd || t == TrendingDrop
}

// TrendingPlayer is a player with recent add or drop volume
type TrendingPlayer struct {
	PlayerID string  `json:"playerId"`
	Count    int     `json:"count"`
	Player   *Player `json:"player"`
}

// NFLState is the current point in the NFL calendar
type NFLState struct {
	Week           int    `json:"week"`
	SeasonType     string `json:"seasonType"`
	Season         string `json:"season"`
	PreviousSeason string `json:"previousSeason"`
	LeagueSeason   string `json:"leagueSeason"`
	DisplayWeek    int    `json:"displayWeek"`
}

// Transaction is a completed or pending league move
type Transaction struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Status     string         `json:"status"`
	RosterIDs  []int          `json:"rosterIds"`
	Adds       map[string]int `json:"adds"`
	Drops      map[string]int `json:"drops"`
	DraftPicks []TradedPick   `json:"draftPicks"`
	WaiverBid  *int           `json:"waiverBid"`
	Creator    string         `json:"creator"`
	Created    int64          `json:"created"`
	Week       int            `json:"week"`
}

// TradedPick is a draft pick that changed hands
type TradedPick struct {
	Season          string `json:"season"`
	Round           int    `json:"round"`
	RosterID        int    `json:"rosterId"`
	PreviousOwnerID int    `json:"previousOwnerId"`
	OwnerID         int    `json:"ownerId"`
}
