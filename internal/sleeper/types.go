package sleeper

// Upstream response shapes. Field names follow the provider's snake_case JSON.

type User struct {
	UserID      string  `json:"user_id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	Avatar      *string `json:"avatar"`
}

type League struct {
	LeagueID         string           `json:"league_id"`
	Name             string           `json:"name"`
	Avatar           *string          `json:"avatar"`
	Season           string           `json:"season"`
	SeasonType       string           `json:"season_type"`
	Sport            string           `json:"sport"`
	Status           string           `json:"status"`
	TotalRosters     int              `json:"total_rosters"`
	Settings         *LeagueSettings  `json:"settings"`
	ScoringSettings  *ScoringSettings `json:"scoring_settings"`
	RosterPositions  []string         `json:"roster_positions"`
	PreviousLeagueID *string          `json:"previous_league_id"`
	DraftID          *string          `json:"draft_id"`
}

type LeagueSettings struct {
	Wins             *int `json:"wins"`
	Losses           *int `json:"losses"`
	Ties             *int `json:"ties"`
	PlayoffTeams     *int `json:"playoff_teams"`
	PlayoffWeekStart *int `json:"playoff_week_start"`
}

type ScoringSettings struct {
	PassTD *float64 `json:"pass_td"`
	PassYd *float64 `json:"pass_yd"`
	Rec    *float64 `json:"rec"`
	RecYd  *float64 `json:"rec_yd"`
	RushYd *float64 `json:"rush_yd"`
	RushTD *float64 `json:"rush_td"`
}

type Roster struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id"`
	LeagueID string         `json:"league_id"`
	Players  []string       `json:"players"`
	Starters []string       `json:"starters"`
	Reserve  []string       `json:"reserve"`
	Taxi     []string       `json:"taxi"`
	Settings RosterSettings `json:"settings"`
}

type RosterSettings struct {
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	Ties               int     `json:"ties"`
	Fpts               float64 `json:"fpts"`
	FptsDecimal        float64 `json:"fpts_decimal"`
	FptsAgainst        float64 `json:"fpts_against"`
	FptsAgainstDecimal float64 `json:"fpts_against_decimal"`
	TotalMoves         *int    `json:"total_moves"`
	WaiverPosition     *int    `json:"waiver_position"`
	WaiverBudgetUsed   *int    `json:"waiver_budget_used"`
}

type LeagueUser struct {
	UserID      string              `json:"user_id"`
	Username    string              `json:"username"`
	DisplayName string              `json:"display_name"`
	Avatar      *string             `json:"avatar"`
	Metadata    *LeagueUserMetadata `json:"metadata"`
	IsOwner     *bool               `json:"is_owner"`
}

type LeagueUserMetadata struct {
	TeamName *string `json:"team_name"`
}

type Matchup struct {
	RosterID     int      `json:"roster_id"`
	MatchupID    int      `json:"matchup_id"`
	Starters     []string `json:"starters"`
	Players      []string `json:"players"`
	Points       float64  `json:"points"`
	CustomPoints *float64 `json:"custom_points"`
}

type Player struct {
	PlayerID         string   `json:"player_id"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	FullName         string   `json:"full_name"`
	Team             *string  `json:"team"`
	Position         string   `json:"position"`
	Number           *int     `json:"number"`
	Status           string   `json:"status"`
	Active           bool     `json:"active"`
	InjuryStatus     *string  `json:"injury_status"`
	FantasyPositions []string `json:"fantasy_positions"`
	Age              *int     `json:"age"`
	Height           *string  `json:"height"`
	Weight           *string  `json:"weight"`
	College          *string  `json:"college"`
	YearsExp         *int     `json:"years_exp"`
	GsisID           *string  `json:"gsis_id"`
	SearchRank       *int     `json:"search_rank"`
}

// DisplayName returns full_name, falling back to first and last name
func (p *Player) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.FirstName + " " + p.LastName
}

type TrendingPlayer struct {
	PlayerID string `json:"player_id"`
	Count    int    `json:"count"`
}

type NFLState struct {
	Week               int    `json:"week"`
	SeasonType         string `json:"season_type"`
	SeasonStartDate    string `json:"season_start_date"`
	Season             string `json:"season"`
	PreviousSeason     string `json:"previous_season"`
	Leg                int    `json:"leg"`
	LeagueSeason       string `json:"league_season"`
	LeagueCreateSeason string `json:"league_create_season"`
	DisplayWeek        int    `json:"display_week"`
}

type Transaction struct {
	Type          string               `json:"type"`
	TransactionID string               `json:"transaction_id"`
	Status        string               `json:"status"`
	StatusUpdated int64                `json:"status_updated"`
	RosterIDs     []int                `json:"roster_ids"`
	Creator       string               `json:"creator"`
	Created       int64                `json:"created"`
	Leg           int                  `json:"leg"`
	Adds          map[string]int       `json:"adds"`
	Drops         map[string]int       `json:"drops"`
	DraftPicks    []TradedPick         `json:"draft_picks"`
	Settings      *TransactionSettings `json:"settings"`
	ConsenterIDs  []int                `json:"consenter_ids"`
}

type TransactionSettings struct {
	WaiverBid *int `json:"waiver_bid"`
}

type TradedPick struct {
	Season          string `json:"season"`
	Round           int    `json:"round"`
	RosterID        int    `json:"roster_id"`
	PreviousOwnerID int    `json:"previous_owner_id"`
	OwnerID         int    `json:"owner_id"`
}
