package sleeper

import "github.com/huddle-ai/huddle/internal/domain"

// Conversions from upstream records to API records. Each is total: nil in, nil out.

func ToUser(u *User) *domain.User {
	if u == nil {
		return nil
	}
	return &domain.User{
		UserID:      u.UserID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
	}
}

func ToLeague(l *League) *domain.League {
	if l == nil {
		return nil
	}
	league := &domain.League{
		ID:              l.LeagueID,
		Name:            l.Name,
		Season:          l.Season,
		Status:          l.Status,
		Sport:           l.Sport,
		TotalRosters:    l.TotalRosters,
		RosterPositions: nonNil(l.RosterPositions),
	}
	if s := l.Settings; s != nil {
		league.Settings = &domain.LeagueSettings{
			Wins:             s.Wins,
			Losses:           s.Losses,
			Ties:             s.Ties,
			PlayoffTeams:     s.PlayoffTeams,
			PlayoffWeekStart: s.PlayoffWeekStart,
		}
	}
	if s := l.ScoringSettings; s != nil {
		league.ScoringSettings = &domain.ScoringSettings{
			PassTD: s.PassTD,
			PassYd: s.PassYd,
			Rec:    s.Rec,
			RecYd:  s.RecYd,
			RushYd: s.RushYd,
			RushTD: s.RushTD,
		}
	}
	return league
}

// ToRoster combines whole and hundredths point fields into one value.
func ToRoster(r *Roster) *domain.Roster {
	if r == nil {
		return nil
	}
	return &domain.Roster{
		ID:            r.RosterID,
		OwnerID:       r.OwnerID,
		LeagueID:      r.LeagueID,
		Players:       nonNil(r.Players),
		Starters:      nonNil(r.Starters),
		Reserve:       r.Reserve,
		Wins:          r.Settings.Wins,
		Losses:        r.Settings.Losses,
		Ties:          r.Settings.Ties,
		Points:        r.Settings.Fpts + r.Settings.FptsDecimal/100,
		PointsAgainst: r.Settings.FptsAgainst + r.Settings.FptsAgainstDecimal/100,
	}
}

func ToLeagueUser(u *LeagueUser) *domain.LeagueUser {
	if u == nil {
		return nil
	}
	lu := &domain.LeagueUser{
		UserID:      u.UserID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
		IsOwner:     u.IsOwner != nil && *u.IsOwner,
	}
	if u.Metadata != nil && u.Metadata.TeamName != nil && *u.Metadata.TeamName != "" {
		lu.TeamName = u.Metadata.TeamName
	}
	return lu
}

func ToMatchup(m *Matchup) *domain.Matchup {
	if m == nil {
		return nil
	}
	return &domain.Matchup{
		RosterID:  m.RosterID,
		MatchupID: m.MatchupID,
		Starters:  nonNil(m.Starters),
		Players:   nonNil(m.Players),
		Points:    m.Points,
	}
}

func ToPlayer(p *Player) *domain.Player {
	if p == nil {
		return nil
	}
	return &domain.Player{
		ID:               p.PlayerID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		FullName:         p.DisplayName(),
		Team:             p.Team,
		Position:         p.Position,
		Status:           p.Status,
		InjuryStatus:     p.InjuryStatus,
		FantasyPositions: nonNil(p.FantasyPositions),
		Age:              p.Age,
		Height:           p.Height,
		Weight:           p.Weight,
		College:          p.College,
		YearsExperience:  p.YearsExp,
		Number:           p.Number,
		SearchRank:       p.SearchRank,
	}
}

func ToNFLState(s *NFLState) *domain.NFLState {
	if s == nil {
		return nil
	}
	return &domain.NFLState{
		Week:           s.Week,
		SeasonType:     s.SeasonType,
		Season:         s.Season,
		PreviousSeason: s.PreviousSeason,
		LeagueSeason:   s.LeagueSeason,
		DisplayWeek:    s.DisplayWeek,
	}
}

func ToTradedPick(p *TradedPick) *domain.TradedPick {
	if p == nil {
		return nil
	}
	return &domain.TradedPick{
		Season:          p.Season,
		Round:           p.Round,
		RosterID:        p.RosterID,
		PreviousOwnerID: p.PreviousOwnerID,
		OwnerID:         p.OwnerID,
	}
}

func ToTransaction(t *Transaction) *domain.Transaction {
	if t == nil {
		return nil
	}
	txn := &domain.Transaction{
		ID:         t.TransactionID,
		Type:       t.Type,
		Status:     t.Status,
		RosterIDs:  t.RosterIDs,
		Adds:       t.Adds,
		Drops:      t.Drops,
		DraftPicks: make([]domain.TradedPick, 0, len(t.DraftPicks)),
		Creator:    t.Creator,
		Created:    t.Created,
		Week:       t.Leg,
	}
	for i := range t.DraftPicks {
		txn.DraftPicks = append(txn.DraftPicks, *ToTradedPick(&t.DraftPicks[i]))
	}
	if t.Settings != nil {
		txn.WaiverBid = t.Settings.WaiverBid
	}
	return txn
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
