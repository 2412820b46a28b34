// Package teams tallies scrim results per team: standings, the head-to-head
// matrix and the recent match list.
package teams

import (
	"fmt"
	"math"
	"sort"

	"github.com/pable/scrimstats/internal/model"
)

// Diagonal fills the matrix cells of a team against itself.
const Diagonal = "ㅡ"

// RecentLimit is the number of match ids listed by Recent.
const RecentLimit = 10

// Sorter orders team names for display.
type Sorter interface {
	SortStrings([]string)
}

// MatchResult is the outcome of every team that took part in one match.
type MatchResult struct {
	MatchID  int
	Teams    []string // sorted; every team with a row in the match
	Recorded []string // sorted; teams with a non-empty outcome cell
	Outcomes map[string]model.Outcome
}

// Results derives one MatchResult per match id, ascending. A team's outcome
// in a match is the first non-empty outcome among its rows; Team must already
// be set on every record.
func Results(records []model.Record, s Sorter) []MatchResult {
	type slot struct {
		match int
		team  string
	}
	byMatch := make(map[int]*MatchResult)
	settled := make(map[slot]bool)
	var ids []int
	for i := range records {
		r := &records[i]
		mr, ok := byMatch[r.MatchID]
		if !ok {
			mr = &MatchResult{MatchID: r.MatchID, Outcomes: make(map[string]model.Outcome)}
			byMatch[r.MatchID] = mr
			ids = append(ids, r.MatchID)
		}
		if _, seen := mr.Outcomes[r.Team]; !seen {
			mr.Teams = append(mr.Teams, r.Team)
			mr.Outcomes[r.Team] = model.OutcomeUnknown
		}
		k := slot{r.MatchID, r.Team}
		if !settled[k] && r.RawOutcome != "" {
			mr.Outcomes[r.Team] = r.Outcome
			mr.Recorded = append(mr.Recorded, r.Team)
			settled[k] = true
		}
	}
	sort.Ints(ids)

	out := make([]MatchResult, 0, len(ids))
	for _, id := range ids {
		mr := byMatch[id]
		s.SortStrings(mr.Teams)
		s.SortStrings(mr.Recorded)
		out = append(out, *mr)
	}
	return out
}

// Names returns every team that appears in results, sorted.
func Names(results []MatchResult, s Sorter) []string {
	seen := make(map[string]bool)
	var names []string
	for _, mr := range results {
		for _, t := range mr.Teams {
			if !seen[t] {
				seen[t] = true
				names = append(names, t)
			}
		}
	}
	s.SortStrings(names)
	return names
}

// Standings counts wins and losses per team, folds in the adjustments and
// sorts by win rate descending.
func Standings(results []MatchResult, names []string, adjustments []model.ResultAdjustment) []model.TeamStanding {
	index := make(map[string]int, len(names))
	out := make([]model.TeamStanding, 0, len(names))
	for _, n := range names {
		index[n] = len(out)
		out = append(out, model.TeamStanding{Team: n})
	}
	for _, mr := range results {
		for team, o := range mr.Outcomes {
			i, ok := index[team]
			if !ok {
				continue
			}
			switch o {
			case model.OutcomeWin:
				out[i].Wins++
			case model.OutcomeLoss:
				out[i].Losses++
			}
		}
	}
	for i := range out {
		out[i].Played = out[i].Wins + out[i].Losses
		out[i].WinRate = winRate(out[i].Wins, out[i].Played)
	}

	// Adjusted teams absent from the data are appended, the loser before the winner.
	adjust := func(team string, wins, losses int) {
		i, ok := index[team]
		if !ok {
			index[team] = len(out)
			out = append(out, model.TeamStanding{Team: team})
			i = len(out) - 1
		}
		out[i].Wins += wins
		out[i].Losses += losses
		out[i].Played += wins + losses
		out[i].WinRate = winRate(out[i].Wins, out[i].Played)
	}
	for _, adj := range adjustments {
		adjust(adj.Loser, 0, adj.Count)
		adjust(adj.Winner, adj.Count, 0)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].WinRate > out[j].WinRate })
	return out
}

func winRate(wins, played int) float64 {
	if played == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(played)*100*100) / 100
}

// Matrix is the head-to-head table. Cells[a][b] is a's record against b.
type Matrix struct {
	Teams []string
	Cells map[string]map[string]model.H2HRecord
}

// HeadToHead tallies every match in which exactly two teams recorded a
// result; teams without an outcome cell do not count. When both teams of an
// adjustment are in the matrix, the adjustment is added too.
func HeadToHead(results []MatchResult, names []string, adjustments []model.ResultAdjustment) Matrix {
	m := Matrix{
		Teams: append([]string(nil), names...),
		Cells: make(map[string]map[string]model.H2HRecord, len(names)),
	}
	for _, n := range names {
		m.Cells[n] = make(map[string]model.H2HRecord)
	}
	for _, mr := range results {
		if len(mr.Recorded) != 2 {
			continue
		}
		t1, t2 := mr.Recorded[0], mr.Recorded[1]
		switch {
		case mr.Outcomes[t1] == model.OutcomeWin:
			m.record(t1, t2)
		case mr.Outcomes[t2] == model.OutcomeWin:
			m.record(t2, t1)
		}
	}
	for _, adj := range adjustments {
		if !m.has(adj.Winner) || !m.has(adj.Loser) {
			continue
		}
		for i := 0; i < adj.Count; i++ {
			m.record(adj.Winner, adj.Loser)
		}
	}
	return m
}

func (m Matrix) has(team string) bool {
	_, ok := m.Cells[team]
	return ok
}

func (m Matrix) record(winner, loser string) {
	w := m.Cells[winner][loser]
	w.Wins++
	m.Cells[winner][loser] = w
	l := m.Cells[loser][winner]
	l.Losses++
	m.Cells[loser][winner] = l
}

// Cell renders one cell: "N승 M패", blank when the pair never met, and
// Diagonal for a team against itself.
func (m Matrix) Cell(row, col string) string {
	if row == col {
		return Diagonal
	}
	rec, ok := m.Cells[row][col]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d승 %d패", rec.Wins, rec.Losses)
}

// Game is one entry of the recent results list.
type Game struct {
	MatchID int
	Home    string
	Away    string
	// Round scores; zero when the team has no rounds value.
	HomeRounds int
	AwayRounds int
	Rows       []model.Record // sorted by combat score, descending
}

// Title renders the heading of a game, e.g. "경기 12: 모운 vs 파인 (13 : 9)".
func (g Game) Title() string {
	return fmt.Sprintf("경기 %d: %s vs %s (%d : %d)", g.MatchID, g.Home, g.Away, g.HomeRounds, g.AwayRounds)
}

// Recent lists the RecentLimit most recent match ids, newest first. Matches
// without exactly two teams are skipped after the limit is applied, so the
// list can be shorter.
func Recent(records []model.Record, results []MatchResult) []Game {
	var games []Game
	for i := len(results) - 1; i >= 0 && i >= len(results)-RecentLimit; i-- {
		mr := results[i]
		if len(mr.Teams) != 2 {
			continue
		}
		g := Game{MatchID: mr.MatchID, Home: mr.Teams[0], Away: mr.Teams[1]}
		home, away := math.NaN(), math.NaN()
		for _, r := range records {
			if r.MatchID != mr.MatchID {
				continue
			}
			g.Rows = append(g.Rows, r)
			if model.IsMissing(r.Rounds) {
				continue
			}
			if r.Team == g.Home && math.IsNaN(home) {
				home = r.Rounds
			}
			if r.Team == g.Away && math.IsNaN(away) {
				away = r.Rounds
			}
		}
		if !math.IsNaN(home) {
			g.HomeRounds = int(home)
		}
		if !math.IsNaN(away) {
			g.AwayRounds = int(away)
		}
		sort.SliceStable(g.Rows, func(a, b int) bool {
			return moreCombat(g.Rows[a].CombatScore, g.Rows[b].CombatScore)
		})
		games = append(games, g)
	}
	return games
}

// moreCombat orders scores descending with missing values last.
func moreCombat(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}
	if math.IsNaN(a) {
		return false
	}
	return a > b
}
