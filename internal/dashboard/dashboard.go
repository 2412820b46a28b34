// Package dashboard ties the data file, the roster tables, the sidebar
// filters and the aggregations together into the eight dashboard views.
// Every request builds a fresh Session; nothing is shared between requests.
package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pable/scrimstats/internal/aggregator"
	"github.com/pable/scrimstats/internal/dataset"
	"github.com/pable/scrimstats/internal/filter"
	"github.com/pable/scrimstats/internal/model"
	"github.com/pable/scrimstats/internal/roster"
	"github.com/pable/scrimstats/internal/teams"
)

var (
	// ErrNoData is returned when a view has nothing to show after filtering.
	ErrNoData = errors.New("no rows match the current filters")
	// ErrUnknownView is returned for a view name outside the menu.
	ErrUnknownView = errors.New("unknown view")
)

// Source locates the inputs of a session.
type Source struct {
	DataPath   string
	RosterPath string
	Options    dataset.Options
	Logger     *zap.SugaredLogger
}

// Open loads the data file and the roster for its variant.
func (s Source) Open(f filter.Filter) (*Session, error) {
	ds, err := dataset.Load(s.DataPath, s.Options)
	if err != nil {
		return nil, fmt.Errorf("load data: %w", err)
	}
	if s.Logger != nil {
		for _, skip := range ds.Skipped {
			s.Logger.Warnw("Skipped data row", "path", s.DataPath, "row", skip.Row, "reason", skip.Reason)
		}
	}
	r, err := roster.Load(s.RosterPath, ds.Variant)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return NewSession(ds, r, f), nil
}

// Session is one filtered view of a loaded data file.
type Session struct {
	Data    *dataset.Dataset
	Roster  *roster.Roster
	Options filter.Options
	Filter  filter.Filter // resolved: no nil fields
	Rows    []model.Record
}

// NewSession assigns teams, resolves the filter defaults and applies the filter.
func NewSession(ds *dataset.Dataset, r *roster.Roster, f filter.Filter) *Session {
	all := make([]model.Record, len(ds.Records))
	copy(all, ds.Records)
	if r.HasTeams() {
		for i := range all {
			all[i].Team = r.TeamOf(all[i].Player)
		}
	}
	opts := filter.Available(all, r)
	resolved := f.Resolve(opts.Defaults())
	return &Session{
		Data:    ds,
		Roster:  r,
		Options: opts,
		Filter:  resolved,
		Rows:    resolved.Apply(all, r),
	}
}

// ---- Pickers ----

// Players returns the players of the filtered rows sorted by tier, then name.
func (s *Session) Players() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.Rows {
		if !seen[r.Player] {
			seen[r.Player] = true
			out = append(out, r.Player)
		}
	}
	s.Roster.SortPlayers(out)
	return out
}

// Maps returns the maps of the given rows, sorted.
func (s *Session) Maps(rows []model.Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if !seen[r.Map] {
			seen[r.Map] = true
			out = append(out, r.Map)
		}
	}
	s.Roster.SortStrings(out)
	return out
}

// Matches returns the match picker options in match id order. Date and map
// come from the first row of each match.
func (s *Session) Matches() []model.MatchOption {
	byID := make(map[int]*model.MatchOption)
	var ids []int
	for _, r := range s.Rows {
		opt, ok := byID[r.MatchID]
		if !ok {
			opt = &model.MatchOption{MatchID: r.MatchID, Date: r.Date, Map: r.Map}
			byID[r.MatchID] = opt
			ids = append(ids, r.MatchID)
		}
		if !contains(opt.Players, r.Player) {
			opt.Players = append(opt.Players, r.Player)
		}
	}
	sort.Ints(ids)
	out := make([]model.MatchOption, 0, len(ids))
	for _, id := range ids {
		opt := byID[id]
		s.Roster.SortStrings(opt.Players)
		parts := append([]string{strconv.Itoa(id), opt.Date, opt.Map}, opt.Players...)
		opt.Label = strings.Join(parts, ", ")
		out = append(out, *opt)
	}
	return out
}

// pick returns want when it is one of options, otherwise the first option.
func pick(options []string, want string) (string, error) {
	if len(options) == 0 {
		return "", ErrNoData
	}
	if contains(options, want) {
		return want, nil
	}
	return options[0], nil
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}

// ---- Views ----

// labelled sets the roster display label on every line.
func (s *Session) labelled(lines []model.StatLine) []model.StatLine {
	for i := range lines {
		lines[i].Label = s.Roster.Label(lines[i].Key)
	}
	return lines
}

// PlayerStats is view 1: every player of the filtered rows.
func (s *Session) PlayerStats() ([]model.StatLine, error) {
	if len(s.Rows) == 0 {
		return nil, ErrNoData
	}
	return s.labelled(aggregator.ByPlayer(s.Rows)), nil
}

// MapPlayerStats is view 2: players on one map. It returns the map used.
func (s *Session) MapPlayerStats(mapName string) (string, []model.StatLine, error) {
	m, err := pick(s.Maps(s.Rows), mapName)
	if err != nil {
		return "", nil, err
	}
	return m, s.labelled(aggregator.ByPlayer(aggregator.OnMap(s.Rows, m))), nil
}

// AgentStats is view 3: one player's agents.
func (s *Session) AgentStats(player string) (string, []model.StatLine, error) {
	p, err := pick(s.Players(), player)
	if err != nil {
		return "", nil, err
	}
	return p, aggregator.ByAgent(aggregator.OfPlayer(s.Rows, p)), nil
}

// MatchRows is view 4: the rows of one match, in file order.
func (s *Session) MatchRows(matchID int) (model.MatchOption, []model.Record, error) {
	opts := s.Matches()
	if len(opts) == 0 {
		return model.MatchOption{}, nil, ErrNoData
	}
	sel := opts[0]
	for _, o := range opts {
		if o.MatchID == matchID {
			sel = o
			break
		}
	}
	return sel, aggregator.OfMatch(s.Rows, sel.MatchID), nil
}

// PlayerMapStats is view 5: one player's maps.
func (s *Session) PlayerMapStats(player string) (string, []model.StatLine, error) {
	p, err := pick(s.Players(), player)
	if err != nil {
		return "", nil, err
	}
	return p, aggregator.ByMap(aggregator.OfPlayer(s.Rows, p)), nil
}

// PlayerMapAgentStats is view 6: one player's agents on one of their maps.
func (s *Session) PlayerMapAgentStats(player, mapName string) (string, string, []model.StatLine, error) {
	p, err := pick(s.Players(), player)
	if err != nil {
		return "", "", nil, err
	}
	rows := aggregator.OfPlayer(s.Rows, p)
	m, err := pick(s.Maps(rows), mapName)
	if err != nil {
		return "", "", nil, err
	}
	return p, m, aggregator.ByAgent(aggregator.OnMap(rows, m)), nil
}

// History is view 7: every row of one player sorted by (date, match id).
func (s *Session) History(player string) (string, []model.Record, error) {
	p, err := pick(s.Players(), player)
	if err != nil {
		return "", nil, err
	}
	rows := aggregator.OfPlayer(s.Rows, p)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].MatchID < rows[j].MatchID
	})
	return p, rows, nil
}

// TeamReport is view 8.
type TeamReport struct {
	Standings []model.TeamStanding
	Matrix    teams.Matrix
	Note      string
	Games     []teams.Game
}

// Teams is view 8: standings, head-to-head and recent results. Only the
// scrim variant has teams.
func (s *Session) Teams() (*TeamReport, error) {
	if !s.Roster.HasTeams() {
		return nil, fmt.Errorf("%w: teams view needs the scrim variant", ErrUnknownView)
	}
	if len(s.Rows) == 0 {
		return nil, ErrNoData
	}
	results := teams.Results(s.Rows, s.Roster)
	names := teams.Names(results, s.Roster)
	return &TeamReport{
		Standings: teams.Standings(results, names, s.Roster.Adjustments),
		Matrix:    teams.HeadToHead(results, names, s.Roster.Adjustments),
		Note:      s.Roster.Note,
		Games:     teams.Recent(s.Rows, results),
	}, nil
}
