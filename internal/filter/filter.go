// Package filter implements the sidebar selections applied to the data
// before any grouping: tier, agent role, map and team.
package filter

import (
	"github.com/pable/scrimstats/internal/model"
	"github.com/pable/scrimstats/internal/roster"
)

// Filter is one set of selections. A nil field means "use the default";
// an empty non-nil field selects nothing.
type Filter struct {
	Tiers []string
	Roles []string
	Maps  []string
	Teams []string
}

// Options are the choices offered for each selection.
type Options struct {
	Tiers []string
	Roles []string
	Maps  []string
	Teams []string // empty outside the scrim variant
}

// Available lists the options derived from the roster and the loaded rows.
// Maps and teams are the ones present in the data, sorted.
func Available(records []model.Record, r *roster.Roster) Options {
	players := make([]string, len(records))
	for i := range records {
		players[i] = records[i].Player
	}
	_, tierOrder := r.TierBuckets(players)

	var maps []string
	seenMap := make(map[string]bool)
	for i := range records {
		m := records[i].Map
		if m == "" || seenMap[m] {
			continue
		}
		seenMap[m] = true
		maps = append(maps, m)
	}
	r.SortStrings(maps)

	opts := Options{
		Tiers: tierOrder,
		Roles: append([]string(nil), r.RoleOrder...),
		Maps:  maps,
	}
	if r.HasTeams() {
		seenTeam := make(map[string]bool)
		var teams []string
		for _, p := range players {
			t := r.TeamOf(p)
			if !seenTeam[t] {
				seenTeam[t] = true
				teams = append(teams, t)
			}
		}
		r.SortStrings(teams)
		opts.Teams = teams
	}
	return opts
}

// Defaults selects every option except the mercenary tier and team.
func (o Options) Defaults() Filter {
	return Filter{
		Tiers: without(o.Tiers, roster.Mercenary),
		Roles: append([]string{}, o.Roles...),
		Maps:  append([]string{}, o.Maps...),
		Teams: without(o.Teams, roster.Mercenary),
	}
}

// Resolve fills the nil fields of f from d.
func (f Filter) Resolve(d Filter) Filter {
	if f.Tiers == nil {
		f.Tiers = d.Tiers
	}
	if f.Roles == nil {
		f.Roles = d.Roles
	}
	if f.Maps == nil {
		f.Maps = d.Maps
	}
	if f.Teams == nil {
		f.Teams = d.Teams
	}
	return f
}

// Apply returns the records that pass every selection, in input order.
// Selections apply in the order tier, role, map, team; the team selection is
// ignored when the roster has no teams.
func (f Filter) Apply(records []model.Record, r *roster.Roster) []model.Record {
	players := make([]string, len(records))
	for i := range records {
		players[i] = records[i].Player
	}
	buckets, _ := r.TierBuckets(players)
	allowedPlayers := make(map[string]bool)
	for _, tier := range f.Tiers {
		for _, p := range buckets[tier] {
			allowedPlayers[p] = true
		}
	}
	allowedAgents := set(r.AgentsOf(f.Roles))
	allowedMaps := set(f.Maps)
	allowedTeams := set(f.Teams)

	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if !allowedPlayers[rec.Player] {
			continue
		}
		if !allowedAgents[rec.Agent] {
			continue
		}
		if !allowedMaps[rec.Map] {
			continue
		}
		if r.HasTeams() && !allowedTeams[r.TeamOf(rec.Player)] {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func set(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[s] = true
	}
	return m
}

func without(items []string, drop string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s != drop {
			out = append(out, s)
		}
	}
	return out
}
