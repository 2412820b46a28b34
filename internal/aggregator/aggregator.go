package aggregator

import (
	"math"
	"sort"

	"github.com/pable/scrimstats/internal/model"
)

// KeyFunc extracts the grouping key of a row.
type KeyFunc func(*model.Record) string

// Groupings used by the dashboard views.
var (
	PlayerKey KeyFunc = func(r *model.Record) string { return r.Player }
	MapKey    KeyFunc = func(r *model.Record) string { return r.Map }
	AgentKey  KeyFunc = func(r *model.Record) string { return r.Agent }
)

// mean accumulates the non-missing values of one column.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	if model.IsMissing(v) {
		return
	}
	m.sum += v
	m.n++
}

func (m *mean) value() float64 {
	if m.n == 0 {
		return model.Missing
	}
	return m.sum / float64(m.n)
}

// sum skips missing values; a column with no values sums to zero.
func sum(acc *float64, v float64) {
	if !model.IsMissing(v) {
		*acc += v
	}
}

type group struct {
	key     string
	matches map[int]struct{}
	line    model.StatLine

	combatScore, firstKills, firstDeaths mean
	damage, damageDelta, headshot        mean
	multiKills, plants, defuses          mean
	rowKD, rowKDA                        mean
}

// Group aggregates rows by key and returns one StatLine per key, sorted by
// mean combat score descending. Ties and missing scores break by key.
func Group(records []model.Record, key KeyFunc) []model.StatLine {
	groups := make(map[string]*group)
	var order []string
	for i := range records {
		r := &records[i]
		k := key(r)
		g, ok := groups[k]
		if !ok {
			g = &group{key: k, matches: make(map[int]struct{})}
			groups[k] = g
			order = append(order, k)
		}
		g.matches[r.MatchID] = struct{}{}

		sum(&g.line.Kills, r.Kills)
		sum(&g.line.Deaths, r.Deaths)
		sum(&g.line.Assists, r.Assists)
		if w := r.Won(); !model.IsMissing(w) {
			g.line.Wins += w
			g.line.Decided++
		}

		g.combatScore.add(r.CombatScore)
		g.firstKills.add(r.FirstKills)
		g.firstDeaths.add(r.FirstDeaths)
		g.damage.add(r.Damage)
		g.damageDelta.add(r.DamageDelta)
		g.headshot.add(r.Headshot)
		g.multiKills.add(r.MultiKills)
		g.plants.add(r.Plants)
		g.defuses.add(r.Defuses)
		g.rowKD.add(r.KDRatio())
		g.rowKDA.add(r.KDARatio())
	}

	out := make([]model.StatLine, 0, len(order))
	for _, k := range order {
		g := groups[k]
		s := g.line
		s.Key = k
		s.Label = k
		s.Matches = len(g.matches)
		s.CombatScore = g.combatScore.value()
		s.FirstKills = g.firstKills.value()
		s.FirstDeaths = g.firstDeaths.value()
		s.Damage = g.damage.value()
		s.DamageDelta = g.damageDelta.value()
		s.Headshot = g.headshot.value()
		s.MultiKills = g.multiKills.value()
		s.Plants = g.plants.value()
		s.Defuses = g.defuses.value()
		s.RowKD = g.rowKD.value()
		s.RowKDA = g.rowKDA.value()
		out = append(out, s)
	}
	SortByCombatScore(out)
	return out
}

// SortByCombatScore orders lines by mean combat score descending, missing last.
func SortByCombatScore(lines []model.StatLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i].CombatScore, lines[j].CombatScore
		switch {
		case math.IsNaN(a) && math.IsNaN(b):
			return lines[i].Key < lines[j].Key
		case math.IsNaN(a):
			return false
		case math.IsNaN(b):
			return true
		case a != b:
			return a > b
		}
		return lines[i].Key < lines[j].Key
	})
}

// ByPlayer groups rows by player.
func ByPlayer(records []model.Record) []model.StatLine {
	return Group(records, PlayerKey)
}

// ByMap groups rows by map.
func ByMap(records []model.Record) []model.StatLine {
	return Group(records, MapKey)
}

// ByAgent groups rows by agent.
func ByAgent(records []model.Record) []model.StatLine {
	return Group(records, AgentKey)
}

// Where returns the rows for which keep is true, in input order.
func Where(records []model.Record, keep func(*model.Record) bool) []model.Record {
	var out []model.Record
	for i := range records {
		if keep(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// OfPlayer returns the rows of one player.
func OfPlayer(records []model.Record, player string) []model.Record {
	return Where(records, func(r *model.Record) bool { return r.Player == player })
}

// OnMap returns the rows played on one map.
func OnMap(records []model.Record, mapName string) []model.Record {
	return Where(records, func(r *model.Record) bool { return r.Map == mapName })
}

// OfMatch returns the rows of one match.
func OfMatch(records []model.Record, matchID int) []model.Record {
	return Where(records, func(r *model.Record) bool { return r.MatchID == matchID })
}
