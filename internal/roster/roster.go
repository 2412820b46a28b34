// Package roster holds the static lookup tables of the event: agent roles,
// player skill tiers and scrim team assignments.
package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pable/scrimstats/internal/model"
)

// Mercenary is the catch-all tier and team for players in no list.
const Mercenary = "용병"

// Role names in display order.
const (
	RoleDuelist    = "타격대"
	RoleInitiator  = "척후대"
	RoleSentinel   = "감시자"
	RoleController = "전략가"
)

var defaultRoleOrder = []string{RoleDuelist, RoleInitiator, RoleSentinel, RoleController}

var defaultRoles = map[string][]string{
	RoleDuelist:    {"네온", "레이나", "레이즈", "아이소", "요루", "웨이레이", "제트", "피닉스"},
	RoleInitiator:  {"게코", "브리치", "소바", "스카이", "케이/오", "테호", "페이드"},
	RoleSentinel:   {"데드록", "바이스", "사이퍼", "세이지", "체임버", "킬조이"},
	RoleController: {"바이퍼", "브림스톤", "아스트라", "오멘", "클로브", "하버"},
}

var defaultTierOrder = []string{"A", "B", "C", "D", "E"}

// Tier C differs between the two data sets: the internal league sheet uses
// the player's full nickname.
var scrimTiers = map[string][]string{
	"A": {"강지형", "김뚜띠", "조별하", "짜누"},
	"B": {"감제이", "뱅", "푸린", "핑맨"},
	"C": {"강지", "눈꽃", "마뫄", "빅헤드"},
	"D": {"아구이뽀", "울프", "유봄냥", "임나은"},
	"E": {"고수달", "따효니", "러너", "백곰파"},
}

var internalTiers = map[string][]string{
	"A": {"강지형", "김뚜띠", "조별하", "짜누"},
	"B": {"감제이", "뱅", "푸린", "핑맨"},
	"C": {"미친개정강지", "눈꽃", "마뫄", "빅헤드"},
	"D": {"아구이뽀", "울프", "유봄냥", "임나은"},
	"E": {"고수달", "따효니", "러너", "백곰파"},
}

var scrimTeams = map[string]string{
	"강지형": "모운", "감제이": "츈츈", "강지": "모운", "아구이뽀": "모운", "고수달": "썬데",
	"김뚜띠": "썬데", "뱅": "모운", "눈꽃": "파인", "울프": "츈츈", "따효니": "모운",
	"조별하": "파인", "푸린": "파인", "마뫄": "츈츈", "유봄냥": "썬데", "러너": "츈츈",
	"짜누": "츈츈", "핑맨": "썬데", "빅헤드": "썬데", "임나은": "파인", "백곰파": "파인",
}

// The first two 모운 vs 파인 scrims were recorded as results only.
var scrimAdjustments = []model.ResultAdjustment{
	{Winner: "파인", Loser: "모운", Count: 2},
}

// AdjustmentNote is shown under the head-to-head table when the built-in adjustments apply.
const AdjustmentNote = "*모운팀과 파인팀의 첫 2경기는 승패만 기록됨*"

// Roster is the set of static tables for one variant.
type Roster struct {
	Variant     model.Variant
	RoleOrder   []string
	Roles       map[string][]string
	TierOrder   []string // without the mercenary bucket
	Tiers       map[string][]string
	Teams       map[string]string
	Adjustments []model.ResultAdjustment
	Note        string

	agentRole  map[string]string
	playerTier map[string]string
	collator   *collate.Collator
}

// Default returns the built-in roster of the given variant.
func Default(v model.Variant) *Roster {
	r := &Roster{
		Variant:   v,
		RoleOrder: append([]string(nil), defaultRoleOrder...),
		Roles:     copyLists(defaultRoles),
		TierOrder: append([]string(nil), defaultTierOrder...),
	}
	if v == model.VariantScrim {
		r.Tiers = copyLists(scrimTiers)
		r.Teams = make(map[string]string, len(scrimTeams))
		for p, t := range scrimTeams {
			r.Teams[p] = t
		}
		r.Adjustments = append([]model.ResultAdjustment(nil), scrimAdjustments...)
		r.Note = AdjustmentNote
	} else {
		r.Tiers = copyLists(internalTiers)
	}
	r.index()
	return r
}

// rosterFile is the schema of --roster JSON files. Omitted sections keep the built-ins.
type rosterFile struct {
	RoleOrder   []string                 `json:"role_order"`
	Roles       map[string][]string      `json:"roles"`
	TierOrder   []string                 `json:"tier_order"`
	Tiers       map[string][]string      `json:"tiers"`
	Teams       map[string]string        `json:"teams"`
	Adjustments *[]model.ResultAdjustment `json:"adjustments"`
	Note        *string                  `json:"note"`
}

// Load reads a roster JSON file on top of the variant defaults.
// An empty path returns the defaults.
func Load(path string, v model.Variant) (*Roster, error) {
	r := Default(v)
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	var rf rosterFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse roster file: %w", err)
	}
	if rf.Roles != nil {
		r.Roles = rf.Roles
		r.RoleOrder = rf.RoleOrder
		if len(r.RoleOrder) == 0 {
			r.RoleOrder = sortedKeys(rf.Roles)
		}
	}
	if rf.Tiers != nil {
		r.Tiers = rf.Tiers
		r.TierOrder = rf.TierOrder
		if len(r.TierOrder) == 0 {
			r.TierOrder = sortedKeys(rf.Tiers)
		}
	}
	if rf.Teams != nil {
		r.Teams = rf.Teams
	}
	if rf.Adjustments != nil {
		r.Adjustments = *rf.Adjustments
		r.Note = ""
	}
	if rf.Note != nil {
		r.Note = *rf.Note
	}
	r.index()
	return r, nil
}

func (r *Roster) index() {
	r.agentRole = make(map[string]string)
	for _, role := range r.RoleOrder {
		for _, a := range r.Roles[role] {
			r.agentRole[a] = role
		}
	}
	r.playerTier = make(map[string]string)
	for _, tier := range r.TierOrder {
		for _, p := range r.Tiers[tier] {
			r.playerTier[p] = tier
		}
	}
	r.collator = collate.New(language.Korean)
}

// RoleOf returns the role of an agent, or "" when the agent is in no list.
func (r *Roster) RoleOf(agent string) string {
	return r.agentRole[agent]
}

// AgentsOf returns the agents of the given roles, in role order.
func (r *Roster) AgentsOf(roles []string) []string {
	var out []string
	for _, role := range roles {
		out = append(out, r.Roles[role]...)
	}
	return out
}

// TierOf returns the tier of a player, or Mercenary.
func (r *Roster) TierOf(player string) string {
	if t, ok := r.playerTier[player]; ok {
		return t
	}
	return Mercenary
}

// TeamOf returns the scrim team of a player, or Mercenary.
func (r *Roster) TeamOf(player string) string {
	if t, ok := r.Teams[player]; ok {
		return t
	}
	return Mercenary
}

// HasTeams reports whether team features apply.
func (r *Roster) HasTeams() bool {
	return r.Variant == model.VariantScrim
}

// Mercenaries returns the sorted names seen in the data that are in no tier list.
func (r *Roster) Mercenaries(players []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range players {
		if _, tiered := r.playerTier[p]; tiered {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	r.SortStrings(out)
	return out
}

// TierBuckets returns tier → players including the mercenary bucket derived
// from the data, plus the full tier order. The bucket is only added when
// there is at least one mercenary.
func (r *Roster) TierBuckets(players []string) (map[string][]string, []string) {
	buckets := copyLists(r.Tiers)
	order := append([]string(nil), r.TierOrder...)
	if mercs := r.Mercenaries(players); len(mercs) > 0 {
		buckets[Mercenary] = mercs
		order = append(order, Mercenary)
	}
	return buckets, order
}

// tierRank orders tiers with the mercenary bucket last.
func (r *Roster) tierRank(player string) int {
	tier := r.TierOf(player)
	for i, t := range r.TierOrder {
		if t == tier {
			return i
		}
	}
	return len(r.TierOrder)
}

// SortPlayers sorts by (tier rank, name), the order used by player pickers.
func (r *Roster) SortPlayers(players []string) {
	sort.SliceStable(players, func(i, j int) bool {
		ri, rj := r.tierRank(players[i]), r.tierRank(players[j])
		if ri != rj {
			return ri < rj
		}
		return r.Less(players[i], players[j])
	})
}

// Less compares two strings with Korean collation; ties fall back to byte order.
func (r *Roster) Less(a, b string) bool {
	if c := r.collator.CompareString(a, b); c != 0 {
		return c < 0
	}
	return a < b
}

// SortStrings sorts names with Korean collation.
func (r *Roster) SortStrings(s []string) {
	sort.SliceStable(s, func(i, j int) bool { return r.Less(s[i], s[j]) })
}

// Label formats a player for leaderboard rows: "[A] name", "[A-모운] name" or "[-] name".
func (r *Roster) Label(player string) string {
	tier := r.TierOf(player)
	if tier == Mercenary {
		return "[-] " + player
	}
	if !r.HasTeams() {
		return fmt.Sprintf("[%s] %s", tier, player)
	}
	team, ok := r.Teams[player]
	if !ok {
		team = "?"
	}
	return fmt.Sprintf("[%s-%s] %s", tier, team, player)
}

func copyLists(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
