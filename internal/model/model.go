package model

import "math"

// Outcome is the win/loss literal recorded for one match participation.
type Outcome string

const (
	OutcomeWin     Outcome = "v"
	OutcomeLoss    Outcome = "l"
	OutcomeUnknown Outcome = ""
)

// ParseOutcome maps the two literal codes; anything else is OutcomeUnknown.
func ParseOutcome(s string) Outcome {
	switch s {
	case "v":
		return OutcomeWin
	case "l":
		return OutcomeLoss
	default:
		return OutcomeUnknown
	}
}

// Known reports whether the outcome is one of the two literal codes.
func (o Outcome) Known() bool {
	return o == OutcomeWin || o == OutcomeLoss
}

func (o Outcome) String() string {
	return string(o)
}

// Variant selects which flavour of the event data is loaded.
type Variant string

const (
	// VariantInternal is the in-house league (내전): no teams, no objective counters.
	VariantInternal Variant = "internal"
	// VariantScrim is the team scrim data (스크림): teams, FD/MK/PL/DF and per-team round scores.
	VariantScrim Variant = "scrim"
)

// ParseVariant accepts "internal" or "scrim"; anything else returns ok=false.
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantInternal, VariantScrim:
		return Variant(s), true
	}
	return "", false
}

// Missing marks a numeric cell that was absent or unparsable.
var Missing = math.NaN()

// IsMissing reports whether v is a missing numeric value.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// ---- Raw rows ----

// Record is one match-participation row: one player in one match.
// Numeric fields hold Missing when the cell was empty or the column absent.
type Record struct {
	Row     int // sheet row in the source file (header is row 1), for diagnostics
	MatchID int
	Date    string
	Map     string
	Player  string
	Agent   string
	Team    string // assigned from the roster in the scrim variant

	CombatScore  float64 // ACS
	FirstKills   float64 // FK
	FirstDeaths  float64 // FD (scrim)
	Headshot     float64 // HS%
	Damage       float64 // ADR
	DamageDelta  float64 // DDΔ
	MultiKills   float64 // MK (scrim)
	Plants       float64 // PL (scrim)
	Defuses      float64 // DF (scrim)
	Kills        float64
	Deaths       float64
	Assists      float64
	Rounds       float64 // team round score (scrim)

	Outcome    Outcome
	RawOutcome string
}

// Won returns 1 for a win, 0 for a loss, and Missing for anything else.
func (r *Record) Won() float64 {
	switch r.Outcome {
	case OutcomeWin:
		return 1
	case OutcomeLoss:
		return 0
	default:
		return Missing
	}
}

// KDRatio is kills/deaths, falling back to kills when deaths is zero.
func (r *Record) KDRatio() float64 {
	return kdRatio(r.Kills, r.Deaths)
}

// KDARatio is (kills+assists)/deaths, falling back to kills+assists when deaths is zero.
func (r *Record) KDARatio() float64 {
	return kdRatio(r.Kills+r.Assists, r.Deaths)
}

func kdRatio(num, deaths float64) float64 {
	if deaths == 0 {
		return num
	}
	return num / deaths
}

// ---- Aggregated metrics ----

// StatLine holds one aggregated row of a grouped presentation table.
type StatLine struct {
	Key     string // group key: player, map or agent
	Label   string // display label; equals Key unless relabelled
	Matches int    // distinct match ids

	// Sums.
	Kills, Deaths, Assists float64
	Wins                   float64
	Decided                int // rows with a known outcome

	// Means over rows; Missing when no row had the value.
	CombatScore float64
	FirstKills  float64
	FirstDeaths float64
	Damage      float64
	DamageDelta float64
	Headshot    float64
	MultiKills  float64
	Plants      float64
	Defuses     float64

	// Means of the per-row ratios.
	RowKD  float64
	RowKDA float64
}

// WinRate is the mean win flag over decided rows, in [0, 1].
func (s *StatLine) WinRate() float64 {
	if s.Decided == 0 {
		return Missing
	}
	return s.Wins / float64(s.Decided)
}

// KDRatio is Σkills/Σdeaths, falling back to Σkills when there were no deaths.
func (s *StatLine) KDRatio() float64 {
	return kdRatio(s.Kills, s.Deaths)
}

// KDARatio is (Σkills+Σassists)/Σdeaths, falling back to the numerator when there were no deaths.
func (s *StatLine) KDARatio() float64 {
	return kdRatio(s.Kills+s.Assists, s.Deaths)
}

// KillsPerMatch is Σkills over the distinct match count.
func (s *StatLine) KillsPerMatch() float64 {
	return s.perMatch(s.Kills)
}

func (s *StatLine) DeathsPerMatch() float64 {
	return s.perMatch(s.Deaths)
}

func (s *StatLine) AssistsPerMatch() float64 {
	return s.perMatch(s.Assists)
}

func (s *StatLine) perMatch(v float64) float64 {
	if s.Matches == 0 {
		return Missing
	}
	return v / float64(s.Matches)
}

// ---- Team results ----

// TeamStanding is one row of the team win-rate table.
type TeamStanding struct {
	Team    string
	Played  int
	Wins    int
	Losses  int
	WinRate float64 // percentage, rounded to 2 decimals
}

// H2HRecord is a win/loss tally of one team against one opponent.
type H2HRecord struct {
	Wins   int
	Losses int
}

// ResultAdjustment is a historical result that is missing from the data file.
type ResultAdjustment struct {
	Winner string `json:"winner"`
	Loser  string `json:"loser"`
	Count  int    `json:"count"`
}

// MatchOption is one entry of the match picker.
type MatchOption struct {
	MatchID int
	Date    string
	Map     string
	Players []string
	Label   string
}
