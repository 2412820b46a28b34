package dataset

// Column is the canonical key of a known data column.
type Column string

const (
	ColMatchID     Column = "경기 번호"
	ColDate        Column = "날짜"
	ColMap         Column = "맵"
	ColPlayer      Column = "스트리머 이름"
	ColAgent       Column = "사용한 요원"
	ColCombatScore Column = "전투 점수"
	ColFirstKills  Column = "첫 킬"
	ColFirstDeaths Column = "첫 데스"
	ColHeadshot    Column = "헤드샷%"
	ColDamage      Column = "피해량"
	ColDamageDelta Column = "피해량 격차"
	ColMultiKills  Column = "멀티킬"
	ColPlants      Column = "설치"
	ColDefuses     Column = "해체"
	ColKills       Column = "킬"
	ColDeaths      Column = "데스"
	ColAssists     Column = "어시스트"
	ColOutcome     Column = "승패"
	ColRounds      Column = "rounds"
)

// headerAliases maps the raw sheet headers to their display names.
// Display names map to themselves, so already-renamed exports load too.
var headerAliases = map[string]Column{
	"닉네임": ColPlayer,
	"요원": ColAgent,
	"ACS": ColCombatScore,
	"FK": ColFirstKills,
	"FD": ColFirstDeaths,
	"HS": ColHeadshot,
	"HS%": ColHeadshot,
	"ADR": ColDamage,
	"DDΔ": ColDamageDelta,
	"DD∆": ColDamageDelta,
	"DD": ColDamageDelta,
	"MK": ColMultiKills,
	"PL": ColPlants,
	"DF": ColDefuses,
	"K": ColKills,
	"D": ColDeaths,
	"A": ColAssists,
	"Rounds": ColRounds,
	"라운드": ColRounds,
}

var allColumns = []Column{
	ColMatchID, ColDate, ColMap, ColPlayer, ColAgent,
	ColCombatScore, ColFirstKills, ColFirstDeaths, ColHeadshot, ColDamage, ColDamageDelta,
	ColMultiKills, ColPlants, ColDefuses, ColKills, ColDeaths, ColAssists,
	ColOutcome, ColRounds,
}

// requiredColumns must be present or loading fails. The outcome column is
// checked first so its message matches the one users already know.
var requiredColumns = []Column{
	ColOutcome, ColMatchID, ColPlayer, ColMap, ColAgent, ColKills, ColDeaths, ColAssists,
}

func canonicalColumn(header string) (Column, bool) {
	if c, ok := headerAliases[header]; ok {
		return c, true
	}
	for _, c := range allColumns {
		if string(c) == header {
			return c, true
		}
	}
	return "", false
}
