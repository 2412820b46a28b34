package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/pable/scrimstats/internal/dashboard"
	"github.com/pable/scrimstats/internal/model"
	"github.com/pable/scrimstats/internal/teams"
)

func init() {
	color.NoColor = true
}

func line(key string, acs float64) model.StatLine {
	return model.StatLine{
		Key: key, Label: "[A] " + key, Matches: 2,
		Kills: 20, Deaths: 10, Assists: 6, Wins: 1, Decided: 2,
		CombatScore: acs, FirstKills: 1.5, FirstDeaths: model.Missing,
		Damage: 140, DamageDelta: 12.345, Headshot: 22,
		MultiKills: model.Missing, Plants: model.Missing, Defuses: model.Missing,
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{Dec2(1.005), "1.00"},
		{Dec2(12.3456), "12.35"},
		{Dec1(7), "7.0"},
		{Percent(0.5), "50.00%"},
		{Dec2(model.Missing), None},
		{Percent(model.Missing), None},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("want %q, got %q", tt.want, tt.got)
		}
	}
}

func TestPrintStatTable(t *testing.T) {
	var buf bytes.Buffer
	PrintStatTable(&buf, "스트리머", []model.StatLine{line("뱅", 210.5)}, false)
	out := buf.String()
	for _, want := range []string{"[A] 뱅", "210.50", "50.00%", "2.00", "2.60", "10.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "멀티킬") {
		t.Error("internal tables must not show scrim-only columns")
	}

	buf.Reset()
	PrintStatTable(&buf, "스트리머", []model.StatLine{line("뱅", 210.5)}, true)
	if !strings.Contains(buf.String(), "멀티킬") || !strings.Contains(buf.String(), None) {
		t.Errorf("scrim table should show scrim columns with dashes:\n%s", buf.String())
	}
}

func TestPrintRowTable(t *testing.T) {
	rows := []model.Record{{
		MatchID: 3, Date: "2025-04-01", Player: "뱅", Team: "모운", Map: "바인드", Agent: "오멘",
		CombatScore: 180, Kills: 12, Deaths: 0, Assists: 8,
		FirstKills: 1, FirstDeaths: 2, Headshot: 20, Damage: 120, DamageDelta: -10,
		MultiKills: 0, Plants: 0, Defuses: 1,
		Outcome: model.OutcomeWin, RawOutcome: "v",
	}}
	var buf bytes.Buffer
	PrintRowTable(&buf, rows, true)
	out := buf.String()
	// zero deaths: KD falls back to kills, KDA to kills+assists
	for _, want := range []string{"모운", "12.00", "20.00", "v"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintTeamReport(t *testing.T) {
	m := teams.Matrix{
		Teams: []string{"모운", "파인"},
		Cells: map[string]map[string]model.H2HRecord{
			"모운": {"파인": {Wins: 1, Losses: 3}},
			"파인": {"모운": {Wins: 3, Losses: 1}},
		},
	}
	rep := &dashboard.TeamReport{
		Standings: []model.TeamStanding{{Team: "파인", Played: 4, Wins: 3, Losses: 1, WinRate: 75}},
		Matrix:    m,
		Note:      "*note*",
		Games:     []teams.Game{{MatchID: 2, Home: "모운", Away: "파인", HomeRounds: 11, AwayRounds: 13}},
	}
	var buf bytes.Buffer
	PrintTeamReport(&buf, rep)
	out := buf.String()
	for _, want := range []string{"75.00%", "3승 1패", teams.Diagonal, "*note*", "경기 2: 모운 vs 파인 (11 : 13)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintMatchOptions(t *testing.T) {
	var buf bytes.Buffer
	PrintMatchOptions(&buf, []model.MatchOption{{MatchID: 1, Date: "2025-04-01", Map: "바인드", Players: []string{"강지형", "뱅"}}})
	if !strings.Contains(buf.String(), "강지형, 뱅") {
		t.Errorf("players should be joined:\n%s", buf.String())
	}
}

func TestCellsMatchColumns(t *testing.T) {
	s := line("뱅", 200)
	r := model.Record{Outcome: model.OutcomeLoss, RawOutcome: "l"}
	for _, scrim := range []bool{false, true} {
		if got, want := len(StatCells(&s, scrim)), len(StatColumns("스트리머", scrim)); got != want {
			t.Errorf("scrim=%v: %d stat cells for %d columns", scrim, got, want)
		}
		cells := RowCells(&r, scrim)
		if got, want := len(cells), len(RowColumns(scrim)); got != want {
			t.Errorf("scrim=%v: %d row cells for %d columns", scrim, got, want)
		}
		if cells[len(cells)-1] != "l" {
			t.Errorf("outcome should be the last cell, got %q", cells[len(cells)-1])
		}
	}
}
