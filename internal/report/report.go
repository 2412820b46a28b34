package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/scrimstats/internal/dashboard"
	"github.com/pable/scrimstats/internal/model"
	"github.com/pable/scrimstats/internal/teams"
)

var (
	cHeading = color.New(color.FgCyan, color.Bold)
	cMuted   = color.New(color.Faint)
	cWin     = color.New(color.FgGreen)
	cLoss    = color.New(color.FgRed)
)

// None is printed for missing values.
const None = "—"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// Dec2 formats a value with two decimals; missing values print as a dash.
func Dec2(v float64) string {
	if model.IsMissing(v) {
		return None
	}
	return fmt.Sprintf("%.2f", v)
}

// Dec1 formats a value with one decimal.
func Dec1(v float64) string {
	if model.IsMissing(v) {
		return None
	}
	return fmt.Sprintf("%.1f", v)
}

// Percent formats a fraction in [0, 1] as a percentage.
func Percent(v float64) string {
	if model.IsMissing(v) {
		return None
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func outcome(r *model.Record) string {
	switch r.Outcome {
	case model.OutcomeWin:
		return cWin.Sprint("v")
	case model.OutcomeLoss:
		return cLoss.Sprint("l")
	default:
		return r.RawOutcome
	}
}

// PrintHeading prints a coloured section title.
func PrintHeading(w io.Writer, title string) {
	cHeading.Fprintf(w, "\n%s\n\n", title)
}

// StatColumns returns the header of a grouped stat table. keyHeader names the
// first column (스트리머, 맵 or 사용한 요원). The first-deaths, multi-kill,
// plant and defuse columns only exist in scrim data.
func StatColumns(keyHeader string, scrim bool) []string {
	cols := []string{keyHeader, "경기 수", "승률", "KD", "KDA", "전투 점수", "첫 킬"}
	if scrim {
		cols = append(cols, "첫 데스")
	}
	cols = append(cols, "피해량", "피해량 격차", "헤드샷%")
	if scrim {
		cols = append(cols, "멀티킬", "설치", "해체")
	}
	return append(cols, "킬", "데스", "어시스트")
}

// StatCells formats one stat line in StatColumns order.
func StatCells(s *model.StatLine, scrim bool) []string {
	cells := []string{
		s.Label,
		strconv.Itoa(s.Matches),
		Percent(s.WinRate()),
		Dec2(s.KDRatio()),
		Dec2(s.KDARatio()),
		Dec2(s.CombatScore),
		Dec1(s.FirstKills),
	}
	if scrim {
		cells = append(cells, Dec1(s.FirstDeaths))
	}
	cells = append(cells, Dec2(s.Damage), Dec2(s.DamageDelta), Dec1(s.Headshot))
	if scrim {
		cells = append(cells, Dec1(s.MultiKills), Dec1(s.Plants), Dec1(s.Defuses))
	}
	return append(cells, Dec1(s.KillsPerMatch()), Dec1(s.DeathsPerMatch()), Dec1(s.AssistsPerMatch()))
}

// RowColumns returns the header of a raw row table. The outcome is the last column.
func RowColumns(scrim bool) []string {
	cols := []string{"경기 번호", "날짜", "스트리머 이름"}
	if scrim {
		cols = append(cols, "팀")
	}
	cols = append(cols, "맵", "사용한 요원", "전투 점수", "KD", "KDA", "피해량", "피해량 격차", "헤드샷%", "첫 킬")
	if scrim {
		cols = append(cols, "첫 데스", "멀티킬", "설치", "해체")
	}
	return append(cols, "킬", "데스", "어시스트", "승패")
}

// RowCells formats one participation row in RowColumns order.
func RowCells(r *model.Record, scrim bool) []string {
	cells := []string{strconv.Itoa(r.MatchID), r.Date, r.Player}
	if scrim {
		cells = append(cells, r.Team)
	}
	cells = append(cells, r.Map, r.Agent,
		Dec2(r.CombatScore), Dec2(r.KDRatio()), Dec2(r.KDARatio()),
		Dec2(r.Damage), Dec2(r.DamageDelta), Dec1(r.Headshot), Dec1(r.FirstKills))
	if scrim {
		cells = append(cells, Dec1(r.FirstDeaths), Dec1(r.MultiKills), Dec1(r.Plants), Dec1(r.Defuses))
	}
	return append(cells, Dec1(r.Kills), Dec1(r.Deaths), Dec1(r.Assists), r.RawOutcome)
}

func anys(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// PrintStatTable prints grouped stat lines in the column order of the dashboard.
func PrintStatTable(w io.Writer, keyHeader string, lines []model.StatLine, scrim bool) {
	table := newTable(w)
	table.Header(anys(StatColumns(keyHeader, scrim))...)
	for i := range lines {
		table.Append(anys(StatCells(&lines[i], scrim))...)
	}
	table.Render()
}

// PrintRowTable prints raw participation rows with per-row KD/KDA and a
// coloured outcome column.
func PrintRowTable(w io.Writer, rows []model.Record, scrim bool) {
	table := newTable(w)
	table.Header(anys(RowColumns(scrim))...)
	for i := range rows {
		cells := anys(RowCells(&rows[i], scrim))
		cells[len(cells)-1] = outcome(&rows[i])
		table.Append(cells...)
	}
	table.Render()
}

// PrintStandings prints the team win-rate table.
func PrintStandings(w io.Writer, standings []model.TeamStanding) {
	table := newTable(w)
	table.Header("팀명", "경기 수", "승", "패", "승률")
	for _, s := range standings {
		table.Append(
			s.Team,
			strconv.Itoa(s.Played),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			fmt.Sprintf("%.2f%%", s.WinRate),
		)
	}
	table.Render()
}

// PrintHeadToHead prints the head-to-head matrix, rows against columns.
func PrintHeadToHead(w io.Writer, m teams.Matrix, note string) {
	table := newTable(w)
	header := []any{""}
	for _, t := range m.Teams {
		header = append(header, t)
	}
	table.Header(header...)
	for _, rowTeam := range m.Teams {
		row := []any{rowTeam}
		for _, colTeam := range m.Teams {
			row = append(row, m.Cell(rowTeam, colTeam))
		}
		table.Append(row...)
	}
	table.Render()
	if note != "" {
		cMuted.Fprintln(w, note)
	}
}

// PrintGames prints the recent results, one titled table per game.
func PrintGames(w io.Writer, games []teams.Game) {
	for _, g := range games {
		PrintHeading(w, g.Title())
		PrintRowTable(w, g.Rows, true)
	}
}

// PrintMatchOptions lists the match picker labels.
func PrintMatchOptions(w io.Writer, opts []model.MatchOption) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("경기 번호", "날짜", "맵", "스트리머")
	for _, o := range opts {
		table.Append(strconv.Itoa(o.MatchID), o.Date, o.Map, strings.Join(o.Players, ", "))
	}
	table.Render()
}

// PrintTeamReport prints the three sections of the teams view.
func PrintTeamReport(w io.Writer, rep *dashboard.TeamReport) {
	PrintHeading(w, "팀별 승률")
	PrintStandings(w, rep.Standings)
	PrintHeading(w, "팀별 상대 전적")
	PrintHeadToHead(w, rep.Matrix, rep.Note)
	PrintHeading(w, "전적 상세")
	PrintGames(w, rep.Games)
}

// KeyHeader names the first column of a grouped view.
func KeyHeader(v dashboard.View) string {
	switch v {
	case dashboard.ViewPlayers, dashboard.ViewMap:
		return "스트리머"
	case dashboard.ViewMaps:
		return "맵"
	default:
		return "사용한 요원"
	}
}

// PrintPage prints a rendered dashboard page.
func PrintPage(w io.Writer, p *dashboard.Page, scrim bool) {
	title := p.Title
	switch {
	case p.Player != "" && p.Map != "":
		title = fmt.Sprintf("%s · %s / %s", title, p.Player, p.Map)
	case p.Player != "":
		title = fmt.Sprintf("%s · %s", title, p.Player)
	case p.Map != "":
		title = fmt.Sprintf("%s · %s", title, p.Map)
	case p.View == dashboard.ViewMatch:
		title = fmt.Sprintf("%s · %s", title, p.Match.Label)
	}
	PrintHeading(w, title)

	switch p.Kind() {
	case "teams":
		PrintTeamReport(w, p.Teams)
	case "rows":
		PrintRowTable(w, p.Rows, scrim)
	default:
		PrintStatTable(w, KeyHeader(p.View), p.Stats, scrim)
	}
}
