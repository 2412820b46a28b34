package dataset

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/pable/scrimstats/internal/model"
)

const internalCSV = `경기 번호,날짜,맵,닉네임,요원,ACS,FK,HS,ADR,DDΔ,킬,데스,어시스트,승패
1,2025-03-01,바인드,강지형,제트,250,3,25,160,40,20,10,5,v
1,2025-03-01,바인드,뱅,오멘,180,1,20,120,-10,12,14,8,l
2,2025-03-02,헤이븐,강지형,레이나,300,,30,180,60,25,0,3,v
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	ds, err := Load(writeFile(t, "data.csv", internalCSV), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Variant != model.VariantInternal {
		t.Errorf("variant: want internal, got %s", ds.Variant)
	}
	if len(ds.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(ds.Records))
	}

	r := ds.Records[0]
	if r.MatchID != 1 || r.Player != "강지형" || r.Agent != "제트" || r.Map != "바인드" {
		t.Errorf("unexpected first record: %+v", r)
	}
	if r.CombatScore != 250 || r.Kills != 20 || r.Deaths != 10 || r.Assists != 5 {
		t.Errorf("numeric fields mismatch: %+v", r)
	}
	if r.Outcome != model.OutcomeWin {
		t.Errorf("outcome: want v, got %q", r.Outcome)
	}
	if r.Row != 2 {
		t.Errorf("row: want 2, got %d", r.Row)
	}
	if !model.IsMissing(ds.Records[2].FirstKills) {
		t.Errorf("empty FK cell should be missing, got %v", ds.Records[2].FirstKills)
	}
	// FD/MK/PL/DF are absent from the internal sheet.
	if !model.IsMissing(r.FirstDeaths) || ds.Has(ColFirstDeaths) {
		t.Error("first deaths should be missing for the internal sheet")
	}
}

func TestMissingOutcomeColumn(t *testing.T) {
	body := "경기 번호,맵,닉네임,요원,킬,데스,어시스트\n1,바인드,뱅,오멘,1,1,1\n"
	_, err := Load(writeFile(t, "data.csv", body), Options{})
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	var mce *MissingColumnError
	if !errors.As(err, &mce) || mce.Column != ColOutcome {
		t.Fatalf("expected missing 승패, got %v", err)
	}
	if !strings.Contains(err.Error(), "'승패' 컬럼이 누락되었습니다") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestMissingOtherRequiredColumn(t *testing.T) {
	body := "경기 번호,맵,닉네임,킬,데스,어시스트,승패\n1,바인드,뱅,1,1,1,v\n"
	_, err := FromRows(mustCSV(t, body), Options{})
	var mce *MissingColumnError
	if !errors.As(err, &mce) || mce.Column != ColAgent {
		t.Fatalf("expected missing agent column, got %v", err)
	}
}

func TestHeaderNormalisation(t *testing.T) {
	// BOM, padded headers, renamed display headers and a decomposed (NFD) nickname.
	nfd := norm.NFD.String("강지형")
	body := "\ufeff 경기 번호 , 날짜 ,맵,스트리머 이름,사용한 요원,전투 점수,헤드샷%,킬,데스,어시스트, 승패 \n" +
		"3,2025-03-03,로터스," + nfd + ",제트,210,22%,15,10,4, l \n"
	ds, err := FromRows(mustCSV(t, body), Options{})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	r := ds.Records[0]
	if r.Player != "강지형" {
		t.Errorf("player should be NFC-composed, got %q", r.Player)
	}
	if r.Headshot != 22 {
		t.Errorf("headshot: want 22, got %v", r.Headshot)
	}
	if r.Outcome != model.OutcomeLoss {
		t.Errorf("outcome: want l, got %q", r.Outcome)
	}
}

func TestSkipsMalformedRows(t *testing.T) {
	body := "경기 번호,맵,닉네임,요원,킬,데스,어시스트,승패\n" +
		"1,바인드,뱅,오멘,1,1,1,v\n" +
		",,,,,,,\n" +
		"abc,바인드,뱅,오멘,1,1,1,v\n" +
		"4.0,바인드,뱅,오멘,1,1,1,draw\n"
	ds, err := FromRows(mustCSV(t, body), Options{})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(ds.Records))
	}
	if len(ds.Skipped) != 1 || ds.Skipped[0].Row != 4 {
		t.Fatalf("expected row 4 skipped, got %+v", ds.Skipped)
	}
	last := ds.Records[1]
	if last.MatchID != 4 {
		t.Errorf("float match id should parse as 4, got %d", last.MatchID)
	}
	if last.Outcome.Known() || last.RawOutcome != "draw" {
		t.Errorf("unknown outcome literal should be kept raw: %+v", last)
	}
}

func TestVariantDetection(t *testing.T) {
	body := "경기 번호,맵,닉네임,요원,FD,MK,PL,DF,킬,데스,어시스트,승패,rounds\n" +
		"1,바인드,뱅,오멘,2,1,3,0,10,10,2,v,13\n"
	ds, err := FromRows(mustCSV(t, body), Options{})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if ds.Variant != model.VariantScrim {
		t.Errorf("variant: want scrim, got %s", ds.Variant)
	}
	r := ds.Records[0]
	if r.FirstDeaths != 2 || r.MultiKills != 1 || r.Plants != 3 || r.Defuses != 0 || r.Rounds != 13 {
		t.Errorf("scrim counters mismatch: %+v", r)
	}

	forced, err := FromRows(mustCSV(t, body), Options{Variant: model.VariantInternal})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if forced.Variant != model.VariantInternal {
		t.Errorf("forced variant ignored: %s", forced.Variant)
	}
}

func writeSheet(t *testing.T, wb *excelize.File, sheet string, rows [][]interface{}) {
	t.Helper()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
}

var xlsxHeader = []interface{}{"경기 번호", "맵", "닉네임", "요원", "ACS", "킬", "데스", "어시스트", "승패"}

func TestLoadXLSX(t *testing.T) {
	wb := excelize.NewFile()
	defer wb.Close()
	writeSheet(t, wb, "Sheet1", [][]interface{}{
		xlsxHeader,
		{1, "어센트", "푸린", "세이지", 199.5, 14, 12, 7, "v"},
	})
	path := filepath.Join(t.TempDir(), "data.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	ds, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(ds.Records))
	}
	r := ds.Records[0]
	if r.Player != "푸린" || r.CombatScore != 199.5 || r.Kills != 14 {
		t.Errorf("unexpected record: %+v", r)
	}
}

func TestLoadXLSX_Sheet(t *testing.T) {
	wb := excelize.NewFile()
	defer wb.Close()
	writeSheet(t, wb, "Sheet1", [][]interface{}{
		xlsxHeader,
		{1, "어센트", "푸린", "세이지", 199.5, 14, 12, 7, "v"},
	})
	wb.NewSheet("스크림")
	writeSheet(t, wb, "스크림", [][]interface{}{
		xlsxHeader,
		{7, "로터스", "뱅", "오멘", 180, 11, 9, 6, "l"},
		{7, "로터스", "눈꽃", "소바", 210, 15, 10, 4, "l"},
	})
	path := filepath.Join(t.TempDir(), "data.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	tests := []struct {
		name    string
		sheet   string
		players []string
		wantErr error
	}{
		{"first sheet by default", "", []string{"푸린"}, nil},
		{"named sheet", "스크림", []string{"뱅", "눈꽃"}, nil},
		{"unknown sheet", "없음", nil, ErrSheetNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Load(path, Options{Sheet: tt.sheet})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			got := ds.Players()
			if strings.Join(got, ",") != strings.Join(tt.players, ",") {
				t.Errorf("players: want %v, got %v", tt.players, got)
			}
		})
	}
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := Load(writeFile(t, "data.json", "{}"), Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		miss bool
	}{
		{"12", 12, false},
		{"12.5", 12.5, false},
		{"1,234", 1234, false},
		{"23%", 23, false},
		{"-7", -7, false},
		{"", 0, true},
		{"n/a", 0, true},
	}
	for _, tt := range tests {
		got := parseNumber(tt.in)
		if tt.miss {
			if !model.IsMissing(got) {
				t.Errorf("parseNumber(%q): want missing, got %v", tt.in, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("parseNumber(%q): want %v, got %v", tt.in, tt.want, got)
		}
	}
}

func mustCSV(t *testing.T, body string) [][]string {
	t.Helper()
	cr := csv.NewReader(strings.NewReader(body))
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return rows
}
