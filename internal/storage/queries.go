package storage

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pable/scrimstats/internal/model"
	"github.com/pable/scrimstats/internal/roster"
)

// InsertRecords bulk-inserts participation rows in a transaction, annotated
// with the roster tier, team and agent role. Missing numbers are stored as NULL.
func (db *DB) InsertRecords(records []model.Record, r *roster.Roster) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO records(
			sheet_row, match_id, match_date, map_name, player, agent, role, tier, team,
			combat_score, first_kills, first_deaths, headshot_pct, damage, damage_delta,
			multi_kills, plants, defuses, kills, deaths, assists, rounds,
			outcome, win
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		team := rec.Team
		if team == "" && r.HasTeams() {
			team = r.TeamOf(rec.Player)
		}
		_, err := stmt.Exec(
			rec.Row, rec.MatchID, rec.Date, rec.Map, rec.Player, rec.Agent,
			nullString(r.RoleOf(rec.Agent)), r.TierOf(rec.Player), nullString(team),
			nullFloat(rec.CombatScore), nullFloat(rec.FirstKills), nullFloat(rec.FirstDeaths),
			nullFloat(rec.Headshot), nullFloat(rec.Damage), nullFloat(rec.DamageDelta),
			nullFloat(rec.MultiKills), nullFloat(rec.Plants), nullFloat(rec.Defuses),
			nullFloat(rec.Kills), nullFloat(rec.Deaths), nullFloat(rec.Assists), nullFloat(rec.Rounds),
			nullString(rec.RawOutcome), nullFloat(rec.Won()),
		)
		if err != nil {
			return fmt.Errorf("insert row %d: %w", rec.Row, err)
		}
	}
	return tx.Commit()
}

// InsertPlayers stores the tier and team of every player seen in records,
// mercenaries included.
func (db *DB) InsertPlayers(players []string, r *roster.Roster) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO players(name, tier, team) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		var team sql.NullString
		if r.HasTeams() {
			team = nullString(r.TeamOf(p))
		}
		if _, err := stmt.Exec(p, r.TierOf(p), team); err != nil {
			return fmt.Errorf("insert player %s: %w", p, err)
		}
	}
	return tx.Commit()
}

// QueryRaw runs an arbitrary query and returns its column names and every row
// rendered as text. NULL renders as an empty string.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		line := make([]string, len(cols))
		for i, v := range vals {
			line[i] = formatValue(v)
		}
		out = append(out, line)
	}
	return cols, out, rows.Err()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(x)
	}
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !model.IsMissing(v)}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
