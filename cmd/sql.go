package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/scrimstats/internal/dashboard"
	"github.com/pable/scrimstats/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the filtered data",
	Long: `Load the filtered rows into an in-memory SQLite database and print the
query results as a table. Nothing is written to disk.

Schema overview:
  records(sheet_row, match_id, match_date, map_name, player, agent, role, tier, team,
    combat_score, first_kills, first_deaths, headshot_pct, damage, damage_delta,
    multi_kills, plants, defuses, kills, deaths, assists, rounds, outcome, win)
  players(name, tier, team)

Missing numbers are NULL. win is 1 for 'v', 0 for 'l' and NULL otherwise.
Example: scrimstats sql "SELECT player, AVG(combat_score) FROM records GROUP BY player"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	db, err := loadDB(sess)
	if err != nil {
		return err
	}
	defer db.Close()
	return printQuery(os.Stdout, db, strings.Join(args, " "))
}

// loadDB copies the filtered rows of sess into a fresh in-memory database.
func loadDB(sess *dashboard.Session) (*storage.DB, error) {
	db, err := storage.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.InsertRecords(sess.Rows, sess.Roster); err != nil {
		db.Close()
		return nil, fmt.Errorf("load records: %w", err)
	}
	if err := db.InsertPlayers(sess.Data.Players(), sess.Roster); err != nil {
		db.Close()
		return nil, fmt.Errorf("load players: %w", err)
	}
	return db, nil
}

func printQuery(w io.Writer, db *storage.DB, query string) error {
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return nil
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
	return nil
}
