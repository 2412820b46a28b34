package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/scrimstats/internal/dashboard"
	"github.com/pable/scrimstats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long: `Load the data file once and query it interactively. Type 'help' for the
available commands and 'reload' after editing the sheet.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// shell holds the loaded session and, once 'sql' is used, its database.
type shell struct {
	cmd  *cobra.Command
	out  io.Writer
	sess *dashboard.Session
	db   *storage.DB
}

func runShell(cmd *cobra.Command, _ []string) error {
	sh := &shell{cmd: cmd, out: os.Stdout}
	if err := sh.reload(); err != nil {
		return err
	}
	defer sh.closeDB()

	cGreeting.Println("scrimstats shell")
	cMuted.Printf("%s, %d rows (%s)\n", cfg.DataPath, len(sh.sess.Rows), sh.sess.Data.Variant)
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("scrimstats")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		quit, err := sh.exec(line)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// exec runs one shell line. It reports whether the session should end.
func (sh *shell) exec(line string) (bool, error) {
	tokens := strings.Fields(line)
	name, args := tokens[0], tokens[1:]

	need := func(n int, usage string) error {
		if len(args) < n {
			return fmt.Errorf("usage: %s", usage)
		}
		return nil
	}

	switch name {
	case "exit", "quit":
		return true, nil
	case "help":
		shellHelp(sh.out)
	case "reload":
		if err := sh.reload(); err != nil {
			return false, err
		}
		cMuted.Fprintf(sh.out, "reloaded %d rows\n", len(sh.sess.Rows))
	case "players":
		return false, renderView(sh.out, sh.sess, dashboard.Request{View: dashboard.ViewPlayers})
	case "teams":
		return false, renderView(sh.out, sh.sess, dashboard.Request{View: dashboard.ViewTeams})
	case "matches":
		printMatches(sh.out, sh.sess)
	case "map":
		if err := need(1, "map <map>"); err != nil {
			return false, err
		}
		return false, renderView(sh.out, sh.sess, dashboard.Request{View: dashboard.ViewMap, Map: args[0]})
	case "agents", "maps", "history":
		if err := need(1, name+" <player>"); err != nil {
			return false, err
		}
		views := map[string]dashboard.View{
			"agents":  dashboard.ViewAgents,
			"maps":    dashboard.ViewMaps,
			"history": dashboard.ViewHistory,
		}
		return false, renderView(sh.out, sh.sess, dashboard.Request{View: views[name], Player: args[0]})
	case "map-agents":
		if err := need(2, "map-agents <player> <map>"); err != nil {
			return false, err
		}
		return false, renderView(sh.out, sh.sess, dashboard.Request{View: dashboard.ViewMapAgents, Player: args[0], Map: args[1]})
	case "match":
		if err := need(1, "match <id>"); err != nil {
			return false, err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid match id %q", args[0])
		}
		return false, renderView(sh.out, sh.sess, dashboard.Request{View: dashboard.ViewMatch, Match: id})
	case "sql":
		query := strings.TrimSpace(strings.TrimPrefix(line, name))
		if query == "" {
			return false, fmt.Errorf("usage: sql <query>")
		}
		if sh.db == nil {
			db, err := loadDB(sh.sess)
			if err != nil {
				return false, err
			}
			sh.db = db
		}
		return false, printQuery(sh.out, sh.db, query)
	default:
		cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
	}
	return false, nil
}

// reload re-reads the data file with the filter flags the shell started with.
func (sh *shell) reload() error {
	sess, err := openSession(sh.cmd)
	if err != nil {
		return err
	}
	sh.sess = sess
	sh.closeDB()
	return nil
}

func (sh *shell) closeDB() {
	if sh.db != nil {
		sh.db.Close()
		sh.db = nil
	}
}

func shellHelp(w io.Writer) {
	fmt.Fprintln(w)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"players", "overall stats per player"},
		{"map <map>", "player stats on one map"},
		{"agents <player>", "one player's stats per agent"},
		{"matches", "list the matches"},
		{"match <id>", "every row of one match"},
		{"maps <player>", "one player's stats per map"},
		{"map-agents <player> <map>", "one player's agents on one map"},
		{"history <player>", "every match of one player"},
		{"teams", "team standings and head-to-head (scrim data)"},
		{"sql <query>", "query the records and players tables"},
		{"reload", "re-read the data file"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(w, "  ")
		cCmd.Fprintf(w, "%-30s", r.cmd)
		fmt.Fprintln(w, r.desc)
	}
	fmt.Fprintln(w)
}
