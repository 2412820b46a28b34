package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/pable/scrimstats/internal/dashboard"
	"github.com/pable/scrimstats/internal/model"
	"github.com/pable/scrimstats/internal/report"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Overall stats per player",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, dashboard.Request{View: dashboard.ViewPlayers})
	},
}

var mapCmd = &cobra.Command{
	Use:   "map <map>",
	Short: "Player stats on one map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, dashboard.Request{View: dashboard.ViewMap, Map: args[0]})
	},
}

var agentsCmd = &cobra.Command{
	Use:   "agents <player>",
	Short: "One player's stats per agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, dashboard.Request{View: dashboard.ViewAgents, Player: args[0]})
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the matches of the filtered data",
	Args:  cobra.NoArgs,
	RunE:  runMatches,
}

var matchCmd = &cobra.Command{
	Use:   "match <id>",
	Short: "Every row of one match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid match id %q: %w", args[0], err)
		}
		return runView(cmd, dashboard.Request{View: dashboard.ViewMatch, Match: id})
	},
}

var mapsCmd = &cobra.Command{
	Use:   "maps <player>",
	Short: "One player's stats per map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, dashboard.Request{View: dashboard.ViewMaps, Player: args[0]})
	},
}

var mapAgentsCmd = &cobra.Command{
	Use:   "map-agents <player> <map>",
	Short: "One player's agent stats on one map",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, dashboard.Request{View: dashboard.ViewMapAgents, Player: args[0], Map: args[1]})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <player>",
	Short: "Every match of one player, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, dashboard.Request{View: dashboard.ViewHistory, Player: args[0]})
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Team standings, head-to-head and recent results (scrim data)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, dashboard.Request{View: dashboard.ViewTeams})
	},
}

// runView renders one dashboard view to stdout.
func runView(cmd *cobra.Command, req dashboard.Request) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	return renderView(os.Stdout, sess, req)
}

// renderView prints one view of sess. Unlike the web pickers, a player, map
// or match that is not in the filtered data is an error.
func renderView(w io.Writer, sess *dashboard.Session, req dashboard.Request) error {
	// Cells are stored NFC; terminals may hand over decomposed Hangul.
	req.Player = norm.NFC.String(req.Player)
	req.Map = norm.NFC.String(req.Map)

	page, err := sess.Render(req)
	if errors.Is(err, dashboard.ErrNoData) {
		fmt.Fprintln(w, noRows)
		return nil
	}
	if err != nil {
		return err
	}

	switch {
	case req.Player != "" && page.Player != req.Player:
		return fmt.Errorf("player %q not found; available: %v", req.Player, page.PlayerOptions)
	case req.Map != "" && page.Map != req.Map:
		return fmt.Errorf("map %q not found; available: %v", req.Map, page.MapOptions)
	case req.View == dashboard.ViewMatch && page.Match.MatchID != req.Match:
		return fmt.Errorf("match %d not found; list them with 'matches'", req.Match)
	}

	report.PrintPage(w, page, sess.Data.Variant == model.VariantScrim)
	return nil
}

const noRows = "No rows match the current filters."

func runMatches(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	printMatches(os.Stdout, sess)
	return nil
}

func printMatches(w io.Writer, sess *dashboard.Session) {
	opts := sess.Matches()
	if len(opts) == 0 {
		fmt.Fprintln(w, noRows)
		return
	}
	report.PrintHeading(w, dashboard.ViewMatch.Title())
	report.PrintMatchOptions(w, opts)
	fmt.Fprintf(w, "\n(%d matches)\n", len(opts))
}
