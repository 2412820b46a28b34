package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/scrimstats/internal/config"
	"github.com/pable/scrimstats/internal/dashboard"
	"github.com/pable/scrimstats/internal/dataset"
	"github.com/pable/scrimstats/internal/filter"
	"github.com/pable/scrimstats/internal/model"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	dataPath   string
	rosterPath string
	variant    string
	sheet      string

	tierFilter []string
	roleFilter []string
	mapFilter  []string
	teamFilter []string
)

var rootCmd = &cobra.Command{
	Use:   "scrimstats",
	Short: "Valorant event statistics dashboard",
	Long: `Load a per-match participation sheet (CSV or XLSX) and print player, map,
agent and team statistics, or serve them as a web dashboard.

Filters default to every tier, role, map and team except mercenaries (용병).
Pass a filter flag with an empty value to select nothing.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataPath, "data", "", "path to the data file (.csv or .xlsx); defaults to $DATA_PATH or data.csv")
	pf.StringVar(&rosterPath, "roster", "", "path to a roster JSON file replacing the built-in tables")
	pf.StringVar(&variant, "variant", "", "force the data variant: internal or scrim (default: detect)")
	pf.StringVar(&sheet, "sheet", "", "worksheet name for .xlsx input (default: first sheet)")

	pf.StringSliceVar(&tierFilter, "tier", nil, "tiers to include (A,B,C,D,E,용병)")
	pf.StringSliceVar(&roleFilter, "role", nil, "agent roles to include")
	pf.StringSliceVar(&mapFilter, "map-filter", nil, "maps to include")
	pf.StringSliceVar(&teamFilter, "team", nil, "teams to include (scrim data only)")

	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(mapAgentsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads the environment configuration, applies flag overrides and
// builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	if rosterPath != "" {
		cfg.RosterPath = rosterPath
	}
	if sheet != "" {
		cfg.Sheet = sheet
	}
	if variant != "" {
		v, ok := model.ParseVariant(variant)
		if !ok {
			return fmt.Errorf("invalid --variant %q: want internal or scrim", variant)
		}
		cfg.Variant = v
	}

	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

func source() dashboard.Source {
	return dashboard.Source{
		DataPath:   cfg.DataPath,
		RosterPath: cfg.RosterPath,
		Options:    dataset.Options{Variant: cfg.Variant, Sheet: cfg.Sheet},
		Logger:     logger.Sugar(),
	}
}

// flagFilter builds the sidebar filter from the filter flags. A flag that was
// not given keeps its default; a flag given with no values selects nothing.
func flagFilter(cmd *cobra.Command) filter.Filter {
	var f filter.Filter
	pick := func(name string, values []string) []string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		if values == nil {
			return []string{}
		}
		return values
	}
	f.Tiers = pick("tier", tierFilter)
	f.Roles = pick("role", roleFilter)
	f.Maps = pick("map-filter", mapFilter)
	f.Teams = pick("team", teamFilter)
	return f
}

func openSession(cmd *cobra.Command) (*dashboard.Session, error) {
	return source().Open(flagFilter(cmd))
}
