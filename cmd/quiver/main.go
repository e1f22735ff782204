// Package main provides the CLI entrypoint for quiver.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/quiver/internal/config"
	"github.com/verte-zerg/quiver/internal/model"
	"github.com/verte-zerg/quiver/internal/practice"
	"github.com/verte-zerg/quiver/internal/session"
	"github.com/verte-zerg/quiver/internal/statsui"
	"github.com/verte-zerg/quiver/internal/store"
	"github.com/verte-zerg/quiver/internal/target"
	"github.com/verte-zerg/quiver/internal/tui"
)

const (
	defaultUser        = "default"
	defaultCurveWindow = 10
)

var (
	profileUser string
	profileDB   string

	practiceEnds         int
	practiceShots        int
	practiceRings        int
	practiceTargetRadius float64
	practiceRecordMisses bool
	practiceAutoAdvance  bool

	statsSince       string
	statsLast        int
	statsCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quiver",
		Short:         "Archery practice tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&profileUser, "user", defaultUser, "archer whose rounds are recorded and shown")
	rootCmd.PersistentFlags().StringVar(&profileDB, "db", "", "database path (default: $XDG_DATA_HOME/quiver/quiver.db)")

	addPracticeFlags(rootCmd)

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newNotesCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newSimulateCmd())

	return rootCmd
}

func addPracticeFlags(cmd *cobra.Command) {
	def := session.DefaultConfig()
	cmd.Flags().IntVar(&practiceEnds, "ends", def.EndsPerRound, "ends per round")
	cmd.Flags().IntVar(&practiceShots, "shots", def.ShotsPerEnd, "arrows per end")
	cmd.Flags().IntVar(&practiceRings, "rings", def.Rings, "scoring rings on the face (1-10)")
	cmd.Flags().Float64Var(&practiceTargetRadius, "target-radius", def.TargetRadius, "face radius in cm")
	cmd.Flags().BoolVar(&practiceRecordMisses, "record-misses", def.RecordMisses, "record clicks off the face as misses")
	cmd.Flags().BoolVar(&practiceAutoAdvance, "auto-advance", def.AutoAdvance, "jump to the next open end when one fills")
}

// profile is the resolved user, database and config file for one invocation.
type profile struct {
	user   string
	dbPath string
	file   config.FileConfig
}

func loadProfile(cmd *cobra.Command) (profile, error) {
	envCfg, err := config.LoadEnv()
	if err != nil {
		return profile{}, err
	}
	fileCfg, err := config.LoadConfig(envCfg.ConfigPath())
	if err != nil {
		return profile{}, fmt.Errorf("failed to load config: %w", err)
	}
	return profile{
		user:   resolveUser(cmd.Flags().Changed("user"), profileUser, envCfg, fileCfg),
		dbPath: resolveDBPath(cmd.Flags().Changed("db"), profileDB, envCfg),
		file:   fileCfg,
	}, nil
}

func resolveUser(flagSet bool, flagValue string, envCfg config.Env, fileCfg config.FileConfig) string {
	if v := strings.TrimSpace(flagValue); flagSet && v != "" {
		return v
	}
	if v := strings.TrimSpace(envCfg.User); v != "" {
		return v
	}
	if fileCfg.Profile.User != nil {
		if v := strings.TrimSpace(*fileCfg.Profile.User); v != "" {
			return v
		}
	}
	return defaultUser
}

func resolveDBPath(flagSet bool, flagValue string, envCfg config.Env) string {
	if v := strings.TrimSpace(flagValue); flagSet && v != "" {
		return v
	}
	return envCfg.DatabasePath()
}

// openRecorder opens the store for p and loads the user's rounds. The
// returned close function must be called when done.
func openRecorder(ctx context.Context, p profile, cfg model.Config) (*practice.Recorder, func(), error) {
	st, err := store.Open(p.dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeStore := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	rec := practice.NewRecorder(st, p.user, cfg)
	if err := rec.Load(ctx); err != nil {
		closeStore()
		return nil, nil, err
	}
	return rec, closeStore, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	cfg := practiceConfig(cmd, p.file)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	rec, closeStore, err := openRecorder(context.Background(), p, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	program := tea.NewProgram(tui.NewModel(rec), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func practiceConfig(cmd *cobra.Command, fileCfg config.FileConfig) model.Config {
	applyIntConfig(cmd, "ends", &practiceEnds, fileCfg.Practice.Ends)
	applyIntConfig(cmd, "shots", &practiceShots, fileCfg.Practice.Shots)
	applyIntConfig(cmd, "rings", &practiceRings, fileCfg.Practice.Rings)
	applyFloatConfig(cmd, "target-radius", &practiceTargetRadius, fileCfg.Practice.TargetRadius)
	applyBoolConfig(cmd, "record-misses", &practiceRecordMisses, fileCfg.Practice.RecordMisses)
	applyBoolConfig(cmd, "auto-advance", &practiceAutoAdvance, fileCfg.Practice.AutoAdvance)

	return model.Config{
		EndsPerRound: practiceEnds,
		ShotsPerEnd:  practiceShots,
		Rings:        practiceRings,
		TargetRadius: practiceTargetRadius,
		RecordMisses: practiceRecordMisses,
		AutoAdvance:  practiceAutoAdvance,
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	envCfg, err := config.LoadEnv()
	if err != nil {
		return err
	}
	path := envCfg.ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	parts := editorCommand(os.Getenv("EDITOR"))
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func editorCommand(editor string) []string {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return []string{"vi"}
	}
	return parts
}

func defaultConfigTemplate() string {
	def := session.DefaultConfig()
	return config.Template(config.Defaults{
		Ends:         def.EndsPerRound,
		Shots:        def.ShotsPerEnd,
		Rings:        def.Rings,
		TargetRadius: def.TargetRadius,
		CurveWindow:  defaultCurveWindow,
		User:         defaultUser,
	})
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addStatsFlags(cmd)
	return cmd
}

func addStatsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N rounds")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
}

func statsConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.StatsConfig, error) {
	applyIntConfig(cmd, "last", &statsLast, fileCfg.Stats.Last)
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	return model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}, nil
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	cfg, err := statsConfig(cmd, p.file)
	if err != nil {
		return err
	}

	rec, closeStore, err := openRecorder(context.Background(), p, session.DefaultConfig())
	if err != nil {
		return err
	}
	defer closeStore()

	program := tea.NewProgram(statsui.NewModel(rec, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) error {
	if cfg.EndsPerRound <= 0 {
		return fmt.Errorf("--ends must be > 0")
	}
	if cfg.ShotsPerEnd <= 0 {
		return fmt.Errorf("--shots must be > 0")
	}
	if cfg.Rings <= 0 || cfg.Rings > target.DefaultRings {
		return fmt.Errorf("--rings must be between 1 and %d", target.DefaultRings)
	}
	if cfg.TargetRadius <= 0 {
		return fmt.Errorf("--target-radius must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
