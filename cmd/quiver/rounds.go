package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/quiver/internal/generator"
	"github.com/verte-zerg/quiver/internal/model"
	"github.com/verte-zerg/quiver/internal/session"
	"github.com/verte-zerg/quiver/internal/stats"
	"github.com/verte-zerg/quiver/internal/store"
)

const (
	formatCSV  = "csv"
	formatJSON = "json"

	defaultSimRounds  = 20
	defaultSimSpread  = 0.3
	defaultSimImprove = 0.005
	defaultSimFlyers  = 0.05
	shotPlotWidth     = 24
	shotPlotHeight    = 6
)

var (
	reportRound string

	exportFormat string
	exportOutput string

	importNewIDs bool

	simRounds  int
	simSpread  float64
	simImprove float64
	simFlyers  float64
	simSeed    int64
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print stats as plain text",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	addStatsFlags(cmd)
	cmd.Flags().StringVar(&reportRound, "round", "", "print the ends and shot plot of one round")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	cfg, err := statsConfig(cmd, p.file)
	if err != nil {
		return err
	}
	st, err := store.Open(p.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	if reportRound != "" {
		rounds, err := st.LoadRounds(context.Background(), p.user)
		if err != nil {
			return fmt.Errorf("failed to load rounds: %w", err)
		}
		r, ok := findRound(rounds, reportRound)
		if !ok {
			return fmt.Errorf("round %s not found", reportRound)
		}
		return writeRoundDetail(out, r)
	}

	report, err := stats.BuildReport(context.Background(), st, p.user, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if len(report.Rounds) == 0 {
		logErrln("No rounds recorded yet. Start one with: quiver")
		return nil
	}
	if err := stats.RenderSummary(out, report.Rounds); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if err := stats.RenderRoundTable(out, report.Summaries); err != nil {
		return fmt.Errorf("failed to write round table: %w", err)
	}
	if err := stats.RenderCurves(out, report.Rounds, cfg.CurveWindow); err != nil {
		return fmt.Errorf("failed to write curves: %w", err)
	}
	return nil
}

func findRound(rounds []model.Round, arg string) (model.Round, bool) {
	id, err := resolveRoundID(rounds, arg)
	if err != nil {
		return model.Round{}, false
	}
	for _, r := range rounds {
		if r.ID == id {
			return r, true
		}
	}
	return model.Round{}, false
}

func writeRoundDetail(w io.Writer, r model.Round) error {
	if _, err := fmt.Fprintf(w, "Round %s  %s  total %d\n", r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.TotalScore); err != nil {
		return err
	}
	if r.Notes != "" {
		if _, err := fmt.Fprintf(w, "Notes: %s\n", r.Notes); err != nil {
			return err
		}
	}
	if err := stats.RenderEndTable(w, r); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return stats.RenderShotPlot(w, r, shotPlotWidth, shotPlotHeight)
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export rounds as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", formatCSV, "output format (csv or json)")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	write, err := exportWriter(exportFormat)
	if err != nil {
		return err
	}
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	rec, closeStore, err := openRecorder(context.Background(), p, session.DefaultConfig())
	if err != nil {
		return err
	}
	defer closeStore()

	rounds := rec.Rounds()
	emit := func(w io.Writer) error { return write(w, p.user, rounds) }
	if exportOutput == "" || exportOutput == "-" {
		return emit(cmd.OutOrStdout())
	}
	if err := writeFileAtomic(exportOutput, emit); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	logErrf("Wrote %d rounds to %s\n", len(rounds), exportOutput)
	return nil
}

type exportFunc func(w io.Writer, user string, rounds []model.Round) error

func exportWriter(format string) (exportFunc, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case formatCSV:
		return func(w io.Writer, _ string, rounds []model.Round) error {
			return stats.WriteCSV(w, stats.Summaries(rounds))
		}, nil
	case formatJSON:
		return func(w io.Writer, user string, rounds []model.Round) error {
			return stats.WriteJSON(w, user, time.Now().UTC(), rounds)
		}, nil
	default:
		return nil, fmt.Errorf("unknown --format %q (want csv or json)", format)
	}
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".quiver-export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := write(writer); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import rounds from a JSON export (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().BoolVar(&importNewIDs, "new-ids", false, "assign fresh round ids (needed to copy rounds to another user)")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	rounds, err := readArchive(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}
	if len(rounds) == 0 {
		logErrln("Nothing to import")
		return nil
	}
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	rec, closeStore, err := openRecorder(context.Background(), p, session.DefaultConfig())
	if err != nil {
		return err
	}
	defer closeStore()

	if importNewIDs {
		for i := range rounds {
			rounds[i].ID = ""
		}
	}
	imported, err := rec.Import(context.Background(), rounds)
	if err != nil {
		return err
	}
	logErrf("Imported %d rounds for %s\n", len(imported), p.user)
	return nil
}

func readArchive(stdin io.Reader, path string) ([]model.Round, error) {
	if path == "-" {
		return stats.ReadJSON(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close %s: %v\n", path, cerr)
		}
	}()
	return stats.ReadJSON(bufio.NewReader(f))
}

func newNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes ID TEXT...",
		Short: "Set the notes of a saved round",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runNotesCmd,
	}
}

func runNotesCmd(cmd *cobra.Command, args []string) error {
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	rec, closeStore, err := openRecorder(context.Background(), p, session.DefaultConfig())
	if err != nil {
		return err
	}
	defer closeStore()

	id, err := resolveRoundID(rec.Rounds(), args[0])
	if err != nil {
		return err
	}
	notes := strings.TrimSpace(strings.Join(args[1:], " "))
	if err := rec.UpdateNotes(context.Background(), id, notes); err != nil {
		return notFoundError(id, err)
	}
	return nil
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved round",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeleteCmd,
	}
}

func runDeleteCmd(cmd *cobra.Command, args []string) error {
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	rec, closeStore, err := openRecorder(context.Background(), p, session.DefaultConfig())
	if err != nil {
		return err
	}
	defer closeStore()

	id, err := resolveRoundID(rec.Rounds(), args[0])
	if err != nil {
		return err
	}
	if err := rec.Delete(context.Background(), id); err != nil {
		return notFoundError(id, err)
	}
	logErrf("Deleted round %s\n", id)
	return nil
}

// resolveRoundID accepts a full id, an unambiguous id prefix of at least
// eight characters, or the practice number shown in the rounds table (#N or N).
// rounds must be newest first.
func resolveRoundID(rounds []model.Round, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("round id must not be empty")
	}
	if num := strings.TrimPrefix(arg, "#"); len(num) < 8 {
		if n, err := strconv.Atoi(num); err == nil {
			if n < 1 || n > len(rounds) {
				return "", fmt.Errorf("no round #%d (have %d)", n, len(rounds))
			}
			return rounds[len(rounds)-n].ID, nil
		}
	}
	var matches []string
	for _, r := range rounds {
		if r.ID == arg {
			return arg, nil
		}
		if len(arg) >= 8 && strings.HasPrefix(r.ID, arg) {
			matches = append(matches, r.ID)
		}
	}
	switch len(matches) {
	case 0:
		return arg, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("round id %q is ambiguous (%d matches)", arg, len(matches))
	}
}

func notFoundError(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("round %s not found", id)
	}
	return err
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Record randomly shot rounds for trying out stats",
		Args:  cobra.NoArgs,
		RunE:  runSimulateCmd,
	}
	cmd.Flags().IntVar(&simRounds, "rounds", defaultSimRounds, "number of rounds")
	cmd.Flags().Float64Var(&simSpread, "spread", defaultSimSpread, "arrow spread as a fraction of the face radius")
	cmd.Flags().Float64Var(&simImprove, "improve", defaultSimImprove, "spread reduction per round")
	cmd.Flags().Float64Var(&simFlyers, "flyers", defaultSimFlyers, "probability of a flyer (0-1)")
	cmd.Flags().Int64Var(&simSeed, "seed", 0, "random seed (0 = time based)")
	addPracticeFlags(cmd)
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	if simRounds <= 0 {
		return fmt.Errorf("--rounds must be > 0")
	}
	if simSpread <= 0 {
		return fmt.Errorf("--spread must be > 0")
	}
	if simFlyers < 0 || simFlyers > 1 {
		return fmt.Errorf("--flyers must be between 0 and 1")
	}
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	cfg := practiceConfig(cmd, p.file)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	gen := generator.New()
	if simSeed != 0 {
		gen = generator.NewSeeded(simSeed)
	}
	archer := generator.Archer{Spread: simSpread, FlyerPct: simFlyers}
	rounds := gen.Rounds(cfg, archer, simRounds, simImprove, time.Now(), uuid.NewString)

	rec, closeStore, err := openRecorder(context.Background(), p, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	if _, err := rec.Import(context.Background(), rounds); err != nil {
		return err
	}
	logErrf("Simulated %d rounds for %s\n", len(rounds), p.user)
	return nil
}
