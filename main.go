package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sheikhrachel/lifeboard/app"
	"github.com/sheikhrachel/lifeboard/model"
	"github.com/sheikhrachel/lifeboard/ui"
	"github.com/sheikhrachel/lifeboard/utils"
)

const defaultConfigFile = "config.json"

var (
	configFile  string
	logLevel    string
	logFile     string
	totalWidth  int
	totalHeight int
	cellSize    int
	intervalMs  int
	probability float64
	seed        int64
	theme       string
	pattern     string

	// run command
	generations      int
	printFrames      bool
	stopWhenStagnant bool
	autoRestart      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "lifeboard",
		Short:         "interactive Conway's Game of Life",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runInteractive,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", defaultConfigFile, "config file path (json or yaml)")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&logFile, "log-file", "", "write logs to this file (interactive mode logs nowhere otherwise)")
	flags.IntVar(&totalWidth, "width", 0, "board width in pixels")
	flags.IntVar(&totalHeight, "height", 0, "board height in pixels")
	flags.IntVar(&cellSize, "cell-size", 0, "cell size in pixels")
	flags.IntVar(&intervalMs, "interval", 0, "milliseconds between generations")
	flags.Float64Var(&probability, "probability", 0, "live-cell probability for randomize")
	flags.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	flags.StringVar(&theme, "theme", "", "light or dark")
	flags.StringVar(&pattern, "pattern", "", "start from a built-in pattern (see patterns)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "advance the board without the interactive screen",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&generations, "generations", 0, "number of generations (default from config)")
	runCmd.Flags().BoolVar(&printFrames, "print", false, "draw every generation")
	runCmd.Flags().BoolVar(&stopWhenStagnant, "stop-when-stagnant", false, "stop once the board settles into a still life or short cycle")
	runCmd.Flags().BoolVar(&autoRestart, "auto-restart", false, "reseed the board on extinction, stagnation or periodic refresh instead of stopping")

	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "list built-in patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range model.PatternNames() {
				p, _ := model.LookupPattern(name)
				fmt.Fprintf(out, "%s (%dx%d)\n", name, p.Width(), p.Height())
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, patternsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when the
// default file is absent, then applies flag overrides
func loadConfig(cmd *cobra.Command) (utils.Config, error) {
	config, err := utils.LoadConfig(configFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || cmd.Flags().Changed("config") {
			return config, err
		}
		slog.Debug("using default configuration", "missing", configFile)
		config = utils.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		config.TotalWidth = totalWidth
	}
	if flags.Changed("height") {
		config.TotalHeight = totalHeight
	}
	if flags.Changed("cell-size") {
		config.CellSize = cellSize
	}
	if flags.Changed("interval") {
		config.IntervalMs = intervalMs
	}
	if flags.Changed("probability") {
		config.Probability = probability
	}
	if flags.Changed("seed") {
		config.Seed = seed
	}
	if flags.Changed("theme") {
		config.Theme = theme
	}

	return config, config.Validate()
}

func setupLogger(w io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
		return errors.Wrapf(err, "[setupLogger] bad log level: %+v", logLevel)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

// initialBoard builds the starting board, either empty or from --pattern
func initialBoard(config utils.Config) (*model.Board, error) {
	rows, cols := config.Dimensions()
	board, err := model.NewBoard(rows, cols)
	if err != nil {
		return nil, err
	}
	if pattern == "" {
		return board, nil
	}
	p, ok := model.LookupPattern(pattern)
	if !ok {
		return nil, errors.Errorf("[initialBoard] unknown pattern %q, try one of %s",
			pattern, strings.Join(model.PatternNames(), ", "))
	}
	if err := board.PlaceCentered(p); err != nil {
		return nil, err
	}
	return board, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	logOut := io.Discard
	if logFile != "" {
		f, err := tea.LogToFile(logFile, "lifeboard")
		if err != nil {
			return errors.Wrapf(err, "[runInteractive] failed to open log file: %+v", logFile)
		}
		defer f.Close()
		logOut = f
	}
	if err := setupLogger(logOut); err != nil {
		return err
	}

	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	board, err := initialBoard(config)
	if err != nil {
		return err
	}

	var program *tea.Program
	ctrl, err := app.New(config,
		app.WithBoard(board),
		app.WithListener(func(st app.State) {
			program.Send(ui.GenerationMsg(st))
		}),
	)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	slog.Info("starting interactive session",
		"rows", board.Rows(), "cols", board.Cols(), "interval_ms", config.IntervalMs)

	program = ui.NewProgram(ui.NewModel(ctrl))
	if _, err := program.Run(); err != nil {
		return errors.Wrap(err, "[runInteractive] ui failed")
	}
	return nil
}
