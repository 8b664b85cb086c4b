package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sheikhrachel/lifeboard/app"
	"github.com/sheikhrachel/lifeboard/model"
	"github.com/sheikhrachel/lifeboard/sim"
	"github.com/sheikhrachel/lifeboard/utils"
)

// headlessGame is the state of one headless run
type headlessGame struct {
	board    *model.Board
	pool     *model.BoardPool
	renderer *model.TerminalRenderer
	stats    *utils.Stats
	rng      *rand.Rand
}

// initializeGame sets up the initial game state
func initializeGame(config utils.Config, out io.Writer) (*headlessGame, error) {
	board, err := initialBoard(config)
	if err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	game := &headlessGame{
		board:    board,
		renderer: &model.TerminalRenderer{Out: out},
		stats:    utils.NewStats(),
		rng:      rand.New(rand.NewPCG(uint64(seed), 0)),
	}
	if pattern == "" {
		if err := board.Randomize(game.rng, config.Probability); err != nil {
			return nil, err
		}
	}
	if config.UseMemoryPool {
		game.pool = model.NewBoardPool(board.Rows(), board.Cols())
	}

	return game, nil
}

// updateGameState updates the game state and returns status information
func updateGameState(
	board *model.Board,
	history *model.History,
	generation int,
	lastFrameTime time.Time,
	stats *utils.Stats,
) (int, float64, string, bool) {
	livingCells := board.CountLiving()
	density := float64(livingCells) / float64(board.Rows()*board.Cols()) * 100

	// Update performance stats
	frameDuration := time.Since(lastFrameTime)
	stats.Update(generation, livingCells, frameDuration)

	// Check for stagnation before recording the current state
	isStagnant := history.IsStagnant(board)
	history.Update(board)

	status := "Active"
	if isStagnant {
		status = "Stagnant"
	}
	if livingCells == 0 {
		status = "Extinct"
	}

	return livingCells, density, status, isStagnant
}

// displayGameStatus shows the current game status
func displayGameStatus(
	w io.Writer,
	generation, livingCells int,
	density float64,
	status string,
	stats *utils.Stats,
) {
	fmt.Fprintf(w, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		generation, livingCells, density, status)
	fmt.Fprintf(w, "Performance: %.1f gen/sec | Avg Pop: %.1f | Peak: %d | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.PeakPopulation, stats.Runtime().Seconds())
}

// checkStopConditions determines if the headless run should end early
func checkStopConditions(livingCells, stagnantCount int, config utils.Config) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if stopWhenStagnant && stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	return false, ""
}

// checkRestartConditions determines if an auto-restarting run should reseed
func checkRestartConditions(livingCells, stagnantCount, generation int, config utils.Config) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	if config.RefreshEvery > 0 && generation%config.RefreshEvery == 0 {
		return true, "periodic refresh"
	}
	return false, ""
}

// plotPopulation draws the population history
func plotPopulation(w io.Writer, stats *utils.Stats) {
	if len(stats.Population) < 2 {
		return
	}
	graph := asciigraph.Plot(stats.Population,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption("population"),
	)
	fmt.Fprintln(w, graph)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	if err := setupLogger(os.Stderr); err != nil {
		return err
	}
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("generations") {
		config.MaxGenerations = generations
	}
	if config.MaxGenerations <= 0 {
		return errors.Wrapf(utils.ErrInvalidConfig, "[runHeadless] non-positive generations: %d", config.MaxGenerations)
	}

	if cmd.Flags().Changed("auto-restart") {
		config.AutoRestart = autoRestart
	}

	out := cmd.OutOrStdout()
	game, err := initializeGame(config, out)
	if err != nil {
		return err
	}

	slog.Debug("headless run",
		"rows", game.board.Rows(), "cols", game.board.Cols(), "generations", config.MaxGenerations,
		"pool", game.pool != nil, "auto_restart", config.AutoRestart)

	var (
		history        model.History
		generation     = app.FirstGeneration
		lastRestartGen = 0
		restarts       = 0
		stagnantCount  = 0
		lastFrameTime  = time.Now()
		livingCells    int
		status         string
	)

	for {
		frameStart := time.Now()

		var (
			density    float64
			isStagnant bool
		)
		livingCells, density, status, isStagnant = updateGameState(game.board, &history, generation, lastFrameTime, game.stats)
		lastFrameTime = frameStart

		if isStagnant {
			stagnantCount++
		} else {
			stagnantCount = 0
		}

		if printFrames {
			if err := game.renderer.Clear(); err != nil {
				return err
			}
			displayGameStatus(out, generation, livingCells, density, status, game.stats)
			if generation > lastRestartGen && restarts > 0 {
				fmt.Fprintf(out, "Generations since restart: %d\n", generation-lastRestartGen)
			}
			if err := game.renderer.Display(game.board); err != nil {
				return err
			}
		}

		if generation >= config.MaxGenerations {
			break
		}

		if config.AutoRestart {
			if restart, reason := checkRestartConditions(livingCells, stagnantCount, generation, config); restart {
				fmt.Fprintf(out, "Restarting at generation %d: %s\n", generation, reason)
				if err := game.board.Reseed(game.rng, config.Probability); err != nil {
					return err
				}
				history.Reset()
				stagnantCount = 0
				lastRestartGen = generation
				restarts++
			} else if stagnantCount >= 2 {
				// Nudge a settling board before it counts as stagnant.
				game.board.InjectRandom(game.rng, config.InjectionCount)
			}
		} else if stop, reason := checkStopConditions(livingCells, stagnantCount, config); stop {
			fmt.Fprintf(out, "Stopped at generation %d: %s\n", generation, reason)
			break
		}

		var next *model.Board
		if game.pool != nil {
			next = game.pool.Get()
		} else {
			next = game.board.WithEmpty()
		}
		if err := sim.StepInto(next, game.board); err != nil {
			return err
		}
		model.BoardToPool(game.board, game.pool)
		game.board = next
		generation++

		if printFrames {
			time.Sleep(config.Interval())
		}
	}

	fmt.Fprintf(out, "Final: %d generations | %d living | status %s | %d restarts | %.1fs\n",
		generation, livingCells, status, restarts, game.stats.Runtime().Seconds())
	plotPopulation(out, game.stats)
	return nil
}
