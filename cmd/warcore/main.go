// WarCore is a deterministic, data-driven engine for turn-based strategy
// games. Scenarios are Lua directories; games replay exactly from their
// command logs.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nathoo/warcore/cli"
	"github.com/nathoo/warcore/engine"
	"github.com/nathoo/warcore/engine/command"
	"github.com/nathoo/warcore/engine/replay"
	"github.com/nathoo/warcore/engine/world"
	"github.com/nathoo/warcore/loader"
	"github.com/nathoo/warcore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := &cobra.Command{
		Use:           "warcore",
		Short:         "Deterministic turn-based strategy engine",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(playCmd(), replayCmd(), validateCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func playCmd() *cobra.Command {
	var (
		plain      bool
		scriptFile string
		settings   string
	)
	cmd := &cobra.Command{
		Use:   "play <scenario-dir>",
		Short: "Play a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if settings == "" {
				settings = filepath.Join(dir, "settings.yaml")
			}
			ws, res, err := buildWorld(dir, settings)
			if err != nil {
				return err
			}
			defer res.Close()
			name := scenarioName(dir)

			if scriptFile != "" {
				f, err := os.Open(scriptFile)
				if err != nil {
					return fmt.Errorf("opening script: %w", err)
				}
				defer f.Close()
				c := newCLI(ws, name, dir, settings)
				c.In = f
				c.EchoInput = true
				return c.Run()
			}
			if plain || !isTerminal() {
				return newCLI(ws, name, dir, settings).Run()
			}
			return tui.Run(ws, name)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "use the plain terminal interface")
	cmd.Flags().StringVar(&scriptFile, "script", "", "play back a command script instead of reading stdin")
	cmd.Flags().StringVar(&settings, "settings", "", "player settings file (default <scenario-dir>/settings.yaml)")
	return cmd
}

func replayCmd() *cobra.Command {
	var settings string
	cmd := &cobra.Command{
		Use:   "replay <scenario-dir> <save-file>",
		Short: "Rebuild a saved game from its command log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, saveFile := args[0], args[1]
			if settings == "" {
				settings = filepath.Join(dir, "settings.yaml")
			}
			data, err := os.ReadFile(saveFile)
			if err != nil {
				return fmt.Errorf("reading save: %w", err)
			}
			save, err := replay.Unmarshal(data)
			if err != nil {
				return err
			}
			if name := scenarioName(dir); save.Scenario != name {
				return fmt.Errorf("save belongs to scenario %q, not %q", save.Scenario, name)
			}

			ws, res, err := buildWorld(dir, settings)
			if err != nil {
				return err
			}
			defer res.Close()

			eng := engine.New(ws, func(ev command.Event) {
				if ev.Kind == command.EventMessage {
					fmt.Println(ev.Text)
				}
			})
			if err := save.Apply(eng); err != nil {
				return err
			}

			fmt.Printf("\nReplayed %d command(s) over %d full turn(s).\n",
				len(ws.History.Commands), ws.History.FullTurns)
			switch {
			case ws.GameOver() && ws.Winner() != nil:
				fmt.Printf("%s wins.\n", ws.Winner().Name())
			case ws.GameOver():
				fmt.Println("The game ended in a draw.")
			default:
				fmt.Printf("%s to move on turn %d.\n", ws.ActiveFaction().Name(), ws.Turn()+1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&settings, "settings", "", "player settings file (default <scenario-dir>/settings.yaml)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario-dir>",
		Short: "Load and validate a scenario without playing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loader.Load(args[0])
			if err != nil {
				return err
			}
			defer res.Close()
			scn := res.Scenario
			fmt.Printf("%s v%s: %d variables, %d classes, %d factions, %dx%d map — OK\n",
				scn.Title, scn.Version, len(scn.Variables), len(scn.Entities),
				len(scn.Factions), scn.Map.Width, scn.Map.Height)
			return nil
		},
	}
}

// buildWorld loads a scenario directory and initializes a fresh world.
func buildWorld(dir, settingsPath string) (*world.State, *loader.Result, error) {
	res, err := loader.Load(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading scenario: %w", err)
	}
	settings, err := loader.LoadSettings(settingsPath)
	if err != nil {
		res.Close()
		return nil, nil, err
	}
	cache := world.NewClassCache()
	if err := cache.Load(res.Scenario); err != nil {
		res.Close()
		return nil, nil, err
	}
	ws, err := world.Initialize(res.Scenario, cache, res.Factory(), settings)
	if err != nil {
		res.Close()
		return nil, nil, err
	}
	return ws, res, nil
}

// newCLI builds a plain-terminal session able to rebuild worlds for
// /load.
func newCLI(ws *world.State, name, dir, settingsPath string) *cli.CLI {
	c := cli.New(ws, name)
	c.NewWorld = func() (*world.State, error) {
		fresh, res, err := buildWorld(dir, settingsPath)
		if err != nil {
			return nil, err
		}
		// The Result's VM must outlive the world; leak it for the
		// session's duration.
		_ = res
		return fresh, nil
	}
	return c
}

func scenarioName(dir string) string {
	return filepath.Base(filepath.Clean(dir))
}

// isTerminal returns true if stdout is a terminal (not piped or
// redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
