package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pdxmph/tasklist-tui/internal/config"
	"github.com/pdxmph/tasklist-tui/internal/storage"
	"github.com/pdxmph/tasklist-tui/internal/tasks"
	"github.com/pdxmph/tasklist-tui/internal/tui"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// session bundles what every command needs: config, an open backend and
// the store on top of it
type session struct {
	cfg     *config.Config
	backend storage.Backend
	store   *tasks.Store
}

func (s *session) Close() {
	if err := s.backend.Close(); err != nil {
		log.Printf("[storage] close: %v", err)
	}
}

// loadConfig reads the --config file, or the standard location when unset
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// openSession loads config, opens storage and initializes the store
func openSession(configPath string) (*session, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

// openStore opens the configured backend and the store on top of it
func openStore(cfg *config.Config) (*session, error) {
	backend, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	store, err := tasks.Open(backend, cfg.StoreOptions())
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	return &session{cfg: cfg, backend: backend, store: store}, nil
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "tasklist",
		Short:         "tasklist - a terminal task list",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/tasklist-tui/config.toml)")

	root.AddCommand(
		newAddCmd(&configPath),
		newListCmd(&configPath),
		newEditCmd(&configPath),
		newPriorityCmd(&configPath),
		newDeleteCmd(&configPath),
		newClearCmd(&configPath),
		newExportCmd(&configPath),
		newImportCmd(&configPath),
		newConfigCmd(&configPath),
	)
	return root
}

// runTUI starts the interactive program. Log output would corrupt the
// alternate screen, so it goes to log.file or nowhere.
func runTUI(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "tasklist")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	notice := ""
	if s.store.Recovered() {
		notice = fmt.Sprintf("Stored tasks were unreadable; a copy was kept under %q.", s.store.Options().Key+".corrupt")
	}

	model := tui.New(s.store, tui.Options{
		PersistSort:    s.cfg.Tasks.PersistSort,
		CardBreakpoint: s.cfg.UI.CardBreakpoint,
		Notice:         notice,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
