package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"taskdeck/internal/auth"
	"taskdeck/internal/board"
	"taskdeck/internal/config"
	"taskdeck/internal/notify"
	"taskdeck/internal/query"
	"taskdeck/internal/storage"
	"taskdeck/internal/store"
	"taskdeck/internal/ui"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "taskdeck",
		Short:         "TaskDeck - terminal task manager",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := ui.Run(s.board, s.cfg, s.firstLaunch); err != nil {
				return fmt.Errorf("error running program: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(statsCmd())
	return rootCmd
}

type session struct {
	cfg         config.Config
	db          *storage.Store
	board       *board.Board
	firstLaunch bool
	logFile     io.Closer
}

func (s *session) Close() {
	if s.db != nil {
		s.db.Close()
	}
	if s.logFile != nil {
		s.logFile.Close()
	}
}

// openSession loads the config and wires storage, auth, notifications and the
// board together. The caller owns Close.
func openSession() (*session, error) {
	configPath := config.ResolveConfigPath()
	firstLaunch := false
	if _, err := os.Stat(configPath); err != nil {
		firstLaunch = errors.Is(err, os.ErrNotExist)
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	s := &session{cfg: cfg, firstLaunch: firstLaunch}
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "taskdeck")
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		s.logFile = f
	} else {
		log.SetOutput(io.Discard)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetLocation(time.Local)
	s.db = db

	feed := notify.NewFeed(time.Now, store.SampleNotifications(time.Local)...)
	st, err := store.New(db, auth.New(account(cfg.Demo)), feed, store.Options{})
	if err != nil {
		s.Close()
		return nil, err
	}

	if cfg.SeedSampleData {
		existing, err := db.FetchTasks()
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to read tasks: %w", err)
		}
		if len(existing) == 0 {
			if err := st.Seed(store.SampleTasks(time.Local)); err != nil {
				s.Close()
				return nil, fmt.Errorf("failed to seed tasks: %w", err)
			}
		}
	}

	s.board = board.New(st, criteria(cfg))
	log.Printf("session opened (config %s, db %q)", configPath, cfg.DBPath)
	return s, nil
}

func account(a config.Account) auth.Account {
	acct := auth.DemoAccount()
	acct.Email = a.Email
	acct.Password = a.Password
	acct.User.Email = a.Email
	acct.User.Name = a.Name
	acct.User.Role = a.Role
	return acct
}

func criteria(cfg config.Config) query.Criteria {
	return query.Criteria{
		Sort:      query.ParseSortKey(cfg.DefaultSort),
		Direction: query.ParseDirection(cfg.DefaultDirection),
	}
}

// signIn starts a session as the configured demo user for the non-interactive
// commands.
func (s *session) signIn() error {
	if _, err := s.board.SignIn(s.cfg.Demo.Email, s.cfg.Demo.Password); err != nil {
		return fmt.Errorf("sign in as %s: %w", s.cfg.Demo.Email, err)
	}
	return nil
}
