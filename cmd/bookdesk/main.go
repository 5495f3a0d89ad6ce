// BookDesk is a terminal admin console for the campus bookstore, class
// reports, and exam delivery web application. It drives the same JSON
// endpoints the web dashboard uses, sharing the browser's session cookies.
package main

import (
	"fmt"
	"os"
	"strconv"

	"bookdesk/cmd/bookdesk/ui"
	"bookdesk/internal/api"
	"bookdesk/internal/config"
	"bookdesk/internal/logging"
	"bookdesk/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	serverURL  string
	cookieFile string

	cfg    config.Config
	logger *zap.Logger
)

// rootCmd launches the interactive dashboard when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "bookdesk",
	Short: "BookDesk - terminal console for the bookstore admin application",
	Long: `BookDesk is a terminal console for the campus bookstore, class reports,
and exam delivery application.

It shares the browser's login session via a Netscape-format cookie file and
talks to the same endpoints the web dashboard uses: quick orders, book
returns, class report filtering, and the timed exam view.

Run without arguments to open the dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}
		if cookieFile != "" {
			cfg.CookieFile = cookieFile
		}
		if verbose {
			cfg.Verbose = true
		}

		// Interactive commands log to a file so the UI stays clean.
		logDir, err := config.LogDir()
		if err != nil {
			return err
		}
		logger, err = logging.NewFileLogger(logDir, cfg.Verbose)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Open the class reports listing",
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, _ := cmd.Flags().GetString("tab")
		return runReports(tab)
	},
}

// configCmd prints the effective configuration; `config init` writes it to
// disk so the file can be edited by hand.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.File()
		if err != nil {
			return err
		}
		fmt.Printf("config file: %s\n", path)
		fmt.Printf("server_url:  %s\n", cfg.ServerURL)
		fmt.Printf("cookie_file: %s\n", cfg.CookieFile)
		fmt.Printf("theme:       %s\n", cfg.Theme)
		fmt.Printf("verbose:     %v\n", cfg.Verbose)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logging.NewStderrLogger(cfg.Verbose)
		if err != nil {
			return err
		}
		defer log.Sync()

		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		path, _ := config.File()
		log.Info("configuration written", zap.String("path", path))
		return nil
	},
}

var examCmd = &cobra.Command{
	Use:   "exam [id]",
	Short: "Open the timed view for an active exam attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		examID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("exam id must be a number: %q", args[0])
		}
		return runExam(examID)
	},
}

func newClient() *api.Client {
	var tokens api.TokenSource
	if cfg.CookieFile != "" {
		tokens = session.Open(cfg.CookieFile)
	}
	return api.New(cfg.ServerURL, tokens, logger)
}

func runDashboard() error {
	client := newClient()
	styles := ui.NewStyles(ui.DetectTheme(cfg.Theme))
	app := ui.DashboardApp{Model: ui.NewDashboard(client, styles, logger)}

	p := tea.NewProgram(app, tea.WithAltScreen())

	// Surface browser re-logins while the dashboard is open. A missing
	// cookie directory just means the feature is inert.
	if cfg.CookieFile != "" {
		if w, err := session.Watch(cfg.CookieFile, logger); err == nil {
			defer w.Close()
			go func() {
				for range w.Events() {
					p.Send(ui.SessionRefreshedMsg{})
				}
			}()
		} else {
			logger.Debug("cookie watcher not started", zap.Error(err))
		}
	}

	_, err := p.Run()
	return err
}

func runReports(tab string) error {
	client := newClient()
	styles := ui.NewStyles(ui.DetectTheme(cfg.Theme))
	app := ui.ReportsApp{Model: ui.NewReportsPage(client, styles, logger, tab)}
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

func runExam(examID int64) error {
	client := newClient()
	styles := ui.NewStyles(ui.DetectTheme(cfg.Theme))
	app := ui.ExamApp{Model: ui.NewExamPage(examID, client, styles, logger)}
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&cookieFile, "cookies", "", "browser cookie file (overrides config)")

	reportsCmd.Flags().String("tab", "overview", "initial tab (overview or attendance)")

	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(examCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
