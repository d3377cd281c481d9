package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"DailyNoteSentinel/internal/collector"
	"DailyNoteSentinel/internal/config"
	"DailyNoteSentinel/internal/credential"
	"DailyNoteSentinel/internal/evaluator"
	"DailyNoteSentinel/internal/notifier"
	"DailyNoteSentinel/internal/recorder"
	"DailyNoteSentinel/internal/scheduler"
)

var cfgPath string

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfgPath = "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}

	root := &cobra.Command{
		Use:           "sentinel",
		Short:         "Daily note watcher that notifies a webhook when something needs attention",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", cfgPath, "Path to YAML config file")

	root.AddCommand(runCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(credentialsCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Printf("[FATAL] %v", err)
		os.Exit(1)
	}
}

// loadConfig reads and validates the configuration, consulting the keyring
// for cookie values when enabled.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.HoYoLab.UseKeyring {
		ring, err := credential.Open()
		if err != nil {
			return nil, err
		}
		if err := credential.Fill(ring, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	return collector.NewHoYoLabFetcher(cfg.HoYoLab.BaseURL, cfg.HoYoLab.RoleID, cfg.HoYoLab.Server,
		cfg.HoYoLab.LToken, cfg.HoYoLab.LTUID, cfg.Proxy)
}

func openRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

func newRunner(cfg *config.Config, rec recorder.Recorder) *scheduler.Runner {
	tn := notifier.NewWebhookNotifier(cfg.Webhook.URL, cfg.Webhook.Token, cfg.Proxy)
	return scheduler.NewRunner(newFetcher(cfg), notifier.NewDispatcher(tn), rec)
}

// --------------------------------------------------------------------------
// run: one invocation, for external cron or serverless triggers
// --------------------------------------------------------------------------

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Fetch, evaluate and notify once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rec := openRecorder(cfg)
			defer rec.Close()

			ack, err := newRunner(cfg, rec).RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(ack)
		},
	}
}

// --------------------------------------------------------------------------
// serve: in-process cron trigger
// --------------------------------------------------------------------------

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the check on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rec := openRecorder(cfg)
			defer rec.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sched := scheduler.NewScheduler(ctx, newRunner(cfg, rec))
			if err := sched.Register(cfg.Schedule.Cron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()
			log.Printf("[INFO] DailyNoteSentinel is running (schedule %q). Press Ctrl+C to stop.", cfg.Schedule.Cron)

			if os.Getenv("RUN_ON_START") == "true" {
				log.Println("[INFO] RUN_ON_START enabled, executing check now")
				go sched.RunNow()
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Println("[INFO] shutdown signal received, stopping...")
			cancel()
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// check: dry run, nothing is sent
// --------------------------------------------------------------------------

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Fetch and evaluate without sending a notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			status, err := newFetcher(cfg).Fetch(cmd.Context())
			if err != nil {
				return err
			}
			flags := evaluator.Evaluate(status, time.Now())

			out := cmd.OutOrStdout()
			fmt.Fprint(out, notifier.FormatStatus(status))
			fmt.Fprintln(out)
			if msg := notifier.FormatReport(flags); msg != "" {
				fmt.Fprintf(out, "Would send:\n%s\n", msg)
			} else {
				fmt.Fprintln(out, "Nothing to report.")
			}
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// history: recorded runs
// --------------------------------------------------------------------------

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Database.SQLitePath == "" {
				return errors.New("database.sqlite_path is not configured")
			}
			sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
			if err != nil {
				return err
			}
			defer sr.Close()

			runs, err := sr.Recent(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range runs {
				line := fmt.Sprintf("%s  %-12s", r.Timestamp.Format("2006-01-02 15:04:05"), r.Outcome)
				if r.StatusOK {
					line += fmt.Sprintf("  resin=%ds home_coin=%ds expeditions=%d/%d flags=%+v",
						r.ResinRecoverySeconds, r.HomeCoinRecoverySeconds,
						r.FinishedExpeditions, r.TotalExpeditions, r.Flags)
				} else {
					line += "  " + r.Error
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}

// --------------------------------------------------------------------------
// credentials: keyring management
// --------------------------------------------------------------------------

func credentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage HoYoLAB cookie values in the system keyring",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <ltoken|ltuid> <value>",
		Short: "Store a cookie value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !credential.ValidKey(args[0]) {
				return fmt.Errorf("unknown credential %q", args[0])
			}
			ring, err := credential.Open()
			if err != nil {
				return err
			}
			return credential.Set(ring, args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <ltoken|ltuid>",
		Short: "Remove a cookie value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !credential.ValidKey(args[0]) {
				return fmt.Errorf("unknown credential %q", args[0])
			}
			ring, err := credential.Open()
			if err != nil {
				return err
			}
			return credential.Delete(ring, args[0])
		},
	})
	return cmd
}
