package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/chorebook/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit notification, reminder and storage settings",
	Long: `Show the current configuration and interactively change notifications,
the timezone, the daily planning time or the storage backend. Values can
also be overridden with CHOREBOOK_* environment variables or a .env file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg := app.config

		if jsonOutput {
			return printJSON(out, cfg)
		}

		path, _ := config.GetConfigPath()
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Current configuration (%s):\n", path)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "    Notifications:  %s\n", notificationStatus(cfg))
		fmt.Fprintf(out, "    Timezone:       %s\n", cfg.Reminders.Timezone)
		fmt.Fprintf(out, "    Day starts at:  %s\n", cfg.Reminders.DayStart)
		fmt.Fprintf(out, "    Poll interval:  %s\n", cfg.Reminders.PollInterval)
		fmt.Fprintf(out, "    Storage:        %s\n", storageSummary(cfg))
		fmt.Fprintf(out, "    Log:            %s (%s)\n", cfg.Log.Level, cfg.Log.Format)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  What would you like to change?")
		fmt.Fprintln(out, "    [n] Toggle notifications")
		fmt.Fprintln(out, "    [t] Set timezone")
		fmt.Fprintln(out, "    [d] Set day start time")
		fmt.Fprintln(out, "    [s] Change storage backend")
		fmt.Fprintln(out, "    [q] Quit without saving")
		fmt.Fprint(out, "  Choose: ")

		reader := bufio.NewReader(cmd.InOrStdin())
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(strings.ToLower(choice))

		switch choice {
		case "n":
			return editNotifications(reader, out, cfg)
		case "t":
			return editTimezone(reader, out, cfg)
		case "d":
			return editDayStart(reader, out, cfg)
		case "s":
			return editStorage(reader, out, cfg)
		case "q", "":
			fmt.Fprintln(out, "  No changes made.")
			return nil
		default:
			return fmt.Errorf("invalid choice %q", choice)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func notificationStatus(cfg *config.Config) string {
	if !cfg.Notifications.Enabled {
		return "off"
	}
	if cfg.Notifications.Sound {
		return "on (with sound)"
	}
	return "on"
}

func storageSummary(cfg *config.Config) string {
	switch cfg.Storage.Backend {
	case "redis":
		return fmt.Sprintf("redis %s (namespace %s)", cfg.Storage.RedisURL, cfg.Storage.RedisNamespace)
	case "memory":
		return "memory (not persisted)"
	default:
		return "sqlite " + config.GetDBPath(cfg)
	}
}

func saveConfig(out io.Writer, cfg *config.Config, what string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(out, "\n  Saved: %s\n", what)
	return nil
}

func editNotifications(reader *bufio.Reader, out io.Writer, cfg *config.Config) error {
	fmt.Fprintf(out, "\n  Current notifications: %s\n\n", notificationStatus(cfg))
	fmt.Fprintln(out, "    [1] Off")
	fmt.Fprintln(out, "    [2] On (visual only)")
	fmt.Fprintln(out, "    [3] On (with sound)")
	fmt.Fprint(out, "  Choose: ")

	choice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "1":
		cfg.Notifications.Enabled = false
		cfg.Notifications.Sound = false
	case "2":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = false
	case "3":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = true
	default:
		fmt.Fprintln(out, "  No changes made.")
		return nil
	}
	return saveConfig(out, cfg, "notifications "+notificationStatus(cfg))
}

func editTimezone(reader *bufio.Reader, out io.Writer, cfg *config.Config) error {
	fmt.Fprintf(out, "  Timezone (IANA name or Local) [%s]: ", cfg.Reminders.Timezone)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		fmt.Fprintln(out, "  No changes made.")
		return nil
	}
	cfg.Reminders.Timezone = input
	return saveConfig(out, cfg, "timezone "+input)
}

func editDayStart(reader *bufio.Reader, out io.Writer, cfg *config.Config) error {
	fmt.Fprintf(out, "  Plan reminders each day at (HH:MM) [%s]: ", cfg.Reminders.DayStart)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		fmt.Fprintln(out, "  No changes made.")
		return nil
	}
	if _, err := time.Parse("15:04", input); err != nil {
		return fmt.Errorf("invalid time %q, expected HH:MM", input)
	}
	cfg.Reminders.DayStart = input
	return saveConfig(out, cfg, "day start "+input)
}

func editStorage(reader *bufio.Reader, out io.Writer, cfg *config.Config) error {
	fmt.Fprintf(out, "\n  Current storage: %s\n\n", storageSummary(cfg))
	fmt.Fprintln(out, "    [1] SQLite file")
	fmt.Fprintln(out, "    [2] Redis")
	fmt.Fprint(out, "  Choose: ")

	choice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "1":
		cfg.Storage.Backend = "sqlite"
	case "2":
		cfg.Storage.Backend = "redis"
		fmt.Fprintf(out, "  Redis URL [%s]: ", cfg.Storage.RedisURL)
		url, _ := reader.ReadString('\n')
		if url = strings.TrimSpace(url); url != "" {
			cfg.Storage.RedisURL = url
		}
	default:
		fmt.Fprintln(out, "  No changes made.")
		return nil
	}
	return saveConfig(out, cfg, "storage "+storageSummary(cfg))
}
