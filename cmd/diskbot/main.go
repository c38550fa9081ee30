package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"diskbot/internal/app"
	"diskbot/internal/config"
	"diskbot/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a BotApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Serve", "CatalogImport").
func newApp(operation string) (*app.BotApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewBotApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "diskbot",
	Short: "Chat bot that relays files from remote storage",
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Serve")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := a.Run(ctx); err != nil {
			return fmt.Errorf("running bot: %w", err)
		}
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Println("Fill in the telegram token, activation key, admin chat id and storage settings before serving.")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Bot Name:    %s\n", cfg.BotName)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Scratch Dir: %s\n", cfg.ScratchDir)
		fmt.Printf("Database:    %s (%s)\n", cfg.Database.Type, cfg.Database.Path)
		fmt.Printf("Storage:     %s\n", cfg.Storage.Type)
		return nil
	},
}

// catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the file catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import catalog entries from a tab-separated file",
	Long: `Import catalog entries from FILE. Each non-empty line holds
NAME<TAB>PATH where PATH is relative to the configured storage root.
A fresh hash token is generated for every imported entry.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("CatalogImport")
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()

		count := 0
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			name, path, ok := strings.Cut(line, "\t")
			if !ok {
				return fmt.Errorf("malformed line %q: want NAME<TAB>PATH", line)
			}

			entry := model.PathEntry{
				Name: strings.TrimSpace(name),
				Path: strings.TrimSpace(path),
				Hash: uuid.New().String(),
			}
			if err := a.Store().InsertPath(entry); err != nil {
				return fmt.Errorf("importing %q: %w", entry.Name, err)
			}
			count++
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading import file: %w", err)
		}

		fmt.Printf("Imported %d catalog entr%s\n", count, plural(count, "y", "ies"))
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "View catalog entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("CatalogList")
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.Store().ListPaths(limit)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("Catalog is empty.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%s  %-30s  %s\n", e.Hash, e.Name, e.Path)
		}
		return nil
	},
}

// users command
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage the allow-list",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "View registered users",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("UsersList")
		if err != nil {
			return err
		}
		defer a.Close()

		users, err := a.Store().ListUsers()
		if err != nil {
			return err
		}

		if len(users) == 0 {
			fmt.Println("No registered users.")
			return nil
		}

		for _, u := range users {
			fmt.Printf("%-12s  %-20s  %s %s\n", u.ID, u.Username, u.FirstName, u.LastName)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View delivery history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("GetHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		records, err := a.Store().ListLog(limit)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No deliveries recorded.")
			return nil
		}

		for _, r := range records {
			fmt.Printf("%s  %-12s  %-20s  %s\n",
				r.Date.Format("2006-01-02 15:04:05"),
				r.UserID,
				r.Username,
				r.Path,
			)
		}
		return nil
	},
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// catalog subcommands
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogListCmd.Flags().IntP("limit", "n", 50, "Maximum number of entries to show")

	// users subcommands
	usersCmd.AddCommand(usersListCmd)

	// root commands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of records to show")
}
