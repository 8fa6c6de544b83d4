package cli

import (
	"fmt"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/usecase"
	"marketplace-service/internal/importer"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd собирает корневую команду со всеми подкомандами.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "marketplace-cli",
		Short:         "Maintenance commands for the marketplace service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("env-file", "", "Path to a .env file (default: ./.env if present)")

	rootCmd.AddCommand(MigrateCmd())
	rootCmd.AddCommand(ImportPropertiesCmd())
	rootCmd.AddCommand(SeedUsersCmd())
	return rootCmd
}

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Схема применяется при открытии окружения
			env, err := openEnvironment(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			env.logger.Info("Database schema is up to date", nil)
			fmt.Fprintln(cmd.OutOrStdout(), "Database schema applied.")
			return nil
		},
	}
}

func ImportPropertiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-properties",
		Short: "Replace sample properties with records from a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			samples, err := importer.ReadProperties(f)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}

			env, err := openEnvironment(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			inserted, err := usecase.NewImportSamplePropertiesUseCase(env.repos.Properties).Execute(env.withLogger(cmd.Context()), samples)
			if err != nil {
				return fmt.Errorf("failed to import properties: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully imported %d properties\n", inserted)
			return nil
		},
	}
	cmd.Flags().String("file", "data.csv", "Path to the CSV file")
	return cmd
}

func SeedUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-users",
		Short: "Create demo user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			created, skipped, err := usecase.NewSeedUsersUseCase(env.repos.Users).Execute(env.withLogger(cmd.Context()), usecase.DefaultSeedUsers)
			if err != nil {
				return fmt.Errorf("failed to seed users: %w", err)
			}

			env.logger.Info("Demo users seeded", port.Fields{"created": created, "skipped": skipped})
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d users, %d already existed\n", created, skipped)
			return nil
		},
	}
}
