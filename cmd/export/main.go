package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"aargeom/adapters/excel"
	"aargeom/adapters/postgres"
)

func main() {
	var databaseURL string
	var output string

	cmd := &cobra.Command{
		Use:   "aargeom-export",
		Short: "Export stored compliance data to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return fmt.Errorf("database URL required (flag --database-url or DATABASE_URL)")
			}

			db, err := sqlx.Connect("postgres", databaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			exporter := excel.NewExporter(postgres.NewAARRepository(db))
			if err := exporter.Export(cmd.Context(), output); err != nil {
				return err
			}

			fmt.Printf("Exported compliance workbook to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL)")
	cmd.Flags().StringVar(&output, "output", "compliance.xlsx", "Output workbook path")

	godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
