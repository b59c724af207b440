package main

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema (safe to run repeatedly)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgresql.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		cmd.Println("schema applied")
		return nil
	},
}
