package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	seedEmail    string
	seedPassword string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create an ADMIN login, or reset the password of an existing one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		admin, err := seedAdmin(cmd.Context(), postgresql.NewUserRepository(db), seedEmail, seedPassword)
		if err != nil {
			return err
		}
		cmd.Printf("admin %s ready (id %s)\n", admin.Email, admin.ID)
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&seedEmail, "email", "", "Admin e-mail address")
	seedAdminCmd.Flags().StringVar(&seedPassword, "password", "", "Admin password (at least 8 characters)")
	_ = seedAdminCmd.MarkFlagRequired("email")
	_ = seedAdminCmd.MarkFlagRequired("password")
}

func seedAdmin(ctx context.Context, users user.UserRepository, email, password string) (user.User, error) {
	email = strings.TrimSpace(email)
	if !validator.IsValidEmail(email) {
		return user.User{}, fmt.Errorf("invalid email %q", email)
	}
	if len(password) < 8 {
		return user.User{}, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	return users.UpsertAdmin(ctx, email, string(hash))
}
