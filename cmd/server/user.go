package main

import (
	"errors"
	"fmt"

	"studio-site/internal/data"
	"studio-site/internal/service"
	"studio-site/internal/validate"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage back-office accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a back-office account",
	Long:  "Creates an active back-office account. Use it to create the first admin.",
	Args:  cobra.NoArgs,
	RunE:  runUserCreate,
}

var newUser service.UserInput

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&newUser.Email, "email", "", "login email address")
	f.StringVar(&newUser.Name, "name", "", "display name")
	f.StringVar(&newUser.Role, "role", data.RoleAdmin, "role: admin or editor")
	f.StringVar(&newUser.Password, "password", "", "password (8 characters minimum)")
	userCreateCmd.MarkFlagRequired("email")
	userCreateCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userCreateCmd)
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if err := data.ApplyMigrations(cfg.DB); err != nil {
		return err
	}
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	in := newUser
	if in.Name == "" {
		in.Name = in.Email
	}
	in.IsActive = true
	user, err := service.NewUserService(data.NewUserRepository(db), log).Create(cmd.Context(), in)
	if err != nil {
		if verrs, ok := validate.As(err); ok {
			for field, msg := range verrs {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
			}
			return errors.New("invalid account")
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s account %s (id %d)\n", user.Role, user.Email, user.ID)
	return nil
}
