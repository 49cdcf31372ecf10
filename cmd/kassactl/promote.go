package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/8gymsport-prog/penjualan/internal/models"
	"github.com/8gymsport-prog/penjualan/internal/services"
)

var (
	promoteUser string
	promoteRole string
)

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Change a user's role",
	Long:  `Sets the role of an existing user. Use it to create the first superadmin, who can then manage roles from the admin API.`,
	RunE:  runPromote,
}

func init() {
	promoteCmd.Flags().StringVar(&promoteUser, "user", "", "user id")
	promoteCmd.Flags().StringVar(&promoteRole, "role", string(models.RoleSuperadmin), "role to assign (user or superadmin)")
	rootCmd.AddCommand(promoteCmd)
}

func runPromote(cmd *cobra.Command, args []string) error {
	if promoteUser == "" {
		return errors.New("--user is required")
	}

	cfg, db, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	accounts := services.NewAccountService(db, cfg.MaxAvatarBytes)
	user, err := accounts.SetRole(cmd.Context(), promoteUser, models.RoleInput{Role: models.Role(promoteRole)})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now %s\n", user.Username, user.ID, user.Role)
	return nil
}
