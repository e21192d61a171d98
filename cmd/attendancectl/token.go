package main

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/config"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

var (
	tokenUserID string
	tokenEmail  string
	tokenRole   string
	tokenVerify string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign or verify an access token, for local testing against the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

		if tokenVerify != "" {
			claims, err := jwtService.ParseAccessToken(tokenVerify)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"user_id":    claims.UserID,
				"email":      claims.Email,
				"role":       string(claims.Role),
				"expires_at": claims.ExpiresAt.Format(time.RFC3339),
			})
		}

		if tokenUserID == "" {
			return fmt.Errorf("--user-id is required")
		}
		role := user.Role(tokenRole)
		if !role.Valid() {
			return fmt.Errorf("invalid role %q: must be admin, manager or employee", tokenRole)
		}

		token, expiresAt, err := jwtService.GenerateAccessToken(tokenUserID, tokenEmail, role)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenUserID, "user-id", "", "User id to put in the token")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(user.RoleEmployee), "Role claim (admin, manager, employee)")
	tokenCmd.Flags().StringVar(&tokenVerify, "verify", "", "Verify a token and print its claims instead of signing one")
}
