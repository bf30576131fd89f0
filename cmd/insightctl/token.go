package main

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"insights-backend/internal/shared/auth"
	"insights-backend/internal/shared/config"
)

func newTokenCmd(load func() config.Config) *cobra.Command {
	var (
		subject string
		email   string
		name    string
		role    string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := load()
			r, err := auth.ParseRole(role)
			if err != nil {
				return err
			}
			signer, err := auth.NewSigner(cfg.JWTSecret, cfg.IsProduction())
			if err != nil {
				return err
			}
			token, err := signer.Sign(auth.Claims{
				Email:            email,
				Name:             name,
				Role:             r,
				RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "", "user id placed in the sub claim")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&name, "name", "", "display name claim")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleEditor), "viewer, editor or admin")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
