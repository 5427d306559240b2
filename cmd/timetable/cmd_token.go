package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/service"
)

var (
	tokenSubject string
	tokenRole    string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token signed with JWT_SECRET",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "operator", "Token subject")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "ADMIN", "SUPERADMIN, ADMIN or VIEWER")
}

func runToken(cmd *cobra.Command, args []string) error {
	auth := service.NewAuthService(nil, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
	})
	issued, err := auth.IssueToken(dto.IssueTokenRequest{Subject: tokenSubject, Role: tokenRole})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), issued.AccessToken)
	return nil
}
