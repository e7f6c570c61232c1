package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/loykin/xentral/internal/auth/custom_jwt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token accepted by the serve command",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(viper.GetViper())
		if err != nil {
			return err
		}
		subject, _ := cmd.Flags().GetString("subject")
		ttl, _ := cmd.Flags().GetInt64("ttl")
		return issueToken(a, subject, ttl, cmd.OutOrStdout())
	},
}

func issueToken(a *app, subject string, ttl int64, out io.Writer) error {
	vc := a.doc.JWTVerify()
	if vc == nil {
		return errors.New("server.jwt_secret is not configured")
	}
	c := custom_jwt.Config{
		Secret:     string(vc.Secret),
		TTLSeconds: ttl,
		Subject:    subject,
		Issuer:     vc.AllowedIssuer,
	}
	if vc.AllowedAudience != "" {
		c.Audience = []string{vc.AllowedAudience}
	}
	tok, err := c.Issue()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, tok)
	return err
}
