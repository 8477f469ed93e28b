package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"profast-backend-go/internal/auth"
	"profast-backend-go/internal/config"
	"profast-backend-go/internal/core"
	"profast-backend-go/internal/db"
	"profast-backend-go/internal/logging"
	"profast-backend-go/internal/models"
	"profast-backend-go/internal/storage"
)

func quoteCmd() *cobra.Command {
	var (
		parcelType string
		weight     float64
		from, to   string
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a parcel without booking it",
		RunE: func(cmd *cobra.Command, args []string) error {
			breakdown, err := core.CalculateCost(models.ParcelType(parcelType), weight, from, to)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Base fare:      %d\n", breakdown.BaseFare)
			fmt.Fprintf(out, "Weight charge:  %d\n", breakdown.WeightCharge)
			fmt.Fprintf(out, "Outside city:   %d\n", breakdown.OutsideCityCharge)
			fmt.Fprintf(out, "Total:          %d\n", breakdown.Total)
			return nil
		},
	}
	cmd.Flags().StringVarP(&parcelType, "type", "t", string(models.ParcelTypeDocument), "Parcel type (Document, Non-Document)")
	cmd.Flags().Float64VarP(&weight, "weight", "w", 0, "Weight in kg (Non-Document only)")
	cmd.Flags().StringVar(&from, "from", "", "Sender region")
	cmd.Flags().StringVar(&to, "to", "", "Receiver region")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret string
		uid    string
		name   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token [email]",
		Short: "Mint a bearer token for a server running with AUTH_MODE=hmac",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verifier, err := auth.NewHMACVerifier(secret)
			if err != nil {
				return err
			}
			if uid == "" {
				uid = "local-" + args[0]
			}
			token, err := verifier.Issue(auth.Identity{UID: uid, Email: args[0], Name: name}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret (defaults to $JWT_SECRET)")
	cmd.Flags().StringVar(&uid, "uid", "", "Subject uid (defaults to local-<email>)")
	cmd.Flags().StringVar(&name, "name", "", "Display name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func roleCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "role [email] [user|admin|rider]",
		Short: "Set the role of a registered user in the configured database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := models.Role(args[1])
			if !role.Valid() {
				return fmt.Errorf("%w: %q", core.ErrInvalidRole, args[1])
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.IsRelease())
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			repos, err := storage.Open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer repos.Close(context.Background())

			user, err := setRole(ctx, repos.Users, args[0], role)
			if err != nil {
				return err
			}
			logger.Info("Role updated", zap.String("email", user.Email), zap.String("role", string(user.Role)))
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(user)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output the updated user as JSON")
	return cmd
}

func setRole(ctx context.Context, users db.UserRepository, email string, role models.Role) (*models.User, error) {
	email = models.NormalizeEmail(email)
	user, err := users.SetRole(ctx, email, role)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: '%s' has never signed in", core.ErrUserNotFound, email)
	}
	return user, err
}
