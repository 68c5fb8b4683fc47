package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benmeehan/fleetops/internal/api"
	"github.com/benmeehan/fleetops/internal/models"
	"github.com/benmeehan/fleetops/pkg/session"
)

var errNoTokenIssued = errors.New("authentication response carried no token")

// login runs the first step of the login flow and stores the issued token.
// Users bound to several companies get a temporary session and must call
// selectCompany; everyone else is logged in for good.
func login(ctx context.Context, client *api.Client, store *session.Store, email, password string) (models.LoginResult, bool, error) {
	if err := store.Clear(); err != nil {
		return models.LoginResult{}, false, fmt.Errorf("failed to clear previous session: %w", err)
	}

	res, err := unwrap(client.Login(ctx, email, password))
	if err != nil {
		return res, false, err
	}
	if res.Token == "" {
		return res, false, errNoTokenIssued
	}

	if res.RequiresCompanySelection || len(res.Companies) > 1 {
		return res, true, store.SaveTemporary(res.Token, res.User)
	}

	var company json.RawMessage
	if len(res.Companies) == 1 {
		if company, err = json.Marshal(res.Companies[0]); err != nil {
			return res, false, err
		}
	}
	return res, false, store.SaveFinal(res.Token, res.User, company)
}

// selectCompany exchanges the temporary session for a final one bound to companyID.
func selectCompany(ctx context.Context, client *api.Client, store *session.Store, companyID string) (models.SelectCompanyResult, error) {
	if _, ok := store.ActiveToken(); !ok {
		return models.SelectCompanyResult{}, api.ErrNotAuthenticated
	}

	res, err := unwrap(client.SelectCompany(ctx, companyID))
	if err != nil {
		return res, err
	}
	if res.Token == "" {
		return res, errNoTokenIssued
	}

	user := res.User
	if len(user) == 0 {
		user, _ = store.User()
	}
	return res, store.SaveFinal(res.Token, user, res.Company)
}

// logout tells the backend and always clears the local session.
func logout(ctx context.Context, a *app) error {
	if err := a.client.Logout(ctx).Err(); err != nil {
		a.logger.Warn().Err(err).Msg("Backend logout failed, clearing local session anyway")
	}
	return a.store.Clear()
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			res, pending, err := login(cmd.Context(), a.client, a.store, email, password)
			if err != nil {
				return err
			}
			if !pending {
				fmt.Fprintln(a.out, "Logged in.")
				return nil
			}

			fmt.Fprintln(a.out, "Select a company with `fleetops select-company <id>`:")
			for _, c := range res.Companies {
				fmt.Fprintf(a.out, "  %s\t%s\n", c.ID, c.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account e-mail")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSelectCompanyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select-company <company-id>",
		Short: "Finish a multi-company login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := selectCompany(cmd.Context(), a.client, a.store, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Company selected.")
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logout(cmd.Context(), a); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored user and company",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := a.store.AuthHeader(); !ok {
				return api.ErrNotAuthenticated
			}
			user, _ := a.store.User()
			company, _ := a.store.Company()
			return a.printJSON(map[string]json.RawMessage{"user": user, "company": company})
		},
	}
}
