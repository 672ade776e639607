package cli

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/diillson/finops-latam-cli/internal/application/usecase"
	"github.com/diillson/finops-latam-cli/internal/shared/types"
	"github.com/spf13/cobra"
)

func (app *CLIApp) newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")

			var err error
			if email, err = app.prompt.ask("Email", email); err != nil {
				return err
			}
			password, err := app.prompt.secret("Password")
			if err != nil {
				return err
			}

			return app.withServices(cmd, func(_ *types.Config, svc *Services) error {
				return reported(svc.Session.Login(cmd.Context(), email, password))
			})
		},
	}
	cmd.Flags().StringP("email", "e", "", "Account email")
	return cmd
}

func (app *CLIApp) newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var creds types.Credentials
			creds.CompanyName, _ = cmd.Flags().GetString("company")
			creds.Email, _ = cmd.Flags().GetString("email")
			creds.ContactName, _ = cmd.Flags().GetString("contact")

			var err error
			if creds.CompanyName, err = app.prompt.ask("Company name", creds.CompanyName); err != nil {
				return err
			}
			if creds.Email, err = app.prompt.ask("Email", creds.Email); err != nil {
				return err
			}
			if creds.ContactName, err = app.prompt.ask("Contact name", creds.ContactName); err != nil {
				return err
			}
			if creds.Password, err = app.prompt.secret("Password"); err != nil {
				return err
			}

			return app.withServices(cmd, func(_ *types.Config, svc *Services) error {
				return reported(svc.Session.Register(cmd.Context(), creds))
			})
		},
	}
	cmd.Flags().String("company", "", "Company name")
	cmd.Flags().StringP("email", "e", "", "Account email")
	cmd.Flags().String("contact", "", "Contact name")
	return cmd
}

func (app *CLIApp) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd, func(_ *types.Config, svc *Services) error {
				return reported(svc.Session.Logout())
			})
		},
	}
}

func (app *CLIApp) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Validate the stored session with the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd, func(_ *types.Config, svc *Services) error {
				return svc.Session.CheckAuthStatus(cmd.Context())
			})
		},
	}
}

func (app *CLIApp) newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <path>",
		Short: "Call a backend endpoint with the stored session token",
		Example: "  finops-latam fetch /api/free-tier-status\n" +
			"  finops-latam fetch -X POST -H 'Content-Type: text/plain' --data hello /api/echo",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, _ := cmd.Flags().GetString("method")
			rawHeaders, _ := cmd.Flags().GetStringArray("header")
			data, _ := cmd.Flags().GetString("data")

			header, err := parseHeaders(rawHeaders)
			if err != nil {
				return err
			}

			return app.withServices(cmd, func(_ *types.Config, svc *Services) error {
				if _, err := svc.Session.RestoreSession(); err != nil {
					return err
				}

				req := usecase.FetchRequest{
					Method: strings.ToUpper(method),
					Path:   args[0],
					Header: header,
				}
				if data != "" {
					req.Body = strings.NewReader(data)
				}

				resp, err := svc.Session.AuthenticatedFetch(cmd.Context(), req)
				if err != nil {
					return reported(err)
				}
				return writeResponse(cmd.OutOrStdout(), resp)
			})
		},
	}
	cmd.Flags().StringP("method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringArrayP("header", "H", nil, "Extra header 'Key: Value' (repeatable)")
	cmd.Flags().String("data", "", "Request body")
	return cmd
}

// parseHeaders converte valores "Key: Value" em http.Header.
func parseHeaders(raw []string) (http.Header, error) {
	header := http.Header{}
	for _, h := range raw {
		key, value, ok := strings.Cut(h, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q, expected 'Key: Value'", h)
		}
		header.Add(key, strings.TrimSpace(value))
	}
	return header, nil
}

func writeResponse(w io.Writer, resp *http.Response) error {
	defer resp.Body.Close()

	fmt.Fprintf(w, "HTTP %s\n", resp.Status)
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}
	fmt.Fprintln(w)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("request failed with HTTP %d", resp.StatusCode)
	}
	return nil
}
