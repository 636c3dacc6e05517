package main

import (
	"errors"
	"fmt"

	"github.com/grouptodo/gtd/api"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with a Google account",
	Long: `Log in with a Google account.

Without --code, prints the Google consent URL to visit. Visiting it yields an
authorization code; run login again with --code to finish.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var (
	loginCode        string
	loginRedirectURI string
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var whoamiJSON bool

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringVar(&loginCode, "code", "", "Google authorization code")
	loginCmd.Flags().StringVar(&loginRedirectURI, "redirect-uri", "urn:ietf:wg:oauth:2.0:oob", "OAuth redirect URI")

	whoamiCmd.Flags().BoolVar(&whoamiJSON, "json", false, "Output as JSON")
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	if loginCode == "" {
		if cfg.API.GoogleClientID == "" {
			return fmt.Errorf("no Google client ID configured; set api.google-client-id or %s", "GROUPTODO_GOOGLE_CLIENT_ID")
		}
		fmt.Println("Visit the URL below, approve access, then run:")
		fmt.Println("  gtd login --code <authorization-code>")
		fmt.Println()
		fmt.Println(api.GoogleAuthURL(cfg.API.GoogleClientID, loginRedirectURI))
		return nil
	}

	user, err := client.LoginWithGoogle(cmd.Context(), loginCode)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	name := user.Nickname
	if name == "" {
		name = user.Email
	}
	fmt.Printf("Logged in as %s\n", name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	if err := client.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	// Prefer the backend's view; fall back to the stored profile when
	// offline.
	user, err := client.Profile(cmd.Context())
	if err != nil {
		if errors.Is(err, api.ErrSessionExpired) || api.IsAuthError(err) {
			return fmt.Errorf("not logged in; run 'gtd login'")
		}
		stored, storedErr := client.StoredUser()
		if storedErr != nil {
			if errors.Is(storedErr, api.ErrNotLoggedIn) {
				return fmt.Errorf("not logged in; run 'gtd login'")
			}
			return err
		}
		user = stored
	}

	if whoamiJSON {
		return encodeJSONToStdout(user)
	}

	fmt.Printf("%s <%s>\n", user.Nickname, user.Email)
	return nil
}
