package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/tasteboard/recipebox/cmd/cli/config"
	"github.com/tasteboard/recipebox/internal/middleware"
	"github.com/tasteboard/recipebox/internal/models"
)

// InitAuth registers auth-related CLI commands on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(signupCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
}

// signupCmd creates an account and stores the session token locally.
func signupCmd() *cobra.Command {
	var username, password, bio, imageURL string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a Recipebox account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("username is required")
			}

			payload := map[string]string{
				"username":  username,
				"password":  password,
				"bio":       bio,
				"image_url": imageURL,
			}
			var user models.User
			token, err := postAuthEndpoint("/signup", payload, &user)
			if err != nil {
				return fmt.Errorf("failed to sign up: %w", err)
			}
			if err := config.SaveToken(token); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			fmt.Printf("Account created. Logged in as %s (id %d).\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username for the new account")
	cmd.Flags().StringVar(&password, "password", "", "Password for the new account")
	cmd.Flags().StringVar(&bio, "bio", "", "Optional bio")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "Optional avatar image URL")

	return cmd
}

// loginCmd logs in and stores the session token locally.
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Recipebox API",
		Long:  "Authenticate with the Recipebox API and store a session token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("username is required")
			}

			payload := map[string]string{"username": username, "password": password}
			var user models.User
			token, err := postAuthEndpoint("/login", payload, &user)
			if err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if err := config.SaveToken(token); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			fmt.Printf("Login successful. Logged in as %s.\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password")

	return cmd
}

// logoutCmd ends the server-side session and clears the stored token.
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out of the Recipebox API",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := config.LoadToken()
			if token == "" {
				fmt.Println("Not logged in.")
				return nil
			}

			req, err := http.NewRequest(http.MethodDelete, config.APIURL()+"/logout", nil)
			if err != nil {
				return err
			}
			addSessionCookie(req, token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			// Clear locally even when the server already forgot the session.
			if err := config.ClearToken(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

// whoamiCmd shows the account bound to the stored session.
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := config.LoadToken()
			if token == "" {
				return fmt.Errorf("not logged in")
			}

			req, err := http.NewRequest(http.MethodGet, config.APIURL()+"/check_session", nil)
			if err != nil {
				return err
			}
			addSessionCookie(req, token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("session invalid (status %d): %s", resp.StatusCode, string(body))
			}

			var user models.User
			if err := json.Unmarshal(body, &user); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (id %d)\n", user.Username, user.ID)
			if user.Bio != "" {
				fmt.Println(user.Bio)
			}
			return nil
		},
	}
}

// addSessionCookie attaches the stored session token as the session cookie.
func addSessionCookie(req *http.Request, token string) {
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
}

// postAuthEndpoint POSTs payload to path and returns the session token from the
// Set-Cookie response header, decoding the body into out when provided.
func postAuthEndpoint(path string, payload interface{}, out interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, config.APIURL()+path, bytes.NewBuffer(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var token string
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			token = c.Value
		}
	}
	if token == "" {
		return "", fmt.Errorf("no session cookie in response")
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return "", err
		}
	}

	return token, nil
}
