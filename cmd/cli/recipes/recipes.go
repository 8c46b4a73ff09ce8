package recipes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/tasteboard/recipebox/cmd/cli/config"
	"github.com/tasteboard/recipebox/cmd/cli/output"
	"github.com/tasteboard/recipebox/internal/middleware"
	"github.com/tasteboard/recipebox/internal/models"
)

// InitRecipes registers recipe commands on the root command.
func InitRecipes(rootCmd *cobra.Command) {
	recipesCmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage your recipes",
	}
	recipesCmd.AddCommand(listRecipesCmd())
	recipesCmd.AddCommand(createRecipeCmd())
	rootCmd.AddCommand(recipesCmd)
}

// listRecipesCmd lists the logged-in user's recipes as a table or JSON.
func listRecipesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your recipes",
		Run: func(cmd *cobra.Command, args []string) {
			recipes, err := fetchRecipes()
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				_ = enc.Encode(recipes)
				return
			}

			rows := make([][]interface{}, 0, len(recipes))
			for _, r := range recipes {
				minutes := ""
				if r.MinutesToComplete != nil {
					minutes = fmt.Sprintf("%d", *r.MinutesToComplete)
				}
				rows = append(rows, []interface{}{r.ID, r.Title, minutes})
			}
			output.RenderTable([]string{"ID", "Title", "Minutes"}, rows)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

// createRecipeCmd creates a recipe owned by the logged-in user.
func createRecipeCmd() *cobra.Command {
	var title, instructions string
	var minutes int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a recipe",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("title is required")
			}
			if instructions == "" {
				return fmt.Errorf("instructions are required")
			}

			payload := map[string]interface{}{
				"title":        title,
				"instructions": instructions,
			}
			if cmd.Flags().Changed("minutes") {
				payload["minutes_to_complete"] = minutes
			}

			data, err := json.Marshal(payload)
			if err != nil {
				return err
			}

			req, err := http.NewRequest(http.MethodPost, config.APIURL()+"/recipes", bytes.NewBuffer(data))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			addSessionCookie(req)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusCreated {
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			}

			var recipe models.Recipe
			if err := json.Unmarshal(body, &recipe); err != nil {
				return err
			}
			fmt.Printf("Created recipe %q (id %d).\n", recipe.Title, recipe.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Recipe title")
	cmd.Flags().StringVar(&instructions, "instructions", "", "Recipe instructions")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Minutes to complete")

	return cmd
}

func fetchRecipes() ([]models.Recipe, error) {
	req, err := http.NewRequest(http.MethodGet, config.APIURL()+"/recipes", nil)
	if err != nil {
		return nil, err
	}
	addSessionCookie(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var recipes []models.Recipe
	if err := json.Unmarshal(body, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func addSessionCookie(req *http.Request) {
	if token := config.LoadToken(); token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}
}
