package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tasteboard/recipebox/cmd/cli/auth"
	"github.com/tasteboard/recipebox/cmd/cli/recipes"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:   "recipebox",
	Short: "Recipebox CLI",
	Long:  "Command line interface for interacting with the Recipebox API",
}

func init() {
	auth.InitAuth(RootCmd)
	recipes.InitRecipes(RootCmd)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Optional helper to return the RootCmd
func GetRoot() *cobra.Command {
	return RootCmd
}
