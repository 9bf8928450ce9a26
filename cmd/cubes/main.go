/* main.go
 * Entry point of the cube catalog maintenance CLI. Works on the same config/cubes.json the bot reads, so it should
 * not be run against a catalog the bot is refreshing at the same time
 * Usage: go run ./cmd/cubes refresh "Arena Cube"
 */

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cubesFile    string
	cubeCobraURL string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cubes",
		Short:         "Maintain the deck dump bot cube catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cubesFile, "cubes", "config/cubes.json", "Path to the cube catalog document")
	rootCmd.PersistentFlags().StringVar(&cubeCobraURL, "cubecobra", "", "CubeCobra base URL, defaults to cubecobra.com")

	rootCmd.AddCommand(listCmd(), refreshCmd(), matchCmd(), parseCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
