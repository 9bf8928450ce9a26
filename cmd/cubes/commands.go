/* commands.go
 * Contains the subcommands of the cubes CLI
 */

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"deckdump-bot/api/api"
	"deckdump-bot/api/cubes"
	"deckdump-bot/api/draftdata"
	"deckdump-bot/api/external"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the cubes in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := cubes.Load(cubesFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, cube := range catalog.Cubes() {
				id := cube.CubeCobraID
				if id == "" {
					id = "-"
				}
				fmt.Fprintf(out, "%s\t%d cards\t%s\n", cube.Name, len(cube.Cards), id)
			}
			return nil
		},
	}
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [cube...]",
		Short: "Replace cube card lists with the current lists on CubeCobra",
		Long:  "Refreshes the named cubes, or every cube when none are named, and saves the catalog document.",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := cubes.Load(cubesFile)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(args))
			for _, arg := range args {
				cube, err := catalog.Lookup(arg)
				if err != nil {
					return err
				}
				names = append(names, cube.Name)
			}

			refreshed, err := cubes.Refresh(cmd.Context(), catalog, external.NewCubeCobraClient(cubeCobraURL), names...)
			if err != nil {
				return err
			}
			if err := refreshed.Save(cubesFile); err != nil {
				return err
			}

			if len(names) == 0 {
				names = refreshed.Names()
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				cube, _ := refreshed.Get(name)
				fmt.Fprintf(out, "Refreshed %s (%d cards)\n", name, len(cube.Cards))
			}
			return nil
		},
	}
}

func matchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <file>",
		Short: "Show which cubes a deck or draft log could belong to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := cubes.Load(cubesFile)
			if err != nil {
				return err
			}
			record, err := readRecord(args[0])
			if err != nil {
				return err
			}

			matches := catalog.Match(record.CardList())
			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintf(out, "No cube contains every card in this %s\n", record.Describe())
				return nil
			}
			for _, name := range matches {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a deck export or draft log and print what was read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readRecord(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s, %s\n", record.Describe(), record.Timestamp)
			switch record.Kind {
			case draftdata.KindDeck:
				deck := record.Deck
				fmt.Fprintf(out, "Maindeck (%d): %s\n", len(deck.Maindeck), strings.Join(deck.Maindeck, ", "))
				fmt.Fprintf(out, "Sideboard (%d): %s\n", len(deck.Sideboard), strings.Join(deck.Sideboard, ", "))
				if deck.Companion != "" {
					fmt.Fprintf(out, "Companion: %s\n", deck.Companion)
				}
				if deck.Commander != "" {
					fmt.Fprintf(out, "Commander: %s\n", deck.Commander)
				}
			case draftdata.KindDraftLog:
				for _, player := range record.DraftLog.Players {
					fmt.Fprintf(out, "%s: %d picks\n", player.Name, len(player.Picks))
				}
			}
			return nil
		},
	}
}

// readRecord decodes and parses a submission file the same way the bot does with an attachment
func readRecord(path string) (draftdata.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return draftdata.Record{}, err
	}
	text, err := api.Decode(data, "")
	if err != nil {
		return draftdata.Record{}, err
	}
	modTime := time.Now()
	if info, err := os.Stat(path); err == nil {
		modTime = info.ModTime()
	}
	return draftdata.Parse(text, "cli", modTime)
}
