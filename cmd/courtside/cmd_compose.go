package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/narrative"
)

var composeGameID string

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose recommendation buckets for every game in the slate",
	Long: `Compose runs the full pipeline per game: player contexts, enhancers,
theses and the four strategy buckets. --game limits output to one game.`,
	RunE: runCompose,
}

func init() {
	rootCmd.AddCommand(composeCmd)
	composeCmd.Flags().StringVar(&composeGameID, "game", "", "Only compose this game ID")
}

func runCompose(cmd *cobra.Command, args []string) error {
	slate, err := loadSlate(slatePath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	composer, err := newComposer(newLogger(), slate)
	if err != nil {
		return err
	}

	if composeGameID != "" {
		var picked []models.GameSlate
		for _, gs := range slate.Games {
			if gs.Game.GameID == composeGameID {
				picked = append(picked, gs)
			}
		}
		if len(picked) == 0 {
			return fmt.Errorf("game %s not in slate", composeGameID)
		}
		slate.Games = picked
	}

	comps := composer.ComposeSlate(slate)

	out := cmd.OutOrStdout()
	if !markdown {
		return writeJSON(out, comps)
	}

	f := narrative.NewFormatter()
	parts := make([]string, 0, len(comps))
	for _, comp := range comps {
		parts = append(parts, f.CompositionMarkdown(comp))
	}
	_, err = fmt.Fprintln(out, strings.Join(parts, "\n---\n\n"))
	return err
}
