package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/courtside/internal/narrative"
	"github.com/stitts-dev/courtside/internal/services"
	"github.com/stitts-dev/courtside/pkg/database"
)

var multipleCmd = &cobra.Command{
	Use:   "multiple",
	Short: "Build the conservative and aggressive tickets for the slate",
	Long: `Multiple composes every game, then assembles the two daily tickets with
correlation screening. With --history both tickets are stored in SQLite.`,
	RunE: runMultiple,
}

func init() {
	rootCmd.AddCommand(multipleCmd)
}

func runMultiple(cmd *cobra.Command, args []string) error {
	slate, err := loadSlate(slatePath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	log := newLogger()
	composer, err := newComposer(log, slate)
	if err != nil {
		return err
	}
	dm, _ := composer.DailyMultiple(slate)

	if historyPath != "" {
		store, closeStore, err := openHistory(historyPath)
		if err != nil {
			return err
		}
		defer closeStore()

		records, err := store.SaveMultiple(context.Background(), dm)
		if err != nil {
			return err
		}
		log.WithField("tickets", len(records)).Info("Stored daily multiple")
	}

	out := cmd.OutOrStdout()
	if markdown {
		_, err = fmt.Fprint(out, narrative.NewFormatter().MultipleMarkdown(dm))
		return err
	}
	return writeJSON(out, dm)
}

func openHistory(path string) (*services.TicketStore, func(), error) {
	db, err := database.NewSQLiteConnection(path)
	if err != nil {
		return nil, nil, err
	}
	store := services.NewTicketStore(db)
	if err := store.AutoMigrate(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}
