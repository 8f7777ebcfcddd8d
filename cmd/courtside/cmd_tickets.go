package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/narrative"
	"github.com/stitts-dev/courtside/internal/services"
)

var (
	ticketsDate  string
	ticketsKind  string
	ticketsLimit int
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "List tickets stored with --history",
	RunE:  runTickets,
}

func init() {
	rootCmd.AddCommand(ticketsCmd)
	ticketsCmd.Flags().StringVar(&ticketsDate, "date", "", "Slate date (YYYY-MM-DD)")
	ticketsCmd.Flags().StringVar(&ticketsKind, "kind", "", "conservative or aggressive")
	ticketsCmd.Flags().IntVar(&ticketsLimit, "limit", 20, "Maximum tickets to list")
}

func runTickets(cmd *cobra.Command, args []string) error {
	if historyPath == "" {
		return fmt.Errorf("--history is required")
	}

	filter := services.TicketFilter{Date: ticketsDate, Limit: ticketsLimit}
	if ticketsKind != "" {
		kind, err := models.ParseTicketKind(ticketsKind)
		if err != nil {
			return err
		}
		filter.Kind = kind
	}

	store, closeStore, err := openHistory(historyPath)
	if err != nil {
		return err
	}
	defer closeStore()

	records, err := store.List(context.Background(), filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !markdown {
		return writeJSON(out, records)
	}

	f := narrative.NewFormatter()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tKIND\tLEGS\tODDS\tMARKETS")
	for _, rec := range records {
		ticket, err := services.DecodeTicket(rec)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n", rec.SlateDate, rec.Kind, rec.LegCount, rec.CombinedOdds, strings.TrimSpace(f.TicketSummary(ticket)))
	}
	return w.Flush()
}
