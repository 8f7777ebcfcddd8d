package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/internal/dvp"
	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/pipeline"
	"github.com/stitts-dev/courtside/internal/services"
	"github.com/stitts-dev/courtside/pkg/config"
	"github.com/stitts-dev/courtside/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	if err := services.NewTicketStore(db).AutoMigrate(); err != nil {
		return err
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_ticket_records_date_kind ON ticket_records(slate_date, kind)",
		"CREATE INDEX IF NOT EXISTS idx_ticket_records_created ON ticket_records(created_at DESC)",
	}
	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

func dropTables(db *database.DB) error {
	for _, table := range []string{"ticket_records"} {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}

// seedData composes a sample slate and stores its daily multiple.
func seedData(db *database.DB) error {
	if err := runMigrations(db); err != nil {
		return err
	}

	slate := sampleSlate(time.Now().Format("2006-01-02"))
	matchups := dvp.NewAnalyzer(dvp.FallbackTable())
	matchups.Load(dvp.Generate(dvp.SamplesFromSlate(slate)))
	composer := pipeline.New(pipeline.DefaultOptions(), matchups, logrus.StandardLogger())
	dm, _ := composer.DailyMultiple(slate)

	records, err := services.NewTicketStore(db).SaveMultiple(context.Background(), dm)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"date":         slate.Date,
		"tickets":      len(records),
		"conservative": len(dm.Conservative.Legs),
		"aggressive":   len(dm.Aggressive.Legs),
	}).Info("Seeded daily multiple")
	return nil
}

func sampleSlate(date string) models.Slate {
	exp := func(n int) *int { return &n }
	stat := func(min, pts, reb, ast float64, years int) models.RecentStats {
		return models.RecentStats{
			GamesPlayed:       5,
			MinutesAvg:        min,
			PointsAvg:         pts,
			ReboundsAvg:       reb,
			AssistsAvg:        ast,
			CombinedAvg:       pts + reb + ast,
			LastMinutes:       min,
			SeasonsExperience: exp(years),
		}
	}

	return models.Slate{
		Date: date,
		Games: []models.GameSlate{
			{
				Game: models.GameContext{GameID: "seed-lal-gsw", HomeTeam: "LAL", AwayTeam: "GSW", Spread: -3.5, Total: 231.5, Pace: 103.2},
				Roster: []models.RosterEntry{
					{PlayerID: "seed-1", Name: "Luka Doncic", Team: "LAL", Position: "PG", IsStarter: true, Status: "Active"},
					{PlayerID: "seed-2", Name: "LeBron James", Team: "LAL", Position: "SF", IsStarter: true, Status: "Active"},
					{PlayerID: "seed-3", Name: "Deandre Ayton", Team: "LAL", Position: "C", IsStarter: true, Status: "Active"},
					{PlayerID: "seed-4", Name: "Jaxson Hayes", Team: "LAL", Position: "C", Status: "Active"},
					{PlayerID: "seed-5", Name: "Stephen Curry", Team: "GSW", Position: "PG", IsStarter: true, Status: "Active"},
					{PlayerID: "seed-6", Name: "Draymond Green", Team: "GSW", Position: "PF", IsStarter: true, Status: "Questionable"},
					{PlayerID: "seed-7", Name: "Jonathan Kuminga", Team: "GSW", Position: "PF", Status: "Active"},
				},
				Stats: map[string]models.RecentStats{
					"seed-1": stat(36, 29, 8, 9, 7),
					"seed-2": stat(34, 24, 7, 8, 22),
					"seed-3": stat(30, 15, 11, 2, 7),
					"seed-4": stat(16, 7, 5, 1, 6),
					"seed-5": stat(33, 27, 4, 6, 16),
					"seed-6": stat(28, 9, 7, 6, 13),
					"seed-7": stat(24, 15, 5, 2, 4),
				},
			},
			{
				Game: models.GameContext{GameID: "seed-bos-mia", HomeTeam: "BOS", AwayTeam: "MIA", Spread: -9, Total: 214, Pace: 97.4},
				Roster: []models.RosterEntry{
					{PlayerID: "seed-8", Name: "Jayson Tatum", Team: "BOS", Position: "SF", IsStarter: true, Status: "Out"},
					{PlayerID: "seed-9", Name: "Jaylen Brown", Team: "BOS", Position: "SG", IsStarter: true, Status: "Active"},
					{PlayerID: "seed-10", Name: "Payton Pritchard", Team: "BOS", Position: "PG", Status: "Active"},
					{PlayerID: "seed-11", Name: "Bam Adebayo", Team: "MIA", Position: "C", IsStarter: true, Status: "Active"},
					{PlayerID: "seed-12", Name: "Tyler Herro", Team: "MIA", Position: "SG", IsStarter: true, Status: "Active"},
				},
				Stats: map[string]models.RecentStats{
					"seed-8":  stat(36, 27, 9, 5, 8),
					"seed-9":  stat(34, 23, 6, 4, 9),
					"seed-10": stat(25, 14, 3, 4, 5),
					"seed-11": stat(33, 18, 10, 4, 8),
					"seed-12": stat(34, 22, 5, 5, 6),
				},
			},
		},
	}
}
