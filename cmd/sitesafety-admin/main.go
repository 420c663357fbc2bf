package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"go-sitesafety-ws/internal/config"
	"go-sitesafety-ws/internal/lifecycle"
	"go-sitesafety-ws/internal/model"
	"go-sitesafety-ws/internal/repository"
	"go-sitesafety-ws/pkg/database"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "sitesafety-admin",
		Usage: "Operator tasks for the site safety database",
		Commands: []*cli.Command{
			seedCommand(),
			storesCommand(),
			sitesCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func connect() (*gorm.DB, config.Config) {
	cfg := config.Load()
	return database.ConnectDB(cfg.TimeZone), cfg
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Migrate the schema and insert the default store directory",
		Action: func(ctx context.Context, c *cli.Command) error {
			db, _ := connect()
			if err := db.AutoMigrate(&model.Store{}, &model.Site{}, &model.InspectionLog{}); err != nil {
				return err
			}
			if err := repository.NewStoreRepo(db).SeedDefaults(); err != nil {
				return err
			}
			log.Printf("Seeded %d default stores", len(model.DefaultStores))
			return nil
		},
	}
}

func storesCommand() *cli.Command {
	return &cli.Command{
		Name:  "stores",
		Usage: "Inspect and maintain stores",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stores, optionally filtered by name",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "q", Usage: "case-insensitive name filter"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, _ := connect()
					stores, err := repository.NewStoreRepo(db).Search(c.String("q"))
					if err != nil {
						return err
					}
					for _, s := range stores {
						fmt.Printf("%-20s %-12s %s\n", s.ID, s.Category, s.Name)
					}
					return nil
				},
			},
			{
				Name:  "reset-code",
				Usage: "Replace a store's entry code",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Required: true},
					&cli.StringFlag{Name: "code", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, _ := connect()
					if err := repository.NewStoreRepo(db).UpdateAccessCode(c.String("id"), c.String("code")); err != nil {
						return fmt.Errorf("reset code of %s: %w", c.String("id"), err)
					}
					log.Printf("Entry code of %s updated", c.String("id"))
					return nil
				},
			},
		},
	}
}

func sitesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sites",
		Usage: "Inspect construction sites",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List a store's sites in display order with their temporal status",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "store", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, cfg := connect()
					sites, err := repository.NewSiteRepo(db).FindByStore(c.String("store"))
					if err != nil {
						return err
					}
					today := lifecycle.Day(nowIn(cfg))
					sites = lifecycle.SortForDisplay(sites, today)
					if c.Bool("json") {
						return printJSON(sites)
					}
					for _, s := range sites {
						status := lifecycle.ComputeTemporalStatus(s, today)
						fmt.Printf("%s  %-14s %s ~ %s  %s\n", s.ID, status.Label(),
							s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"), s.Name)
					}
					return nil
				},
			},
		},
	}
}

func nowIn(cfg config.Config) time.Time {
	return time.Now().In(cfg.Location)
}
