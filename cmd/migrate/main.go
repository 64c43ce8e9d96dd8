package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"remitra/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("migrate: loading config: %v", err)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("migrate: opening db/migrations against the waybill database: %v", err)
	}
	defer m.Close()

	if len(os.Args) < 2 {
		fmt.Println("Usage: migrate [up|down|steps N|version]")
		fmt.Println("Applies the waybill schema migrations from db/migrations.")
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: up: %v", err)
		}
		log.Println("migrate: waybill schema is up to date")

	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: down: %v", err)
		}
		log.Println("migrate: waybill schema reverted")

	case "steps":
		if len(os.Args) < 3 {
			log.Fatal("migrate: steps requires a number argument")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("migrate: invalid steps argument: %v", err)
		}
		if err := m.Steps(n); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: steps: %v", err)
		}
		log.Printf("migrate: applied %d steps", n)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("migrate: reading version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n", cmd)
		fmt.Println("Usage: migrate [up|down|steps N|version]")
		os.Exit(1)
	}
}
