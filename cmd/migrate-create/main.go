package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const migrationsDir = "db/migrations"

func main() {
	name := flag.String("name", "", "migration name, e.g. add_round_clue_index")
	flag.Parse()

	if *name == "" {
		log.Fatalf("usage: migrate-create -name <migration_name> (pairs are written to %s)", migrationsDir)
	}
	if strings.ContainsAny(*name, " ") {
		log.Fatal("migration name must not contain spaces")
	}

	version := time.Now().UTC().Format("20060102150405")
	stem := filepath.Join(migrationsDir, version+"_"+*name)

	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		log.Fatalf("create %s: %v", migrationsDir, err)
	}
	for _, direction := range []string{"up", "down"} {
		path := stem + "." + direction + ".sql"
		if err := createEmptyMigration(path, direction); err != nil {
			log.Fatalf("create %s migration: %v", direction, err)
		}
		log.Printf("created %s", path)
	}
}

func createEmptyMigration(path, direction string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file already exists: %s", path)
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte("-- "+direction+" migration\n"), 0o644)
}
