package main

import (
	"flag"
	"log"

	"clueboard/internal/config"
	"clueboard/internal/db"
)

func main() {
	filePath := flag.String("file", "catalog.csv", "path to category,value,prompt,answer csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	inserted, err := db.LoadCatalog(conn, *filePath)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}
	log.Printf("loaded %d questions", inserted)
}
