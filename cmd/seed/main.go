// Package main contains the gazetteer seed tool. It loads city reference
// rows from a CSV file (name,lat,lng) into the bot's sqlite database.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"citymapbot/internal/database"
	"citymapbot/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	dbPath := flag.String("db", "storage.db", "Path to sqlite database file")
	csvPath := flag.String("csv", "cities.csv", "Path to city CSV file (name,lat,lng)")
	flag.Parse()

	log := logger.New("info", false)
	slog.SetDefault(log)

	cities, err := readCities(*csvPath)
	if err != nil {
		log.Error("Failed to read city CSV", "path", *csvPath, "error", err)
		return 1
	}

	db, err := database.NewDB(*dbPath)
	if err != nil {
		log.Error("Failed to connect to database", "path", *dbPath, "error", err)
		return 1
	}
	defer database.CloseDB(db)

	store := database.NewStore(db, log)
	count, err := store.ImportCities(context.Background(), cities)
	if err != nil {
		log.Error("Failed to import cities", "error", err)
		return 1
	}

	log.Info("Seed completed", "cities", count, "db", *dbPath)
	return 0
}

// readCities parses the CSV file into city rows, validating coordinate
// ranges. A header line starting with "name" is skipped.
func readCities(path string) ([]database.City, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3

	var cities []database.City
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		line++

		if line == 1 && record[0] == "name" {
			continue
		}

		lat, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid latitude %q: %w", line, record[1], err)
		}
		lng, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid longitude %q: %w", line, record[2], err)
		}
		if lat < -90 || lat > 90 {
			return nil, fmt.Errorf("line %d: latitude %v out of range", line, lat)
		}
		if lng < -180 || lng > 180 {
			return nil, fmt.Errorf("line %d: longitude %v out of range", line, lng)
		}

		cities = append(cities, database.City{
			Name: record[0],
			Lat:  lat,
			Lng:  lng,
		})
	}

	return cities, nil
}
