package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ArowuTest/callops-backend/internal/config"
	"github.com/ArowuTest/callops-backend/internal/models"
	mongorepo "github.com/ArowuTest/callops-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/callops-backend/internal/services"
	"github.com/ArowuTest/callops-backend/pkg/mongodb"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

// Loads a CSV export of phone numbers into the pool through the same
// ingestion pipeline the API uses, so validation, chunking and duplicate
// handling behave identically.
//
// Usage:
//
//	go run ./cmd/scripts -file numbers.csv
func main() {
	filePath := flag.String("file", "", "path to the CSV file to import")
	numberCol := flag.String("number-col", "number", "header of the phone number column")
	areaCodeCol := flag.String("area-code-col", "area_code", "header of the area code column")
	nameCol := flag.String("name-col", "name", "header of the contact name column")
	addressCol := flag.String("address-col", "address", "header of the address column")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: import_numbers -file <numbers.csv>")
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	rows, err := readRows(*filePath, columnMap{
		number:   *numberCol,
		areaCode: *areaCodeCol,
		name:     *nameCol,
		address:  *addressCol,
	})
	if err != nil {
		slog.Error("failed to read CSV", "file", *filePath, "error", err)
		os.Exit(1)
	}
	slog.Info("CSV loaded", "file", *filePath, "rows", len(rows))

	uri := config.GetEnv("MONGODB_URI", cfg.MongoDB.URI)
	mongoClient, err := mongodb.NewClient(uri)
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)
	numberRepo := mongorepo.NewPhoneNumberRepository(db)
	bulkService := services.NewBulkService(numberRepo, nil, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	result, err := bulkService.BulkCreate(ctx, rows)
	if err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}

	slog.Info("import finished",
		"totalRows", result.Summary.TotalRows,
		"created", result.Summary.Created,
		"duplicates", result.Summary.Duplicates,
		"invalid", result.Summary.Invalid,
		"errors", result.Summary.Errors,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	for _, batch := range result.Batches {
		for _, invalid := range batch.InvalidRows {
			fmt.Printf("rejected %s: %s\n", invalid.Number, invalid.Reason)
		}
	}
}

type columnMap struct {
	number   string
	areaCode string
	name     string
	address  string
}

// readRows parses the CSV into ingestion rows using the header line to
// locate the configured columns. Only the number column is mandatory.
func readRows(path string, cols columnMap) ([]models.NumberRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	numberIdx, ok := index[strings.ToLower(cols.number)]
	if !ok {
		return nil, fmt.Errorf("column %q not found in header", cols.number)
	}

	pick := func(record []string, col string) string {
		idx, ok := index[strings.ToLower(col)]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []models.NumberRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if numberIdx >= len(record) {
			continue
		}
		rows = append(rows, models.NumberRow{
			Number:   strings.TrimSpace(record[numberIdx]),
			AreaCode: pick(record, cols.areaCode),
			Name:     pick(record, cols.name),
			Address:  pick(record, cols.address),
		})
	}
	return rows, nil
}
