package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aluiziolira/go-webintel/config"
	"github.com/aluiziolira/go-webintel/models"
)

func sampleProduct() *models.PlatformProduct {
	return &models.PlatformProduct{
		Name:        "Ceramic Mug",
		Price:       12.5,
		Description: "Hand-thrown stoneware mug.",
		URL:         "http://example.test/products/mug",
		SKU:         "MUG-001",
		ImageURL:    "http://example.test/img/mug.png",
		ScrapedAt:   time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC),
	}
}

func TestCSVWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}

	if err := writer.Write([]*models.PlatformProduct{sampleProduct()}); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d, want 2", len(records))
	}
	if records[0][0] != "name" || records[0][1] != "price" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][1] != "12.50" {
		t.Fatalf("price column = %q, want 12.50", records[1][1])
	}
}

func TestJSONWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.jsonl")

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}

	if err := writer.Write([]*models.PlatformProduct{sampleProduct()}); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open json: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		var decoded models.PlatformProduct
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid json line: %v", err)
		}
		if decoded.Name != "Ceramic Mug" {
			t.Fatalf("decoded name = %q", decoded.Name)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan json: %v", err)
	}
	if count != 1 {
		t.Fatalf("json lines=%d, want 1", count)
	}
}

func TestDualWriterWrite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "products.csv")
	jsonPath := filepath.Join(dir, "products.jsonl")

	writer, err := NewDualWriter(csvPath, jsonPath)
	if err != nil {
		t.Fatalf("create dual writer: %v", err)
	}

	if err := writer.Write([]*models.PlatformProduct{sampleProduct()}); err != nil {
		t.Fatalf("write dual: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close dual: %v", err)
	}

	if info, err := os.Stat(csvPath); err != nil || info.Size() == 0 {
		t.Fatalf("csv file missing or empty")
	}
	if info, err := os.Stat(jsonPath); err != nil || info.Size() == 0 {
		t.Fatalf("json file missing or empty")
	}
}

func TestNewWriterSelectsFormat(t *testing.T) {
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.OutputFile = filepath.Join(dir, "out.csv")
	cfg.OutputFormat = "dual"

	writer, err := NewWriter(cfg)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if _, ok := writer.(*DualWriter); !ok {
		t.Fatalf("writer type = %T, want *DualWriter", writer)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	cfg.OutputFormat = "yaml"
	if _, err := NewWriter(cfg); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
