package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/zaukho/zx/internal/models"
)

func sampleEntries() []models.LibraryEntry {
	expiry := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return []models.LibraryEntry{
		{
			ID:      1,
			Content: models.Content{ID: 10, Title: "The Long Night", Kind: "movie", ReleaseYear: 2024},
			Kind:    "purchase",
		},
		{
			ID:        2,
			Content:   models.Content{ID: 11, Title: "Harbor Lights", Kind: "tv-series"},
			Kind:      "rental",
			ExpiresAt: &expiry,
		},
	}
}

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		price float64
		want  string
	}{
		{12.99, "$12.99"},
		{3.5, "$3.50"},
		{0, "-"},
		{-1, "-"},
	}
	for _, tc := range cases {
		if got := FormatPrice(tc.price); got != tc.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tc.price, got, tc.want)
		}
	}
}

func TestFormatters(t *testing.T) {
	t.Run("ContentsToCSV", func(t *testing.T) {
		contents := []models.Content{
			{ID: 10, Title: "The Long Night", Kind: "movie", ReleaseYear: 2024, PriceBuy: 12.99, PriceRent: 3.99},
		}

		data, err := ContentsToCSV(contents)
		if err != nil {
			t.Fatalf("ContentsToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Title,Kind,Year,Buy,Rent") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "The Long Night") {
			t.Error("CSV missing title")
		}
		if !strings.Contains(output, "$12.99") {
			t.Error("CSV missing buy price")
		}
	})

	t.Run("LibraryToCSV", func(t *testing.T) {
		data, err := LibraryToCSV(sampleEntries())
		if err != nil {
			t.Fatalf("LibraryToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Title,Kind,Access,Expires") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "purchase") {
			t.Error("CSV missing access column")
		}
		if !strings.Contains(output, "2026-03-01") {
			t.Error("CSV missing rental expiry")
		}

		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 3 {
			t.Errorf("expected header plus 2 rows, got %d lines", len(lines))
		}
	})

	t.Run("LibraryToMarkdown", func(t *testing.T) {
		data, err := LibraryToMarkdown("My Library", sampleEntries())
		if err != nil {
			t.Fatalf("LibraryToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "# My Library") {
			t.Errorf("markdown missing title heading, got: %s", output)
		}
		if !strings.Contains(output, "**Titles**: 2") {
			t.Error("markdown missing count")
		}
		if !strings.Contains(output, "The Long Night (2024)") {
			t.Error("markdown missing title with year")
		}
		if !strings.Contains(output, "rental until 2026-03-01") {
			t.Error("markdown missing rental expiry")
		}
	})

	t.Run("ContentsToText", func(t *testing.T) {
		contents := []models.Content{
			{ID: 10, Title: "The Long Night", Kind: "movie", ReleaseYear: 2024},
			{ID: 11, Title: "Harbor Lights", Kind: "tv-series"},
		}

		data, err := ContentsToText("Trending", contents)
		if err != nil {
			t.Fatalf("ContentsToText failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Trending\n") {
			t.Errorf("text missing title, got: %s", output)
		}
		if !strings.Contains(output, "1. The Long Night [movie] (2024)") {
			t.Errorf("text missing numbered row, got: %s", output)
		}
		if !strings.Contains(output, "2. Harbor Lights [tv-series]\n") {
			t.Errorf("yearless row should omit the year, got: %s", output)
		}
	})

	t.Run("empty listings", func(t *testing.T) {
		if data, err := ContentsToCSV(nil); err != nil || !strings.Contains(string(data), "ID,Title") {
			t.Errorf("empty CSV should still carry headers: %v", err)
		}
		if data, err := LibraryToMarkdown("Empty", nil); err != nil || !strings.Contains(string(data), "**Titles**: 0") {
			t.Errorf("empty markdown should report zero titles: %v", err)
		}
	})
}
