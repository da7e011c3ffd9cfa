// package formatter renders catalog and library listings to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/zaukho/zx/internal/models"
)

// FormatPrice renders a price in dollars, or a dash when unpriced.
func FormatPrice(p float64) string {
	if p <= 0 {
		return "-"
	}
	return fmt.Sprintf("$%.2f", p)
}

// ContentsToCSV converts a content listing to CSV with columns: ID, Title, Kind, Year, Buy, Rent
func ContentsToCSV(contents []models.Content) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Kind", "Year", "Buy", "Rent"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, content := range contents {
		record := []string{
			strconv.Itoa(content.ID),
			content.Title,
			content.Kind,
			strconv.Itoa(content.ReleaseYear),
			FormatPrice(content.PriceBuy),
			FormatPrice(content.PriceRent),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// LibraryToCSV converts library entries to CSV with columns: ID, Title, Kind, Access, Expires
func LibraryToCSV(entries []models.LibraryEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Kind", "Access", "Expires"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		expires := ""
		if entry.ExpiresAt != nil {
			expires = entry.ExpiresAt.Format(time.RFC3339)
		}
		record := []string{
			strconv.Itoa(entry.Content.ID),
			entry.Content.Title,
			entry.Content.Kind,
			entry.Kind,
			expires,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// LibraryToMarkdown converts library entries to a Markdown listing.
func LibraryToMarkdown(title string, entries []models.LibraryEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Titles**: %d\n\n", len(entries)))

	for i, entry := range entries {
		access := entry.Kind
		if entry.ExpiresAt != nil {
			access = fmt.Sprintf("%s until %s", entry.Kind, entry.ExpiresAt.Format("2006-01-02"))
		}
		yearPart := ""
		if entry.Content.ReleaseYear > 0 {
			yearPart = fmt.Sprintf(" (%d)", entry.Content.ReleaseYear)
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s — %s [%s]\n", i+1, entry.Content.Title, yearPart, entry.Content.Kind, access))
	}

	return buf.Bytes(), nil
}

// ContentsToText converts a content listing to plain text.
func ContentsToText(title string, contents []models.Content) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", title))
	buf.WriteString(fmt.Sprintf("Titles: %d\n\n", len(contents)))

	for i, content := range contents {
		buf.WriteString(fmt.Sprintf("%d. %s [%s]", i+1, content.Title, content.Kind))
		if content.ReleaseYear > 0 {
			buf.WriteString(fmt.Sprintf(" (%d)", content.ReleaseYear))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}
