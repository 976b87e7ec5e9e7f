// package formatter provides functions to export movie listings to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"reelx/internal/models"
	"reelx/internal/shared"
)

// MovieExport bundles a named movie listing for export, typically a
// profile's watchlist or a filtered catalog view.
type MovieExport struct {
	Name    string         `json:"name"`
	Profile string         `json:"profile,omitempty"`
	Movies  []models.Movie `json:"movies"`
}

// ExportToCSV converts a MovieExport to CSV format with columns: ID, Title, Genre, Director, Year, Rating, Duration, IMDbID
func ExportToCSV(export *MovieExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Genre", "Director", "Year", "Rating", "Duration", "IMDbID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range export.Movies {
		record := []string{
			movie.ID,
			movie.Title,
			movie.Genre,
			movie.Director,
			strconv.Itoa(movie.Year),
			strconv.FormatFloat(movie.Rating, 'f', -1, 64),
			movie.Duration,
			movie.ImdbID,
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

// ExportToMarkdown converts a MovieExport to Markdown format with optional poster images
func ExportToMarkdown(export *MovieExport, withPosters bool) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Name))

	if export.Profile != "" {
		buf.WriteString(fmt.Sprintf("**Profile**: %s\n\n", export.Profile))
	}
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(export.Movies)))

	buf.WriteString("## Movies\n\n")
	for i, movie := range export.Movies {
		yearPart := ""
		if movie.Year > 0 {
			yearPart = fmt.Sprintf(" (%d)", movie.Year)
		}
		buf.WriteString(fmt.Sprintf("%d. **%s**%s", i+1, movie.Title, yearPart))
		if movie.Director != "" {
			buf.WriteString(fmt.Sprintf(" - %s", movie.Director))
		}
		if movie.Rating > 0 {
			buf.WriteString(fmt.Sprintf(" [%.1f]", movie.Rating))
		}
		buf.WriteString("\n")
		if withPosters && movie.ImageURL != "" {
			buf.WriteString(fmt.Sprintf("   ![%s](%s)\n", movie.Title, movie.ImageURL))
		}
		if movie.Description != "" {
			buf.WriteString(fmt.Sprintf("   > %s\n", movie.Description))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a MovieExport to plain text format
func ExportToText(export *MovieExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Listing: %s\n", export.Name))
	if export.Profile != "" {
		buf.WriteString(fmt.Sprintf("Profile: %s\n", export.Profile))
	}
	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", len(export.Movies)))

	for i, movie := range export.Movies {
		if movie.Year > 0 {
			buf.WriteString(fmt.Sprintf("%d. %s (%d)\n", i+1, movie.Title, movie.Year))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, movie.Title))
		}
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads a poster image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// WriteExport writes a MovieExport to path in the given format and returns
// the written file path. Format is one of json, csv, markdown, txt; anything
// else falls back to json.
func WriteExport(export *MovieExport, format, path string) (string, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case "csv":
		data, err = ExportToCSV(export)
	case "markdown":
		data, err = ExportToMarkdown(export, true)
	case "txt":
		data, err = ExportToText(export)
	default:
		data, err = shared.MarshalJSON(export, true)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s export: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// ExtensionFor returns the file extension for an export format.
func ExtensionFor(format string) string {
	switch format {
	case "csv":
		return ".csv"
	case "markdown":
		return ".md"
	case "txt":
		return ".txt"
	default:
		return ".json"
	}
}
