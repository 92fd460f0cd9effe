package bot

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/poiesic/silo/storage"
)

// exportColumns is the CSV header for collection exports.
var exportColumns = []string{
	"Title", "URL", "Summary", "Description", "Domain",
	"Categories", "Entities", "Author", "Content Type",
	"Published", "Created At", "Updated At", "Snapshots",
}

// BuildCSV encodes export rows as a CSV document, one row per link.
func BuildCSV(rows []*storage.ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportColumns); err != nil {
		return nil, err
	}

	for _, row := range rows {
		link := row.Link

		var author, published string
		if row.Metadata != nil {
			author = row.Metadata.Author
			published = row.Metadata.PublishedAt
		}

		entities := make([]string, 0, len(row.Entities))
		for _, e := range row.Entities {
			entities = append(entities, e.Name)
		}

		snapshots := make([]string, 0, len(row.Snapshots))
		for _, s := range row.Snapshots {
			snapshots = append(snapshots, s.Ref)
		}

		record := []string{
			link.Title,
			link.URL,
			link.Summary,
			link.Description,
			link.Domain,
			strings.Join(row.Categories, ", "),
			strings.Join(entities, ", "),
			author,
			string(link.ContentType),
			published,
			link.FirstSeen.Format("2006-01-02 15:04:05"),
			link.LastUpdated.Format("2006-01-02 15:04:05"),
			strings.Join(snapshots, ", "),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
