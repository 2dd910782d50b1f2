package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter flattens a Document into Section, Heading, Label, Value rows.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// RenderDocument produces CSV encoded bytes for doc. Cells of headed tables
// are labelled "<row> / <column>".
func (e *CSVExporter) RenderDocument(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	write := func(record ...string) {
		_ = writer.Write(record)
	}

	write("Section", "Heading", "Label", "Value")
	for _, f := range doc.Meta {
		write("Header", "", f.Label, f.Value)
	}
	for _, section := range doc.Sections {
		for _, table := range section.Tables {
			for _, row := range table.Rows {
				if len(row) == 0 {
					continue
				}
				if len(table.Columns) == 0 {
					value := ""
					if len(row) > 1 {
						value = row[len(row)-1]
					}
					write(section.Title, table.Caption, row[0], value)
					continue
				}
				for i := 1; i < len(row) && i < len(table.Columns); i++ {
					write(section.Title, table.Caption, row[0]+" / "+table.Columns[i], row[i])
				}
			}
		}
	}
	for _, f := range doc.Footer {
		write("Footer", "", f.Label, f.Value)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
