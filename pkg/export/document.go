package export

// Field is a label/value line in a document header or footer.
type Field struct {
	Label string
	Value string
}

// Table is a bordered table. Tables without Columns render as label/value rows.
type Table struct {
	Caption string
	Columns []string
	Rows    [][]string
}

// Section is a numbered report section made of one or more tables.
type Section struct {
	Title  string
	Tables []Table
}

// Document is the layout-neutral description of a report. Every renderer
// (HTML, PDF, CSV) consumes the same Document so their content cannot drift.
type Document struct {
	Title    string
	Meta     []Field
	Sections []Section
	Footer   []Field
}

// KeyValueTable builds a caption-less label/value table.
func KeyValueTable(caption string, fields ...Field) Table {
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f.Label, f.Value})
	}
	return Table{Caption: caption, Rows: rows}
}
