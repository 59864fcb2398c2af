package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/hbnb/internal/model"
)

// Columns shown first in table, csv and markdown output. Remaining
// attributes are joined into a trailing column.
var fixedColumns = []string{model.FieldClassName, model.FieldID, model.FieldCreatedAt, model.FieldUpdatedAt}

const attributesColumn = "attributes"

// renderOptions tweaks human-readable output.
type renderOptions struct {
	NoColor bool
}

func renderRecords(w io.Writer, records []*model.Record, format string, opts renderOptions) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return renderJSON(w, records)
	case FormatYAML:
		return renderYAML(w, records)
	case FormatCSV:
		return renderCSV(w, records)
	case FormatMarkdown, "md":
		return renderMarkdown(w, records)
	case FormatTable, "":
		return renderTable(w, records, NewStyles(w, opts.NoColor))
	default:
		return fmt.Errorf("unknown format %q (supported: %s)", format, strings.Join(listFormats, ", "))
	}
}

func renderTable(w io.Writer, records []*model.Record, styles *Styles) error {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, styles.Muted.Render("(0 objects)"))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(headerRow())
	for _, rec := range records {
		t.AppendRow(recordRow(rec))
	}

	t.Render()
	_, _ = fmt.Fprintln(w, styles.Muted.Render(fmt.Sprintf("(%d objects)", len(records))))
	return nil
}

func renderJSON(w io.Writer, records []*model.Record) error {
	if records == nil {
		records = []*model.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// renderYAML builds the document by hand so attribute order survives.
func renderYAML(w io.Writer, records []*model.Record) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	if len(records) == 0 {
		seq.Style = yaml.FlowStyle
	}
	for _, rec := range records {
		mapping := &yaml.Node{Kind: yaml.MappingNode}
		for _, key := range rec.Keys() {
			v, _ := rec.Get(key)
			value := &yaml.Node{}
			if err := value.Encode(yamlValue(v)); err != nil {
				return fmt.Errorf("failed to encode %s: %w", key, err)
			}
			mapping.Content = append(mapping.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: key},
				value,
			)
		}
		seq.Content = append(seq.Content, mapping)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return err
	}
	return enc.Close()
}

// yamlValue converts decoded JSON numbers so they are emitted unquoted.
func yamlValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func renderCSV(w io.Writer, records []*model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headerStrings()); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(recordStrings(rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderMarkdown(w io.Writer, records []*model.Record) error {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, "(0 objects)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(headerRow())
	for _, rec := range records {
		t.AppendRow(recordRow(rec))
	}
	t.RenderMarkdown()
	return nil
}

func headerStrings() []string {
	return append(append([]string{}, fixedColumns...), attributesColumn)
}

func headerRow() table.Row {
	cols := headerStrings()
	row := make(table.Row, len(cols))
	for i, col := range cols {
		row[i] = col
	}
	return row
}

func recordRow(rec *model.Record) table.Row {
	values := recordStrings(rec)
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

func recordStrings(rec *model.Record) []string {
	values := make([]string, 0, len(fixedColumns)+1)
	for _, col := range fixedColumns {
		v, _ := rec.Get(col)
		values = append(values, formatValue(v))
	}

	var attrs []string
	for _, key := range rec.Keys() {
		if slices.Contains(fixedColumns, key) {
			continue
		}
		v, _ := rec.Get(key)
		attrs = append(attrs, key+"="+formatValue(v))
	}
	return append(values, strings.Join(attrs, " "))
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
