package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"

	"salesmini/internal"
	"salesmini/internal/util"
)

var ErrNoOrderTable = errors.New("no order table found in input")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts an uploaded blob to UTF-8. With "auto" a BOM or valid
// UTF-8 wins and anything else is read as Shift_JIS (CP932 exports).
func DecodeText(blob []byte, encoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "auto":
		if bytes.HasPrefix(blob, utf8BOM) {
			return string(blob[len(utf8BOM):]), nil
		}
		if utf8.Valid(blob) {
			return string(blob), nil
		}
		return decodeShiftJIS(blob)
	case "utf-8", "utf8", "utf-8-sig":
		return string(bytes.TrimPrefix(blob, utf8BOM)), nil
	case "shift_jis", "sjis", "cp932", "windows-31j":
		return decodeShiftJIS(blob)
	default:
		return "", fmt.Errorf("unsupported input encoding: %s", encoding)
	}
}

func decodeShiftJIS(blob []byte) (string, error) {
	out, err := japanese.ShiftJIS.NewDecoder().Bytes(blob)
	if err != nil {
		return "", fmt.Errorf("decode shift_jis: %w", err)
	}
	return string(out), nil
}

func ReadCSV(blob []byte, encoding string) (internal.RawTable, error) {
	text, err := DecodeText(blob, encoding)
	if err != nil {
		return internal.RawTable{}, err
	}
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return internal.RawTable{}, fmt.Errorf("read csv: %w", err)
		}
		records = append(records, rec)
	}
	return tableFromRecords(records)
}

// ReadXLSX reads the first sheet; its first row is the column header.
func ReadXLSX(content []byte) (internal.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return internal.RawTable{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return internal.RawTable{}, ErrNoOrderTable
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return internal.RawTable{}, err
	}
	return tableFromRecords(rows)
}

// ReadHTMLTable reads the first table with at least a header row.
func ReadHTMLTable(html string) (internal.RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return internal.RawTable{}, err
	}

	var records [][]string
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() < 1 {
			return true
		}
		rows.Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, cell.Text())
			})
			records = append(records, cells)
		})
		return false
	})
	if len(records) == 0 {
		return internal.RawTable{}, ErrNoOrderTable
	}
	return tableFromRecords(records)
}

// ReadEML takes the first CSV or XLSX attachment of a mailed export, then
// falls back to a table in the HTML body.
func ReadEML(raw []byte, encoding string) (internal.RawTable, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return internal.RawTable{}, err
	}
	for _, att := range env.Attachments {
		lower := strings.ToLower(strings.TrimSpace(att.FileName))
		switch {
		case strings.HasSuffix(lower, ".csv"):
			return ReadCSV(att.Content, encoding)
		case strings.HasSuffix(lower, ".xlsx"):
			return ReadXLSX(att.Content)
		}
	}
	if strings.Contains(strings.ToLower(env.HTML), "<table") {
		return ReadHTMLTable(env.HTML)
	}
	return internal.RawTable{}, ErrNoOrderTable
}

func tableFromRecords(records [][]string) (internal.RawTable, error) {
	if len(records) == 0 {
		return internal.RawTable{}, ErrNoOrderTable
	}
	header := util.NormalizeCells(records[0])
	table := internal.RawTable{Columns: make([]string, 0, len(header))}
	for _, h := range header {
		if h != "" {
			table.Columns = append(table.Columns, h)
		}
	}
	for _, rec := range records[1:] {
		row := make(internal.RawRow, len(header))
		for i, h := range header {
			if h == "" || i >= len(rec) {
				continue
			}
			row[h] = util.NormalizeCell(rec[i])
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
