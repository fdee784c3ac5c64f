package pipeline

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"

	"salesmini/internal"
)

const sampleCSV = "orderer.companyName,orderer.personName,totalPriceInfo.totalPrice,items.name,items.count\n" +
	"株式会社A,山田,\"1,100円\",ペン,2\n" +
	",,,ノート,1\n"

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func checkSample(t *testing.T, tbl internal.RawTable) {
	t.Helper()
	if len(tbl.Columns) != 5 || len(tbl.Rows) != 2 {
		t.Fatalf("cols=%d rows=%d", len(tbl.Columns), len(tbl.Rows))
	}
	if tbl.Rows[0][internal.ColOrdererCompanyName] != "株式会社A" {
		t.Fatalf("company=%q", tbl.Rows[0][internal.ColOrdererCompanyName])
	}
	if tbl.Rows[0][internal.ColTotalPrice] != "1,100円" {
		t.Fatalf("total=%q", tbl.Rows[0][internal.ColTotalPrice])
	}
	if tbl.Rows[1][internal.ColItemName] != "ノート" || tbl.Rows[1][internal.ColOrdererCompanyName] != "" {
		t.Fatalf("row2=%v", tbl.Rows[1])
	}
}

func TestReadCSVEncodings(t *testing.T) {
	sjis, err := japanese.ShiftJIS.NewEncoder().String(sampleCSV)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name     string
		blob     []byte
		encoding string
	}{
		{name: "utf8", blob: []byte(sampleCSV), encoding: "auto"},
		{name: "utf8 bom", blob: append([]byte{0xEF, 0xBB, 0xBF}, sampleCSV...), encoding: "auto"},
		{name: "shift_jis detected", blob: []byte(sjis), encoding: "auto"},
		{name: "shift_jis forced", blob: []byte(sjis), encoding: "cp932"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tbl, err := ReadCSV(tc.blob, tc.encoding)
			if err != nil {
				t.Fatal(err)
			}
			checkSample(t, tbl)
		})
	}
}

func TestReadCSVUnsupportedEncoding(t *testing.T) {
	if _, err := ReadCSV([]byte(sampleCSV), "ebcdic"); err == nil {
		t.Fatal("expected error")
	}
}

func TestReadXLSX(t *testing.T) {
	blob := mkXLSX([][]any{
		{"orderer.companyName", "orderer.personName", "totalPriceInfo.totalPrice", "items.name", "items.count"},
		{"株式会社A", "山田", "1,100円", "ペン", 2},
		{nil, nil, nil, "ノート", 1},
	})
	tbl, err := ReadXLSX(blob)
	if err != nil {
		t.Fatal(err)
	}
	checkSample(t, tbl)
}

func TestReadHTMLTable(t *testing.T) {
	html := `<html><body><table>
<tr><th>orderer.companyName</th><th>orderer.personName</th><th>totalPriceInfo.totalPrice</th><th>items.name</th><th>items.count</th></tr>
<tr><td>株式会社A</td><td>山田</td><td>1,100円</td><td>ペン</td><td>2</td></tr>
<tr><td></td><td></td><td></td><td>ノート</td><td>1</td></tr>
</table></body></html>`
	tbl, err := ReadHTMLTable(html)
	if err != nil {
		t.Fatal(err)
	}
	checkSample(t, tbl)

	if _, err := ReadHTMLTable("<p>no table</p>"); !errors.Is(err, ErrNoOrderTable) {
		t.Fatalf("err=%v", err)
	}
}

func mkEML(attachmentName string, content []byte) []byte {
	var b strings.Builder
	b.WriteString("From: shop@example.com\r\n")
	b.WriteString("To: office@example.com\r\n")
	b.WriteString("Subject: orders\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/mixed; boundary=\"BOUNDARY\"\r\n\r\n")
	b.WriteString("--BOUNDARY\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString("export attached\r\n")
	b.WriteString("--BOUNDARY\r\n")
	b.WriteString("Content-Type: application/octet-stream; name=\"" + attachmentName + "\"\r\n")
	b.WriteString("Content-Disposition: attachment; filename=\"" + attachmentName + "\"\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
	b.WriteString(base64.StdEncoding.EncodeToString(content))
	b.WriteString("\r\n--BOUNDARY--\r\n")
	return []byte(b.String())
}

func TestReadEML(t *testing.T) {
	tbl, err := ReadEML(mkEML("orders.csv", []byte(sampleCSV)), "auto")
	if err != nil {
		t.Fatal(err)
	}
	checkSample(t, tbl)

	_, err = ReadEML(mkEML("notes.txt", []byte("hello")), "auto")
	if !errors.Is(err, ErrNoOrderTable) {
		t.Fatalf("err=%v", err)
	}
}

func TestReadInputInfersType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := ReadInput("", path, "auto")
	if err != nil {
		t.Fatal(err)
	}
	checkSample(t, tbl)

	if _, err := ReadInput("", filepath.Join(dir, "export.pdf"), "auto"); err == nil {
		t.Fatal("expected error for missing pdf")
	}
}
