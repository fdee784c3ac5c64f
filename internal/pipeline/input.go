package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"salesmini/internal"
)

// InputTypeFromPath maps a file extension to a reader name.
func InputTypeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return "csv"
	case ".xlsx":
		return "xlsx"
	case ".html", ".htm":
		return "html"
	case ".eml":
		return "eml"
	default:
		return ""
	}
}

func ReadInput(inputType, path, encoding string) (internal.RawTable, error) {
	if strings.TrimSpace(inputType) == "" {
		inputType = InputTypeFromPath(path)
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return internal.RawTable{}, err
	}
	switch inputType {
	case "csv":
		return ReadCSV(blob, encoding)
	case "xlsx":
		return ReadXLSX(blob)
	case "html":
		text, err := DecodeText(blob, encoding)
		if err != nil {
			return internal.RawTable{}, err
		}
		return ReadHTMLTable(text)
	case "eml":
		return ReadEML(blob, encoding)
	default:
		return internal.RawTable{}, fmt.Errorf("unsupported input type: %q", inputType)
	}
}
