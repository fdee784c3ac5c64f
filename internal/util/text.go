package util

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// NormalizeCell trims a cell and collapses inner whitespace runs.
func NormalizeCell(input string) string {
	s := strings.ReplaceAll(input, "\u00a0", " ")
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

func NormalizeCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, NormalizeCell(c))
	}
	return out
}

func IsBlank(input string) bool {
	return strings.TrimSpace(input) == ""
}
