package test

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Stripped turns a rendered frame into plain text: escape sequences and
// carriage returns are removed and each line loses its trailing blanks.
// Leading blanks are kept so column positions can still be asserted.
func Stripped(s string) string {
	s = ansi.Strip(strings.ReplaceAll(s, "\r", ""))
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
