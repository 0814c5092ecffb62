package tool

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Returns a line-based diff between two texts, with deleted lines prefixed by
// "-" and inserted lines by "+". It returns "" if the texts are equal.
func lineDiff(a, b string, del, ins *color.Color) string {
	if a == b {
		return ""
	}
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	var sb strings.Builder
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				del.Fprintln(&sb, "-"+line)
			case diffmatchpatch.DiffInsert:
				ins.Fprintln(&sb, "+"+line)
			default:
				sb.WriteString(" " + line + "\n")
			}
		}
	}
	return sb.String()
}
