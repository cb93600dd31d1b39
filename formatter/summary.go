package formatter

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/grader/grade"
)

// FormatSummary renders the one-line summary of a graded batch.
func FormatSummary(s grade.Summary) string {
	var builder strings.Builder

	if s.Source != "" {
		builder.WriteString(fileStyle.Sprintf("%s: ", s.Source))
	}
	builder.WriteString(noStyle.Sprintf("%d %s, %d valid, ", s.Total, plural(s.Total, "question"), s.Valid))
	builder.WriteString(suggestionStyle.Sprintf("%d correct", s.Correct))

	if s.Errors > 0 {
		builder.WriteString(noStyle.Sprint(", "))
		builder.WriteString(errorStyle.Sprintf("%d %s", s.Errors, plural(s.Errors, "error")))
	}
	if s.Disagreements > 0 {
		builder.WriteString(noStyle.Sprint(", "))
		builder.WriteString(warningStyle.Sprintf("%d %s", s.Disagreements, plural(s.Disagreements, "disagreement")))
	}
	if s.CacheHits > 0 {
		builder.WriteString(noStyle.Sprintf(" (%d cached)", s.CacheHits))
	}
	builder.WriteString("\n")

	return builder.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return fmt.Sprintf("%ss", word)
}
