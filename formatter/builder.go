package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnoswap-labs/grader/grade"
	"github.com/gnoswap-labs/grader/internal/goal"
	"github.com/gnoswap-labs/grader/internal/literal"
)

const tabWidth = 8

// outcome set
const (
	InvalidAnswer   = "invalid-answer"
	IncorrectAnswer = "incorrect-answer"
	GradingError    = "grading-error"
	Disagreement    = "cross-check-disagreement"
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
	noStyle         = color.New(color.FgWhite)
)

// resultFormatter is the interface that wraps the ResultTemplate method.
// Implementations render one kind of outcome.
type resultFormatter interface {
	ResultTemplate() string
}

// getResultFormatter returns the formatter for outcome.
func getResultFormatter(outcome string) resultFormatter {
	switch outcome {
	case InvalidAnswer:
		return &InvalidAnswerFormatter{}
	case GradingError:
		return &GradingErrorFormatter{}
	case Disagreement:
		return &DisagreementFormatter{}
	default:
		return &IncorrectAnswerFormatter{}
	}
}

// Outcome classifies r. Correct results without a cross-check
// disagreement have no outcome and are not rendered.
func Outcome(r grade.Result) string {
	switch {
	case r.Err != nil:
		return GradingError
	case r.Disagreement:
		return Disagreement
	case !r.Valid:
		return InvalidAnswer
	case !r.Correct:
		return IncorrectAnswer
	default:
		return ""
	}
}

// GenerateFormattedResults renders every result of source that needs
// attention into a human-readable string.
func GenerateFormattedResults(source string, results []grade.Result) string {
	var builder strings.Builder
	for _, r := range results {
		outcome := Outcome(r)
		if outcome == "" {
			continue
		}
		builder.WriteString(buildResult(source, outcome, r, getResultFormatter(outcome)))
	}
	return builder.String()
}

/***** Result Formatter Builder *****/

type ResultData struct {
	Outcome         string
	Severity        string
	Source          string
	Question        string
	Kind            string
	Padding         string
	MaxLineNumWidth int
	Answer          string
	Solution        string
	Message         string
	Note            string
	AnswerLines     []string
	Line            int
	Column          int
	Width           int
}

func buildResult(source, outcome string, r grade.Result, formatter resultFormatter) string {
	data := ResultData{
		Outcome:         outcome,
		Severity:        severityOf(outcome),
		Source:          source,
		Question:        r.Question,
		Kind:            string(r.Kind),
		Answer:          r.Answer,
		Solution:        r.Solution,
		MaxLineNumWidth: 1,
	}

	switch outcome {
	case GradingError:
		data.Message = r.Err.Error()
	case InvalidAnswer:
		fillParseError(&data, r)
	case IncorrectAnswer:
		data.Note = typeMismatchNote(r)
	case Disagreement:
		if r.Correct {
			data.Note = "the formulas are equal in normal form but not logically equivalent"
		} else {
			data.Note = "the formulas are logically equivalent but their normal forms differ"
		}
	}
	data.Padding = strings.Repeat(" ", data.MaxLineNumWidth+1)

	funcMap := template.FuncMap{
		"header":              header,
		"snippet":             answerSnippet,
		"underlineAndMessage": underlineAndMessage,
		"compare":             compare,
		"message":             message,
		"note":                note,
	}

	tmpl := template.Must(template.New("result").Funcs(funcMap).Parse(formatter.ResultTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting result: %v", err)
	}
	return buf.String()
}

func severityOf(outcome string) string {
	switch outcome {
	case GradingError:
		return "ERROR"
	case Disagreement:
		return "INFO"
	default:
		return "WARNING"
	}
}

// fillParseError locates the answer's parse error for the snippet.
func fillParseError(data *ResultData, r grade.Result) {
	if r.Answer == "" {
		data.Message = "no answer"
		return
	}

	pos, token, msg, ok := parseErrorDetails(r.AnswerErr)
	if !ok {
		data.Message = "answer does not parse"
		return
	}

	data.AnswerLines = strings.Split(r.Answer, "\n")
	data.Line, data.Column = lineColumn(r.Answer, pos)
	data.Width = max(len(token), 1)
	data.MaxLineNumWidth = calculateMaxLineNumWidth(data.Line)
	data.Message = msg
}

func parseErrorDetails(err error) (pos int, token, msg string, ok bool) {
	var lerr *literal.ParseError
	if errors.As(err, &lerr) {
		return lerr.Pos, lerr.Token, lerr.Msg, true
	}
	var gerr *goal.ParseError
	if errors.As(err, &gerr) {
		return gerr.Pos, gerr.Token, gerr.Msg, true
	}
	return 0, "", "", false
}

func typeMismatchNote(r grade.Result) string {
	if r.Kind != grade.KindLiteral {
		return ""
	}
	answerTag, err := literal.TypeOf(r.Answer)
	if err != nil {
		return ""
	}
	solutionTag, err := literal.TypeOf(r.Solution)
	if err != nil || answerTag == solutionTag {
		return ""
	}
	return fmt.Sprintf("expected a %s, got a %s", solutionTag, answerTag)
}

// utils functions used in the text templates

func header(outcome, severity string, maxLineNumWidth int, source, question, kind string) string {
	var endString string
	switch severity {
	case "ERROR":
		endString = errorStyle.Sprintf("error: ")
	case "WARNING":
		endString = warningStyle.Sprintf("warning: ")
	case "INFO":
		endString = messageStyle.Sprintf("info: ")
	}

	endString += ruleStyle.Sprintf("%s\n", outcome)

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	if source != "" {
		endString += fileStyle.Sprintf("%s: ", source)
	}
	endString += fileStyle.Sprintf("%s", question)
	endString += noStyle.Sprintf(" [%s]\n", kind)

	return endString
}

func answerSnippet(lines []string, line int, maxLineNumWidth int, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	if line-1 < 0 || line-1 >= len(lines) {
		return endString
	}

	lineNum := fmt.Sprintf("%*d", maxLineNumWidth, line)
	endString += lineStyle.Sprintf("%s | ", lineNum)
	endString += noStyle.Sprintf("%s\n", lines[line-1])
	return endString
}

func underlineAndMessage(msg string, padding string, line int, column int, width int, lines []string) string {
	endString := lineStyle.Sprintf("%s| ", padding)

	if line-1 < 0 || line-1 >= len(lines) {
		endString += messageStyle.Sprintf("%s\n", msg)
		return endString
	}

	underlineStart := calculateVisualColumn(lines[line-1], column)
	endString += strings.Repeat(" ", underlineStart)
	endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", width))

	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", msg)
	return endString
}

func compare(label, text, padding string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	return lineStyle.Sprintf("%s| ", padding) + noStyle.Sprintf("%-9s %s\n", label+":", text)
}

func message(msg string, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + messageStyle.Sprintf("%s\n", msg)
}

func note(n string, padding string) string {
	if n == "" {
		return ""
	}
	return lineStyle.Sprintf("%s= ", padding) + suggestionStyle.Sprint("note: ") + noStyle.Sprintf("%s\n", n)
}

// lineColumn converts a byte offset into a 1-based line and column.
func lineColumn(text string, offset int) (int, int) {
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	line := strings.Count(before, "\n") + 1
	column := offset - strings.LastIndex(before, "\n")
	return line, column
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

// calculateVisualColumn calculates the visual column position
// in a string. taking into account tab characters.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}
