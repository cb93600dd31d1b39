package formatter

type IncorrectAnswerFormatter struct{}

func (f *IncorrectAnswerFormatter) ResultTemplate() string {
	return `{{header .Outcome .Severity .MaxLineNumWidth .Source .Question .Kind}}
{{- compare "answer" .Answer .Padding}}
{{- compare "solution" .Solution .Padding}}
{{- note .Note .Padding}}
`
}
