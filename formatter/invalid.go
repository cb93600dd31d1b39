package formatter

type InvalidAnswerFormatter struct{}

func (f *InvalidAnswerFormatter) ResultTemplate() string {
	return `{{header .Outcome .Severity .MaxLineNumWidth .Source .Question .Kind}}
{{- if .AnswerLines }}{{snippet .AnswerLines .Line .MaxLineNumWidth .Padding}}{{underlineAndMessage .Message .Padding .Line .Column .Width .AnswerLines}}
{{- else }}{{message .Message .Padding}}
{{- end }}
`
}
