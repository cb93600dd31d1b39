package formatter

// GradingErrorFormatter renders internal failures, such as a solution
// that does not parse or a formula the rewrite engine cannot normalize.
type GradingErrorFormatter struct{}

func (f *GradingErrorFormatter) ResultTemplate() string {
	return `{{header .Outcome .Severity .MaxLineNumWidth .Source .Question .Kind}}
{{- message .Message .Padding}}
`
}

type DisagreementFormatter struct{}

func (f *DisagreementFormatter) ResultTemplate() string {
	return `{{header .Outcome .Severity .MaxLineNumWidth .Source .Question .Kind}}
{{- compare "answer" .Answer .Padding}}
{{- compare "solution" .Solution .Padding}}
{{- note .Note .Padding}}
`
}
