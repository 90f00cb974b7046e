package cli

import (
	"github.com/AlecAivazis/survey/v2"
)

// Prompter asks the operator for values the command line left out.
type Prompter interface {
	// Input asks for a non-empty string.
	Input(message, help string) (string, error)

	// Confirm asks a yes/no question.
	Confirm(message string, def bool) (bool, error)
}

// SurveyPrompter prompts on the terminal.
type SurveyPrompter struct{}

// Input implements Prompter.
func (SurveyPrompter) Input(message, help string) (string, error) {
	var out string
	err := survey.AskOne(&survey.Input{
		Message: message,
		Help:    help,
	}, &out, survey.WithValidator(survey.Required))
	return out, err
}

// Confirm implements Prompter.
func (SurveyPrompter) Confirm(message string, def bool) (bool, error) {
	out := def
	err := survey.AskOne(&survey.Confirm{
		Message: message,
		Default: def,
	}, &out)
	return out, err
}

func (o *RootOptions) prompter() Prompter {
	if o.Prompter == nil {
		return SurveyPrompter{}
	}
	return o.Prompter
}
