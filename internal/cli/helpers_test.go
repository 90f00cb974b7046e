package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// execute runs cmd with args and returns what it wrote to stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

// stubPrompter answers prompts from fixed queues and records the questions.
type stubPrompter struct {
	inputs   []string
	confirms []bool
	err      error
	asked    []string
}

func (p *stubPrompter) Input(message, help string) (string, error) {
	p.asked = append(p.asked, message)
	if p.err != nil {
		return "", p.err
	}
	if len(p.inputs) == 0 {
		return "", errors.New("unexpected input prompt: " + message)
	}
	answer := p.inputs[0]
	p.inputs = p.inputs[1:]
	return answer, nil
}

func (p *stubPrompter) Confirm(message string, def bool) (bool, error) {
	p.asked = append(p.asked, message)
	if p.err != nil {
		return false, p.err
	}
	if len(p.confirms) == 0 {
		return false, errors.New("unexpected confirm prompt: " + message)
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}
