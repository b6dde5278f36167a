package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/mash-protocol/unbox-go/pkg/discovery"
	"github.com/mash-protocol/unbox-go/pkg/provision"
)

// errAborted stops a run from the confirmation prompt.
var errAborted = errors.New("aborted by operator")

// answer is an operator reply to the per-device prompt.
type answer uint8

const (
	answerNo answer = iota
	answerYes
	answerQuit
)

// parseAnswer reads a prompt reply. Anything unrecognised declines.
func parseAnswer(line string) answer {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return answerYes
	case "q", "quit":
		return answerQuit
	default:
		return answerNo
	}
}

// newConfirm returns a ConfirmFunc prompting on the terminal, and a
// function releasing the terminal.
func newConfirm() (discovery.ConfirmFunc, func(), error) {
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create readline: %w", err)
	}

	confirm := func(_ context.Context, c provision.Candidate) (bool, error) {
		rl.SetPrompt(fmt.Sprintf("provision %s? [y/N/q] ", c.SSID))
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return false, errAborted
		}
		if err != nil {
			return false, err
		}
		switch parseAnswer(line) {
		case answerYes:
			return true, nil
		case answerQuit:
			return false, errAborted
		default:
			return false, nil
		}
	}
	return confirm, func() { _ = rl.Close() }, nil
}
