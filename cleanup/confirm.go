package cleanup

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ConfirmationRequest carries what the operator is asked to approve.
// It is a single run-wide gate, not a per-resource prompt.
type ConfirmationRequest struct {
	Project       string
	ResourceCount int
}

// Confirmer asks the operator for the run-wide go-ahead.
type Confirmer interface {
	Confirm(ctx context.Context, req ConfirmationRequest) (bool, error)
}

// TerminalConfirmer prompts on a terminal and requires an explicit
// affirmative token.
type TerminalConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm prompts once and accepts only "yes" or "y".
func (c *TerminalConfirmer) Confirm(ctx context.Context, req ConfirmationRequest) (bool, error) {
	fmt.Fprintf(c.Out, "About to evaluate %d resources in project %s for LIVE cleanup.\n", req.ResourceCount, req.Project)
	fmt.Fprintf(c.Out, "Type 'yes' to proceed: ")

	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "yes" || answer == "y", nil
}

// AutoConfirmer approves every request. Used by the --yes flag.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(ctx context.Context, req ConfirmationRequest) (bool, error) {
	return true, nil
}
