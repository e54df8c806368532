// Package extract produces the intermediate line stream consumed by the
// document stream: either by running the external extractor process over a
// dump file, or by converting plain HTML documents directly.
package extract

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cognicore/lexfreq/pkg/lexfreq/internalerr"
)

// Extractor runs the external document-extraction command over dump files
// and streams its stdout to a consumer.
type Extractor struct {
	Command string
	// Processes is passed to the extractor's --processes flag when > 0.
	Processes int
}

// CheckVersion runs "<command> --version" and compares the reported version
// against want. It returns the reported string and whether it matched; an
// error means the command could not be run at all.
func (e *Extractor) CheckVersion(ctx context.Context, want string) (string, bool, error) {
	out, err := exec.CommandContext(ctx, e.Command, "--version").Output()
	if err != nil {
		return "", false, fmt.Errorf("%w: run %s --version: %v", internalerr.ErrExtractor, e.Command, err)
	}
	got := strings.TrimSpace(string(out))
	return got, got == fmt.Sprintf("%s %s", e.Command, want), nil
}

// Run extracts one dump file and passes the resulting line stream to
// consume. A non-zero extractor exit is fatal for the dump's partition:
// partial output must never be silently merged, so consume's work is
// discarded by the caller when Run reports an error.
func (e *Extractor) Run(ctx context.Context, dump string, consume func(io.Reader) error) error {
	args := []string{}
	if e.Processes > 0 {
		args = append(args, "--processes", strconv.Itoa(e.Processes))
	}
	args = append(args,
		"--no-templates",
		"-o", "-", // output to stdout
		"--html-safe", "", // turn off html-safe output
		dump,
	)
	cmd := exec.CommandContext(ctx, e.Command, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: pipe: %v", internalerr.ErrExtractor, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: start %s: %v", internalerr.ErrExtractor, e.Command, err)
	}

	consumeErr := consume(stdout)
	// Drain whatever the consumer left so Wait does not block on a full
	// pipe buffer.
	io.Copy(io.Discard, stdout)
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%w: %s on %s: %v", internalerr.ErrExtractor, e.Command, dump, err)
	}
	if consumeErr != nil {
		return fmt.Errorf("consume %s: %w", dump, consumeErr)
	}
	return nil
}
