package approval

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// AutoHandler answers every request the same way without user interaction
type AutoHandler struct {
	Approve bool
}

// RequestApproval implements Handler
func (a AutoHandler) RequestApproval(_ context.Context, _ Request) (Response, error) {
	if a.Approve {
		return Response{Approved: true, Reason: "auto-approved"}, nil
	}
	return Response{Approved: false, Reason: "auto-denied"}, nil
}

// CLIHandler asks for confirmation on a terminal
type CLIHandler struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewCLIHandler creates a new CLI approval handler
func NewCLIHandler(reader io.Reader, writer io.Writer) *CLIHandler {
	return &CLIHandler{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// RequestApproval prompts the user and waits for an answer or ctx expiry
func (c *CLIHandler) RequestApproval(ctx context.Context, req Request) (Response, error) {
	c.displayRequest(req)

	responseChan := make(chan Response, 1)
	errorChan := make(chan error, 1)

	go func() {
		response, err := c.readUserInput()
		if err != nil {
			errorChan <- err
		} else {
			responseChan <- response
		}
	}()

	select {
	case response := <-responseChan:
		return response, nil

	case err := <-errorChan:
		return Response{}, err

	case <-ctx.Done():
		fmt.Fprintln(c.writer, "\n  Confirmation TIMED OUT")
		return Response{Approved: false, Reason: "timeout"}, ctx.Err()
	}
}

func (c *CLIHandler) displayRequest(req Request) {
	fmt.Fprintln(c.writer, "")
	fmt.Fprintf(c.writer, "  Step %d/%d requires confirmation\n", req.Step, req.Total)
	fmt.Fprintf(c.writer, "  Tool:     %s\n", req.Tool)
	if req.Purpose != "" {
		fmt.Fprintf(c.writer, "  Purpose:  %s\n", req.Purpose)
	}

	keys := make([]string, 0, len(req.Context))
	for k := range req.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(c.writer, "  %s: %s\n", k, req.Context[k])
	}

	fmt.Fprint(c.writer, "  Run this step? [y/N]: ")
}

func (c *CLIHandler) readUserInput() (Response, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return Response{Approved: false, Reason: "no input provided"}, nil
		}
		return Response{}, errors.Wrap(err, "failed to read input")
	}

	input := strings.TrimSpace(strings.ToLower(line))
	switch input {
	case "y", "yes":
		fmt.Fprintln(c.writer, "  Step APPROVED")
		return Response{Approved: true, Reason: "approved by user"}, nil
	case "n", "no", "":
		fmt.Fprintln(c.writer, "  Step DENIED")
		return Response{Approved: false, Reason: "denied by user"}, nil
	default:
		fmt.Fprintf(c.writer, "  Invalid input: %s (defaulting to DENY)\n", input)
		return Response{Approved: false, Reason: fmt.Sprintf("invalid input: %s", input)}, nil
	}
}
