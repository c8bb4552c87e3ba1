package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Wizard provides an interactive configuration wizard
type Wizard struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewWizard creates a wizard reading answers from r and prompting on w
func NewWizard(r io.Reader, w io.Writer) *Wizard {
	return &Wizard{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// Run asks for each setting, starting from base. Empty answers keep the shown default.
func (w *Wizard) Run(base *Config) (*Config, error) {
	cfg := DefaultConfig()
	if base != nil {
		copied := *base
		cfg = &copied
	}
	validator := NewValidator()

	fmt.Fprintln(w.writer, "=== rcrm configuration ===")
	fmt.Fprintln(w.writer)

	for {
		level, err := w.ask("Log level (debug, info, warn, error)", cfg.Logging.Level)
		if err != nil {
			return nil, err
		}
		if err := validator.ValidateLogLevel(level); err != nil {
			fmt.Fprintf(w.writer, "Error: %v\n", err)
			continue
		}
		cfg.Logging.Level = level
		break
	}

	host, err := w.ask("Server host", cfg.Server.Host)
	if err != nil {
		return nil, err
	}
	cfg.Server.Host = host

	for {
		raw, err := w.ask("Server port", strconv.Itoa(cfg.Server.Port))
		if err != nil {
			return nil, err
		}
		port, convErr := strconv.Atoi(raw)
		if convErr == nil {
			convErr = validator.ValidatePort(port)
		}
		if convErr != nil {
			fmt.Fprintf(w.writer, "Error: invalid port %q\n", raw)
			continue
		}
		cfg.Server.Port = port
		break
	}

	for {
		path, err := w.ask("Catalog file (empty for built-in)", cfg.Catalog.Path)
		if err != nil {
			return nil, err
		}
		if err := validator.ValidateCatalogPath(path); err != nil {
			fmt.Fprintf(w.writer, "Error: %v\n", err)
			continue
		}
		cfg.Catalog.Path = path
		break
	}

	if cfg.Catalog.Path != "" {
		watch, err := w.ask("Reload catalog on change? (y/n)", yesNo(cfg.Catalog.Watch))
		if err != nil {
			return nil, err
		}
		cfg.Catalog.Watch = strings.HasPrefix(strings.ToLower(watch), "y")
	} else {
		cfg.Catalog.Watch = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (w *Wizard) ask(prompt, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(w.writer, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(w.writer, "%s: ", prompt)
	}

	line, err := w.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", errors.New("unexpected end of input")
		}
		return "", errors.Wrap(err, "failed to read input")
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
