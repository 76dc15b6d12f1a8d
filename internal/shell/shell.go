package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/maxvaer/goforce/internal/config"
	"github.com/maxvaer/goforce/internal/output"
	"github.com/maxvaer/goforce/internal/runner"
)

// Shell is the interactive command loop. It owns a working copy of the
// options; every run gets its own snapshot of that copy.
type Shell struct {
	runner  *runner.Runner
	opts    config.Options
	in      io.Reader
	out     io.Writer
	history *History
	prompt  string
}

// New creates a shell that reads commands from in and writes to out.
func New(r *runner.Runner, opts config.Options, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		runner: r,
		opts:   opts.Clone(),
		in:     in,
		out:    out,
	}
}

// WithHistory records every command line to h.
func (s *Shell) WithHistory(h *History) *Shell {
	s.history = h
	return s
}

// WithPrompt shows prompt before each command.
func (s *Shell) WithPrompt(prompt string) *Shell {
	s.prompt = prompt
	return s
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Options returns a copy of the shell's current options.
func (s *Shell) Options() config.Options { return s.opts.Clone() }

// Loop reads and executes commands until "exit", end of input, or ctx is
// canceled. Reading happens on a separate goroutine so cancellation is
// observed immediately even while waiting for input.
func (s *Shell) Loop(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
		close(lines)
	}()

	for {
		if s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if s.history != nil {
				if err := s.history.Append(line); err != nil {
					fmt.Fprintf(s.out, "[!] %v\n", err)
				}
			}
			exit, err := s.Exec(ctx, line)
			if err != nil {
				fmt.Fprintf(s.out, "[!] %v\n", err)
			}
			if exit {
				return nil
			}
		}
	}
}

// Exec runs a single command line. exit is true when the loop should stop.
func (s *Shell) Exec(ctx context.Context, line string) (exit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "exit", "quit":
		return true, nil
	case "help", "?":
		s.printHelp()
		return false, nil
	case "run":
		return false, s.run(ctx)
	case "show":
		s.printOptions()
		return false, nil
	case "results":
		for _, id := range s.runner.Findings().Snapshot() {
			fmt.Fprintln(s.out, id)
		}
		return false, nil
	case "save":
		path := s.opts.OutputFile
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return false, fmt.Errorf("usage: save <path>")
		}
		if err := output.WriteJSON(path, s.runner.Findings().Snapshot()); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "[+] Saved %d finding(s) to %s\n", s.runner.Findings().Len(), path)
		return false, nil
	case "history":
		if s.history == nil {
			return false, nil
		}
		lines, err := s.history.Lines()
		if err != nil {
			return false, err
		}
		for i, l := range lines {
			fmt.Fprintf(s.out, "%4d  %s\n", i+1, l)
		}
		return false, nil
	}

	if set, ok := setters[name]; ok {
		if err := set(&s.opts, args); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "[+] %s updated\n", name)
		return false, nil
	}
	return false, fmt.Errorf("unknown command %q, type 'help' for a list", name)
}

func (s *Shell) run(ctx context.Context) error {
	if err := s.opts.Validate(); err != nil {
		return err
	}
	_, err := s.runner.Execute(ctx, s.opts)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

type setter func(o *config.Options, args []string) error

var setters = map[string]setter{
	"targets": func(o *config.Options, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: targets <target> [target...]")
		}
		o.Targets = append([]string(nil), args...)
		return nil
	},
	"wordlist": func(o *config.Options, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: wordlist <path>")
		}
		o.WordlistPath = args[0]
		return nil
	},
	"threads": func(o *config.Options, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: threads <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("threads must be a positive integer, got %q", args[0])
		}
		o.Threads = n
		return nil
	},
	"timeout": func(o *config.Options, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: timeout <seconds>")
		}
		d, err := config.ParseSeconds(args[0])
		if err != nil {
			return err
		}
		o.Timeout = d
		return nil
	},
	"redirects": func(o *config.Options, args []string) error {
		on, err := parseSwitch(args)
		if err != nil {
			return fmt.Errorf("usage: redirects on|off")
		}
		o.FollowRedirects = on
		return nil
	},
	"ports": func(o *config.Options, args []string) error {
		if isNone(args) {
			o.Ports = nil
			return nil
		}
		ports, err := config.ParsePorts(args)
		if err != nil {
			return err
		}
		o.Ports = ports
		return nil
	},
	"auth": func(o *config.Options, args []string) error {
		if isNone(args) {
			o.Auth = ""
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("usage: auth <user:password>|none")
		}
		if err := config.ValidateAuth(args[0]); err != nil {
			return err
		}
		o.Auth = args[0]
		return nil
	},
	"output": func(o *config.Options, args []string) error {
		if isNone(args) {
			o.OutputFile = ""
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("usage: output <path>|none")
		}
		o.OutputFile = args[0]
		return nil
	},
	"resolver": func(o *config.Options, args []string) error {
		if isNone(args) {
			o.Resolver = ""
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("usage: resolver <host[:port]>|none")
		}
		o.Resolver = args[0]
		return nil
	},
}

func isNone(args []string) bool {
	return len(args) == 1 && strings.EqualFold(args[0], "none")
}

func parseSwitch(args []string) (bool, error) {
	if len(args) != 1 {
		return false, fmt.Errorf("expected on or off")
	}
	switch strings.ToLower(args[0]) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", args[0])
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Commands:
  run                          run against the current targets
  show                         print the current configuration
  results                      list every finding so far
  save [path]                  write findings as a JSON array
  history                      list previous commands
  targets <t...>               replace the target list (URLs, hosts, file://path)
  wordlist <path>              set the wordlist file
  threads <n>                  set the worker count
  timeout <seconds>            set the per-request timeout
  redirects on|off             follow HTTP redirects
  ports <p...>|none            probe each target on these ports
  auth <user:password>|none    HTTP basic credentials
  output <path>|none           JSON report written after each run
  resolver <host[:port]>|none  nameserver for subdomain lookups
  help                         show this help
  exit                         leave the shell
`)
}

func (s *Shell) printOptions() {
	o := s.opts
	none := func(v string) string {
		if v == "" {
			return "-"
		}
		return v
	}
	ports := "-"
	if len(o.Ports) > 0 {
		parts := make([]string, len(o.Ports))
		for i, p := range o.Ports {
			parts[i] = strconv.Itoa(p)
		}
		ports = strings.Join(parts, ",")
	}
	auth := "-"
	if user, _, ok := o.Credentials(); ok {
		auth = user + ":****"
	}

	fmt.Fprintf(s.out, "  targets    %s\n", none(strings.Join(o.Targets, " ")))
	fmt.Fprintf(s.out, "  wordlist   %s\n", none(o.WordlistPath))
	fmt.Fprintf(s.out, "  threads    %d\n", o.Threads)
	fmt.Fprintf(s.out, "  timeout    %s\n", o.Timeout)
	fmt.Fprintf(s.out, "  redirects  %t\n", o.FollowRedirects)
	fmt.Fprintf(s.out, "  ports      %s\n", ports)
	fmt.Fprintf(s.out, "  auth       %s\n", auth)
	fmt.Fprintf(s.out, "  output     %s\n", none(o.OutputFile))
	fmt.Fprintf(s.out, "  resolver   %s\n", none(o.Resolver))
}
