package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/maxvaer/goforce/internal/config"
	"github.com/maxvaer/goforce/internal/hook"
	"github.com/maxvaer/goforce/internal/netutil"
	"github.com/maxvaer/goforce/internal/output"
	"github.com/maxvaer/goforce/internal/runner"
	"github.com/maxvaer/goforce/internal/shell"
	"github.com/maxvaer/goforce/pkg/version"
)

var (
	opts        = config.Default()
	noRedirects bool
)

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"TARGET", []string{"wordlist", "ports"}},
	{"PERFORMANCE", []string{"threads", "timeout"}},
	{"HTTP", []string{"no-redirects", "auth", "user-agent"}},
	{"DNS", []string{"resolver"}},
	{"OUTPUT", []string{"output", "on-result", "no-color", "silent", "debug"}},
	{"SESSION", []string{"no-shell"}},
}

var rootCmd = &cobra.Command{
	Use:     "goforce <target>... [flags]",
	Short:   "Wordlist brute-forcer for paths, subdomains and virtual hosts",
	Version: version.Version,
	Long: `goforce tests every wordlist entry against every target with four
probes: HTTP path, DNS subdomain, virtual host and directory. Targets
are http(s) URLs, bare hosts or IPs, or file://<path> lists. After the
run an interactive shell lets you adjust settings and run again.`,
	Example: `  goforce https://example.com
  goforce example.com -w words.txt -t 50 -timeout 2
  goforce file://targets.txt -nr -o findings.json
  goforce https://example.com -a admin:secret -p 80 8080
  goforce example.com --resolver 1.1.1.1 --no-shell`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			_ = cmd.Help()
			fmt.Fprintln(os.Stderr)
			return fmt.Errorf("target required: pass a URL, host, IP or file://<path>")
		}
		opts.Targets = args
		opts.FollowRedirects = !noRedirects
		if err := opts.Validate(); err != nil {
			return err
		}
		// Surface unreadable file:// target lists before probing starts.
		if _, err := netutil.ResolveTargets(opts.Targets, opts.Ports); err != nil {
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(opts)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		var reporter output.Reporter = output.NewConsole(os.Stdout, opts.NoColor, opts.Silent)
		if opts.OnResultCmd != "" {
			reporter = output.Multi(reporter, hook.NewRunner(opts.OnResultCmd))
		}
		r := runner.New(reporter)

		if _, err := r.Execute(ctx, opts); err != nil && ctx.Err() == nil {
			gologger.Error().Msgf("%v", err)
		}
		if opts.NoShell || ctx.Err() != nil {
			return nil
		}

		sh := shell.New(r, opts, os.Stdin, os.Stdout).
			WithHistory(shell.NewHistory(shell.DefaultHistoryFile))
		if shell.IsTerminal(os.Stdin) {
			sh.WithPrompt("goforce> ")
		}
		return sh.Loop(ctx)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Target
	f.StringVarP(&opts.WordlistPath, "wordlist", "w", config.DefaultWordlist, "Wordlist file")
	f.VarP(&intSliceValue{target: &opts.Ports}, "ports", "p", "Probe each target on these ports (e.g. 80 443 or 80,443)")

	// Performance
	f.IntVarP(&opts.Threads, "threads", "t", config.DefaultThreads, "Number of concurrent workers")
	f.Var(&secondsValue{target: &opts.Timeout}, "timeout", "Request timeout in seconds (default 5)")

	// HTTP
	f.BoolVar(&noRedirects, "no-redirects", false, "Disable following redirects (alias -nr)")
	f.StringVarP(&opts.Auth, "auth", "a", "", "HTTP basic credentials (user:password)")
	f.StringVar(&opts.UserAgent, "user-agent", "", "Custom User-Agent string")

	// DNS
	f.StringVar(&opts.Resolver, "resolver", "", "Nameserver for subdomain lookups (default: system resolver)")

	// Output
	f.StringVarP(&opts.OutputFile, "output", "o", "", "Write findings as a JSON array to this file")
	f.StringVar(&opts.OnResultCmd, "on-result", "", "Shell command to run for each new finding (receives JSON on stdin)")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	f.BoolVar(&opts.Silent, "silent", false, "Only print findings")
	f.BoolVar(&opts.Debug, "debug", false, "Log every failed probe")

	// Session
	f.BoolVar(&opts.NoShell, "no-shell", false, "Exit after the first run instead of starting the shell")

	// Custom help: categorized flags like httpx.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})
}

// setupLogging configures the process-wide logger once before any run.
func setupLogging(o config.Options) {
	gologger.DefaultLogger.SetFormatter(formatter.NewCLI(o.NoColor))
	switch {
	case o.Silent:
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	case o.Debug:
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	default:
		gologger.DefaultLogger.SetMaxLevel(levels.LevelInfo)
	}
}

// Execute runs the root command.
func Execute() {
	rootCmd.SetArgs(rewriteArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rewriteArgs maps the single-dash long flags (-timeout, -nr) to their
// double-dash form, since pflag would read them as shorthand clusters, and
// folds space-separated port lists after -p/--ports into one value.
func rewriteArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-nr":
			arg = "--no-redirects"
		case arg == "-timeout":
			arg = "--timeout"
		case strings.HasPrefix(arg, "-timeout="):
			arg = "-" + arg
		}
		out = append(out, arg)

		if arg != "-p" && arg != "--ports" {
			continue
		}
		var ports []string
		for i+1 < len(args) && isPortList(args[i+1]) {
			i++
			ports = append(ports, args[i])
		}
		if len(ports) > 0 {
			out = append(out, strings.Join(ports, ","))
		}
	}
	return out
}

func isPortList(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != ',' {
			return false
		}
	}
	return true
}

// intSliceValue implements pflag.Value for comma-separated port lists.
type intSliceValue struct {
	target *[]int
}

func (v *intSliceValue) String() string {
	if v.target == nil || len(*v.target) == 0 {
		return ""
	}
	parts := make([]string, len(*v.target))
	for i, val := range *v.target {
		parts[i] = strconv.Itoa(val)
	}
	return strings.Join(parts, ",")
}

func (v *intSliceValue) Set(s string) error {
	ports, err := config.ParsePorts([]string{s})
	if err != nil {
		return err
	}
	*v.target = append(*v.target, ports...)
	return nil
}

func (v *intSliceValue) Type() string { return "ints" }

// secondsValue implements pflag.Value for timeouts given in seconds.
type secondsValue struct {
	target *time.Duration
}

func (v *secondsValue) String() string {
	if v.target == nil {
		return ""
	}
	return strconv.FormatFloat(v.target.Seconds(), 'f', -1, 64)
}

func (v *secondsValue) Set(s string) error {
	d, err := config.ParseSeconds(s)
	if err != nil {
		return err
	}
	*v.target = d
	return nil
}

func (v *secondsValue) Type() string { return "seconds" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	// Show default for non-zero values.
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" && !strings.Contains(right, "(default") {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
                ____
   ____ _____  / __/___  _____________
  / __ '/ __ \/ /_/ __ \/ ___/ ___/ _ \
 / /_/ / /_/ / __/ /_/ / /  / /__/  __/
 \__, /\____/_/  \____/_/   \___/\___/   %s
/____/

`, ver)
}
