package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/projectdiscovery/gologger"

	"github.com/maxvaer/goforce/internal/output"
	"github.com/maxvaer/goforce/internal/scanner"
)

// Runner executes a shell command for each new finding. It only reacts to
// Found events; everything else is ignored.
type Runner struct {
	output.Nop
	cmd     string
	timeout time.Duration
}

// NewRunner creates a hook runner. cmd is the shell command to execute.
func NewRunner(cmd string) *Runner {
	return &Runner{cmd: cmd, timeout: 30 * time.Second}
}

// Found executes the hook command with the finding as JSON on stdin.
// Errors are logged but do not halt the run.
func (r *Runner) Found(f scanner.Finding) {
	data, err := json.Marshal(f)
	if err != nil {
		gologger.Warning().Msgf("hook: marshal error: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	shell, args := shellCommand()
	cmd := exec.CommandContext(ctx, shell, append(args, r.Expand(f))...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		gologger.Warning().Msgf("hook: %v", err)
		return
	}
	if len(out) > 0 {
		gologger.Info().Label("hook").Msg(strings.TrimRight(string(out), "\n"))
	}
}

// Expand replaces the {id}, {kind}, {value} and {target} placeholders.
func (r *Runner) Expand(f scanner.Finding) string {
	return strings.NewReplacer(
		"{id}", f.ID,
		"{kind}", f.Kind.String(),
		"{value}", f.Value,
		"{target}", f.Target,
	).Replace(r.cmd)
}

func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "sh", []string{"-c"}
}
