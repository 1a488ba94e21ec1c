package template

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/netfuse/hpmq/pkg/util/console"
)

var gitBinary = "git"

// clone makes a shallow clone of url into dir.
func clone(ctx context.Context, url, branch, dir string) error {
	args := []string{"clone", "--depth", "1"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, url, dir)

	console.Debug("$ " + gitBinary + " " + strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, gitBinary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("Failed to clone template %s: %w\n%s", url, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
