package export

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRasterizer runs an external converter that reads HTML on stdin and
// writes the result to stdout. The command is killed when ctx ends.
type CommandRasterizer struct {
	Path string
	Args []string
}

// ParseCommand splits a command line on whitespace. It returns nil for an
// empty line.
func ParseCommand(line string) *CommandRasterizer {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	return &CommandRasterizer{Path: fields[0], Args: fields[1:]}
}

func (c *CommandRasterizer) Rasterize(ctx context.Context, html []byte) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdin = bytes.NewReader(html)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %s", c.Path, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%s produced no output", c.Path)
	}
	return stdout.Bytes(), nil
}
