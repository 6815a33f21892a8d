package installer

import (
	"context"
	"fmt"
)

type darwinProvider struct {
	*prober
}

func (d *darwinProvider) Ensure(ctx context.Context, tool Tool) (string, error) {
	if path, ok := d.probe(tool); ok {
		return path, nil
	}
	brewErr := d.run(ctx, "brew", "install", tool.String())
	if brewErr == nil {
		return d.verify(tool)
	}
	if tool == YtDlp {
		return d.releaseFallback(tool, brewErr)
	}
	return "", fmt.Errorf("error installing %s via Homebrew: %w", tool, brewErr)
}
