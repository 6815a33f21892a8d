package installer

import (
	"context"
	"fmt"
)

type windowsProvider struct {
	*prober
}

func (w *windowsProvider) Ensure(ctx context.Context, tool Tool) (string, error) {
	if path, ok := w.probe(tool); ok {
		return path, nil
	}
	wingetErr := w.run(ctx, "winget", "install", tool.String())
	if wingetErr == nil {
		return w.verify(tool)
	}
	if tool == YtDlp {
		return w.releaseFallback(tool, wingetErr)
	}
	return "", fmt.Errorf("error installing %s via winget: %w", tool, wingetErr)
}
