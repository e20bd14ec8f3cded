package render

import (
	"context"
	"os/exec"
	"runtime"

	"github.com/incgraph/incgraph/pkg/errors"
)

// viewerCommand returns the launcher argv for path on the given platform.
func viewerCommand(goos, path string) ([]string, error) {
	switch goos {
	case "linux":
		return []string{"xdg-open", path}, nil
	case "darwin":
		return []string{"open", path}, nil
	case "windows":
		// start is a cmd builtin; the empty argument is the window title
		return []string{"cmd", "/c", "start", "", path}, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupportedPlatform, "no default viewer known for %s", goos)
}

// OpenViewer opens path with the platform default application. The launcher
// hands off to the viewer and exits, so this returns once the handoff is
// done rather than when the viewer closes.
func OpenViewer(ctx context.Context, path string) error {
	argv, err := viewerCommand(runtime.GOOS, path)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	return nil
}
