package desktop

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const frontmostScript = `tell application "System Events" to get bundle identifier of first application process whose frontmost is true`

// Focus finds and re-activates applications through AppleScript.
type Focus struct {
	// Run executes a command and returns its stdout.
	Run func(ctx context.Context, name string, args ...string) ([]byte, error)
	// Settle is how long Activate waits for the app to come to front.
	Settle time.Duration
}

// NewFocus returns a Focus that shells out to osascript.
func NewFocus() *Focus {
	return &Focus{
		Run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
		Settle: 100 * time.Millisecond,
	}
}

// Frontmost returns the bundle identifier of the focused application.
func (f *Focus) Frontmost(ctx context.Context) (string, error) {
	out, err := f.Run(ctx, "osascript", "-e", frontmostScript)
	if err != nil {
		return "", fmt.Errorf("querying frontmost app: %w", err)
	}
	id := strings.TrimSpace(string(out))
	if id == "" {
		return "", fmt.Errorf("querying frontmost app: empty bundle identifier")
	}
	return id, nil
}

// Activate brings the application with bundleID to front.
func (f *Focus) Activate(ctx context.Context, bundleID string) error {
	script := fmt.Sprintf(`tell application id "%s" to activate`, strings.ReplaceAll(bundleID, `"`, `\"`))
	if _, err := f.Run(ctx, "osascript", "-e", script); err != nil {
		return fmt.Errorf("activating %s: %w", bundleID, err)
	}
	time.Sleep(f.Settle)
	return nil
}
