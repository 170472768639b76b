package sysboard

import (
	"bytes"
	"os/exec"
	"runtime"
	"strings"
)

// FrontmostAppID implements clip.AppInspector. Lookup failures (missing
// tools, Wayland without xdotool, permission prompts) report unknown
// rather than erroring so capture proceeds without filtering.
func (s *System) FrontmostAppID() (string, bool) {
	switch runtime.GOOS {
	case "darwin":
		return frontmostMac()
	case "linux":
		return frontmostLinux()
	default:
		return "", false
	}
}

// frontmostMac asks System Events for the frontmost process bundle ID
func frontmostMac() (string, bool) {
	out, err := runCommand("osascript", "-e",
		`tell application "System Events" to get bundle identifier of first application process whose frontmost is true`)
	if err != nil {
		return "", false
	}
	id := strings.ToLower(strings.TrimSpace(string(out)))
	return id, id != ""
}

// frontmostLinux resolves the active window class via xdotool, falling
// back to xprop when the xdotool build lacks getwindowclassname
func frontmostLinux() (string, bool) {
	if out, err := runCommand("xdotool", "getactivewindow", "getwindowclassname"); err == nil {
		id := strings.ToLower(strings.TrimSpace(string(out)))
		if id != "" {
			return id, true
		}
	}

	winID, err := runCommand("xdotool", "getactivewindow")
	if err != nil {
		return "", false
	}
	out, err := runCommand("xprop", "-id", strings.TrimSpace(string(winID)), "WM_CLASS")
	if err != nil {
		return "", false
	}
	id := parseWMClass(string(out))
	return id, id != ""
}

// parseWMClass extracts the class name from xprop WM_CLASS output, e.g.
// `WM_CLASS(STRING) = "gnome-terminal-server", "Gnome-terminal"` yields
// "gnome-terminal".
func parseWMClass(out string) string {
	parts := strings.Split(out, `"`)
	// Quoted values sit at the odd indices; the class name is the last one.
	var class string
	for i := 1; i < len(parts); i += 2 {
		class = parts[i]
	}
	return strings.ToLower(strings.TrimSpace(class))
}

// runCommand executes a command and returns its output
func runCommand(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
