package monitor

import "strings"

// sensitiveApps lists password managers and credential UIs whose copies are
// never captured. Keys are lowercased macOS bundle identifiers and Linux
// window classes.
var sensitiveApps = map[string]bool{
	"com.1password.1password":          true,
	"com.agilebits.onepassword7":       true,
	"com.bitwarden.desktop":            true,
	"com.lastpass.lastpass":            true,
	"com.dashlane.dashlanephonefinal":  true,
	"com.apple.keychainaccess":         true,
	"com.apple.passwords":              true,
	"org.keepassxc.keepassxc":          true,
	"in.sinew.enpass-desktop":          true,
	"com.mseven.msecuremac":            true,
	"1password":                        true,
	"bitwarden":                        true,
	"keepassxc":                        true,
	"enpass":                           true,
	"seahorse":                         true,
	"org.gnome.seahorse.application":   true,
	"org.keepassx.keepassx":            true,
	"com.adguard.mac.adguard.keychain": true,
}

// terminalApps lists terminal emulators and SSH clients. Their copies are
// captured only when monitor_terminal_apps is enabled.
var terminalApps = map[string]bool{
	"com.apple.terminal":     true,
	"com.googlecode.iterm2":  true,
	"dev.warp.warp-stable":   true,
	"com.mitchellh.ghostty":  true,
	"net.kovidgoyal.kitty":   true,
	"com.github.wez.wezterm": true,
	"org.wezfurlong.wezterm": true,
	"io.alacritty":           true,
	"co.zeit.hyper":          true,
	"com.panic.prompt3":      true,
	"ghostty":                true,
	"kitty":                  true,
	"alacritty":              true,
	"wezterm":                true,
	"gnome-terminal":         true,
	"gnome-terminal-server":  true,
	"org.gnome.terminal":     true,
	"konsole":                true,
	"xterm":                  true,
	"urxvt":                  true,
	"foot":                   true,
	"terminator":             true,
	"tilix":                  true,
	"x-terminal-emulator":    true,
}

// isSensitiveApp reports whether the identifier belongs to the credential
// application denylist.
func isSensitiveApp(appID string) bool {
	return sensitiveApps[strings.ToLower(appID)]
}

// isTerminalApp reports whether the identifier belongs to the terminal
// application class.
func isTerminalApp(appID string) bool {
	return terminalApps[strings.ToLower(appID)]
}
