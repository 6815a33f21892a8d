package installer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type linuxProvider struct {
	*prober
}

func (l *linuxProvider) Ensure(ctx context.Context, tool Tool) (string, error) {
	if path, ok := l.probe(tool); ok {
		return path, nil
	}
	distro := l.detectDistro(ctx)
	log.Debug().Str("op", "installer/linux").Msgf("detected distribution %q", distro)

	cmds := installCommands(distro, tool.String())
	var installErr error
	if len(cmds) == 0 {
		installErr = fmt.Errorf("unknown distribution %q", distro)
	} else {
		installErr = l.firstSuccess(ctx, cmds)
	}
	if installErr == nil {
		return l.verify(tool)
	}
	if tool == YtDlp {
		return l.releaseFallback(tool, installErr)
	}
	return "", fmt.Errorf("could not install %s automatically (%v), please install it with your package manager", tool, installErr)
}

// detectDistro returns the lower-cased distribution ID, or "" when nothing identifies it.
func (l *linuxProvider) detectDistro(ctx context.Context) string {
	if data, err := l.readFile("/etc/os-release"); err == nil {
		if id := parseReleaseKey(string(data), "ID"); id != "" {
			return id
		}
	}
	if data, err := l.readFile("/etc/lsb-release"); err == nil {
		if id := parseReleaseKey(string(data), "DISTRIB_ID"); id != "" {
			return id
		}
	}
	markers := []struct {
		path   string
		distro string
	}{
		{"/etc/arch-release", "arch"},
		{"/etc/fedora-release", "fedora"},
		{"/etc/redhat-release", "rhel"},
		{"/etc/debian_version", "debian"},
	}
	for _, m := range markers {
		if l.exists(m.path) {
			return m.distro
		}
	}
	if out, err := l.runner.Output(ctx, "lsb_release", "-is"); err == nil {
		return strings.ToLower(strings.TrimSpace(string(out)))
	}
	return ""
}

func parseReleaseKey(content, key string) string {
	prefix := key + "="
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, prefix) {
			return strings.ToLower(strings.Trim(line[len(prefix):], `"'`))
		}
	}
	return ""
}

// installCommands lists the package manager commands to try for distro, in order.
func installCommands(distro, pkg string) [][]string {
	switch {
	case distro == "arch" || distro == "manjaro" || distro == "endeavouros":
		return [][]string{{"sudo", "pacman", "-S", "--noconfirm", pkg}}
	case distro == "ubuntu" || distro == "debian" || distro == "linuxmint" || distro == "pop":
		return [][]string{{"sudo", "apt", "install", "-y", pkg}}
	case distro == "fedora" || distro == "rhel" || distro == "centos" || distro == "rocky" || distro == "almalinux":
		return [][]string{
			{"sudo", "dnf", "install", "-y", pkg},
			{"sudo", "yum", "install", "-y", pkg},
		}
	case strings.HasPrefix(distro, "opensuse") || distro == "suse" || distro == "sles":
		return [][]string{{"sudo", "zypper", "install", "-y", pkg}}
	default:
		return nil
	}
}
