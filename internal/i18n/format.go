package i18n

import (
	"strings"
)

const Placeholder = "{}"

const resetCode = "\x1b[0m"

var colorTags = map[string]string{
	"red":            "\x1b[31m",
	"green":          "\x1b[32m",
	"yellow":         "\x1b[33m",
	"blue":           "\x1b[34m",
	"magenta":        "\x1b[35m",
	"cyan":           "\x1b[36m",
	"bright_red":     "\x1b[91m",
	"bright_green":   "\x1b[92m",
	"bright_yellow":  "\x1b[93m",
	"bright_blue":    "\x1b[94m",
	"bright_magenta": "\x1b[95m",
	"bright_cyan":    "\x1b[96m",
	"b":              "\x1b[1m",
}

// Format substitutes args into template and then expands color tags.
func Format(template string, coloring bool, args ...string) string {
	return ExpandTags(Substitute(template, args...), coloring)
}

// Substitute replaces each {} with the next argument, left to right. Surplus
// placeholders stay verbatim and surplus arguments are dropped.
func Substitute(template string, args ...string) string {
	if len(args) == 0 || !strings.Contains(template, Placeholder) {
		return template
	}
	parts := strings.Split(template, Placeholder)
	var sb strings.Builder
	sb.Grow(len(template))
	sb.WriteString(parts[0])
	for i, part := range parts[1:] {
		if i < len(args) {
			sb.WriteString(args[i])
		} else {
			sb.WriteString(Placeholder)
		}
		sb.WriteString(part)
	}
	return sb.String()
}

// ExpandTags walks text once, keeping a stack of open color tags. Closing a
// tag removes its most recent open entry, resets the terminal and re-applies
// whatever is still open. With coloring off, known tags are stripped.
func ExpandTags(text string, coloring bool) string {
	var sb strings.Builder
	sb.Grow(len(text) + 16)
	if coloring {
		sb.WriteString(resetCode)
	}
	var stack []string
	i := 0
	for i < len(text) {
		if text[i] != '<' {
			sb.WriteByte(text[i])
			i++
			continue
		}
		end := strings.IndexByte(text[i+1:], '>')
		if end < 0 {
			sb.WriteString(text[i:])
			break
		}
		token := text[i+1 : i+1+end]
		i += end + 2

		closing := strings.HasPrefix(token, "/")
		name := strings.TrimPrefix(token, "/")
		code, known := colorTags[name]
		if !known {
			sb.WriteByte('<')
			sb.WriteString(token)
			sb.WriteByte('>')
			continue
		}
		if !closing {
			stack = append(stack, code)
			if coloring {
				sb.WriteString(code)
			}
			continue
		}
		for j := len(stack) - 1; j >= 0; j-- {
			if stack[j] == code {
				stack = append(stack[:j], stack[j+1:]...)
				break
			}
		}
		if coloring {
			sb.WriteString(resetCode)
			for _, open := range stack {
				sb.WriteString(open)
			}
		}
	}
	return sb.String()
}
