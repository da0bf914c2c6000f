package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the portals banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"                   _        _", "#818cf8"},
		{"  _ __   ___  _ __| |_ __ _| |___", "#a78bfa"},
		{" | '_ \\ / _ \\| '__| __/ _` | / __|", "#c084fc"},
		{" | |_) | (_) | |  | || (_| | \\__ \\", "#e879f9"},
		{" | .__/ \\___/|_|   \\__\\__,_|_|___/", "#f472b6"},
		{" |_|", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintf(w, " %s\n\n", termenv.String("v"+strings.TrimSpace(version)).Faint())
}
