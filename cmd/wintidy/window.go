package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/1broseidon/wintidy/internal/config"
	"github.com/1broseidon/wintidy/internal/ipc"
	"github.com/1broseidon/wintidy/internal/platform"
	"github.com/1broseidon/wintidy/internal/windows"
)

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  wintidy window list [--json] [--all] [--filter S] [--sort-by FIELD]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'wintidy window <command> --help' for command-specific options.")
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printWindowUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "list":
		return runWindowList(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown window command: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}

func runWindowList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wintidy window list [flags]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List windows. Connects to the X server directly, so it works")
		fmt.Fprintln(os.Stderr, "whether or not the daemon is running.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output as JSON")
	all := fs.Bool("all", false, "Include windows that fail the manageability filters")
	filter := fs.String("filter", "", "Only show windows whose title or process contains this substring")
	sortBy := fs.String("sort-by", "id", "Sort order: id, title, process, size")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "window list takes no arguments")
		fs.Usage()
		return 2
	}

	switch *sortBy {
	case "id", "title", "process", "size":
	default:
		fmt.Fprintf(os.Stderr, "invalid --sort-by %q (want id, title, process, or size)\n", *sortBy)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Disconnect()

	wins, err := backend.ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	filterOpts := cfg.FilterOptions()
	infos := make([]ipc.WindowInfo, 0, len(wins))
	for _, w := range wins {
		manageable := windows.IsManageable(w, filterOpts)
		if !*all && !manageable {
			continue
		}
		if *filter != "" && !containsFold(w, *filter) {
			continue
		}
		infos = append(infos, ipc.WindowInfoFromWindow(w, manageable))
	}

	sortWindowInfos(infos, *sortBy)

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(infos); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	printWindowTable(infos, *all)
	return 0
}

func containsFold(w platform.Window, s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(strings.ToLower(w.Title), s) ||
		strings.Contains(strings.ToLower(w.ProcessName), s)
}

func sortWindowInfos(infos []ipc.WindowInfo, field string) {
	sort.Slice(infos, func(i, j int) bool {
		switch field {
		case "title":
			return strings.ToLower(infos[i].Title) < strings.ToLower(infos[j].Title)
		case "process":
			return infos[i].ProcessName < infos[j].ProcessName
		case "size":
			return infos[i].Width*infos[i].Height > infos[j].Width*infos[j].Height
		default:
			return infos[i].ID < infos[j].ID
		}
	})
}

// truncateTitle shortens s to at most width runes, never splitting a
// multibyte character, and marks the cut with an ellipsis.
func truncateTitle(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func printWindowTable(infos []ipc.WindowInfo, showFlags bool) {
	// Truncate titles to the terminal width so rows stay on one line.
	termWidth := 100
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 40 {
		termWidth = w
	}

	// Fixed columns: id (10) + geometry (20) + process (16) + spacing.
	titleWidth := termWidth - 52
	if showFlags {
		titleWidth -= 4
	}
	if titleWidth < 10 {
		titleWidth = 10
	}

	for _, w := range infos {
		title := truncateTitle(w.Title, titleWidth)

		flags := ""
		if showFlags {
			if w.Manageable {
				flags = "  + "
			} else {
				flags = "  - "
			}
		}

		fmt.Printf("0x%08x%s  %-*s  %-16s  %dx%d+%d+%d\n",
			w.ID, flags, titleWidth, title, w.ProcessName, w.Width, w.Height, w.X, w.Y)
	}
	if len(infos) == 0 {
		fmt.Println("no windows found")
	}
}
