package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"filechooser/internal/chooser"
	"filechooser/internal/errors"
	"filechooser/internal/portal"
	"filechooser/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type listedEntry struct {
	Name          string   `json:"name"`
	Path          string   `json:"path"`
	Kind          string   `json:"kind"`
	Size          int64    `json:"size"`
	Permissions   string   `json:"permissions"`
	Readable      bool     `json:"readable"`
	MimeTypes     []string `json:"mime_types,omitempty"`
	Icon          string   `json:"icon"`
	SymlinkTarget string   `json:"symlink_target,omitempty"`
}

type listing struct {
	Dir       string        `json:"dir"`
	Total     int           `json:"total"`
	Matched   int           `json:"matched"`
	Truncated bool          `json:"truncated"`
	Entries   []listedEntry `json:"entries"`
}

func newListCmd(a *app) *cobra.Command {
	var (
		jsonOutput bool
		showAll    bool
		limit      int
		query      string
		filters    []string
	)

	cmd := &cobra.Command{
		Use:   "list [directory]",
		Short: "List a directory the way the chooser sees it",
		Long: `List the entries of a directory after classification, filtering and
search, without opening the interactive chooser.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			} else {
				wd, err := os.Getwd()
				if err != nil {
					return errors.Wrap(err, "getting current directory")
				}
				dir = wd
			}

			req := portal.DefaultOptions()
			for _, arg := range filters {
				ff, err := parseFilter(arg)
				if err != nil {
					return err
				}
				req.Filters = append(req.Filters, ff)
			}
			if len(req.Filters) > 0 {
				req.CurrentFilter = &req.Filters[0]
			}

			if limit > 0 {
				a.cfg.Scan.RenderCap = limit
			}
			ch := a.newChooser(req, false)
			defer ch.Close()

			if err := ch.Navigate(dir); err != nil {
				return err
			}
			if showAll {
				ch.SetShowHidden(true)
			}
			if query != "" {
				ch.SetSearchDraft(query)
				ch.CommitSearch()
			}

			view, err := waitComplete(cmd, ch)
			if err != nil {
				return err
			}

			out := listing{
				Dir:       view.Dir,
				Total:     view.Total,
				Matched:   view.Matched,
				Truncated: view.Truncated,
				Entries:   make([]listedEntry, 0, len(view.Entries)),
			}
			for _, e := range view.Entries {
				target, _ := e.SymlinkTarget()
				out.Entries = append(out.Entries, listedEntry{
					Name:          e.Name(),
					Path:          e.Path(),
					Kind:          e.Kind().String(),
					Size:          e.Size(),
					Permissions:   e.Permissions().String(),
					Readable:      ch.Readable(e),
					MimeTypes:     types.MimeTypesOf(e),
					Icon:          e.Icon(),
					SymlinkTarget: target,
				})
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printListing(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "output as JSON")
	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "include hidden entries")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum entries to print (default from config)")
	cmd.Flags().StringVarP(&query, "search", "s", "", "fuzzy search on entry names")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, `file filter as "Label:pattern,pattern"`)

	return cmd
}

// waitComplete blocks until the current scan has read the whole directory.
func waitComplete(cmd *cobra.Command, ch *chooser.Chooser) (chooser.View, error) {
	ctx := cmd.Context()
	for {
		view := ch.View()
		if view.Complete {
			return view, nil
		}
		select {
		case <-ch.Updates():
		case <-ctx.Done():
			return view, ctx.Err()
		}
	}
}

func printListing(w io.Writer, l listing) {
	fmt.Fprintf(w, "%-40s %-24s %10s  %s\n", "Name", "Type", "Size", "Mode")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for _, e := range l.Entries {
		name := e.Name
		kind := "directory"
		size := ""
		if e.Kind != types.KindDirectory.String() {
			kind = "unknown"
			if len(e.MimeTypes) > 0 {
				kind = e.MimeTypes[0]
			}
			size = humanize.Bytes(uint64(e.Size))
		} else {
			name += "/"
		}
		if e.SymlinkTarget != "" {
			name += " -> " + e.SymlinkTarget
		}
		fmt.Fprintf(w, "%-40s %-24s %10s  %s\n", name, kind, size, e.Permissions)
	}

	summary := fmt.Sprintf("%d entries", l.Matched)
	if l.Truncated {
		summary = fmt.Sprintf("showing %d of %d entries", len(l.Entries), l.Matched)
	}
	fmt.Fprintf(w, "\n%s in %s\n", summary, l.Dir)
}
