package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"filechooser/internal/errors"
	"filechooser/internal/portal"
	"filechooser/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// requestFlags builds a portal request from command-line flags, optionally
// starting from a JSON payload.
type requestFlags struct {
	optionsFile string
	save        bool
	multiple    bool
	directory   bool
	name        string
	folder      string
	acceptLabel string
	filters     []string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.optionsFile, "options", "o", "", "JSON options payload to start from (- reads stdin)")
	cmd.Flags().BoolVar(&f.save, "save", false, "choose a location to save to")
	cmd.Flags().BoolVarP(&f.multiple, "multiple", "m", false, "allow choosing several files")
	cmd.Flags().BoolVarP(&f.directory, "directory", "d", false, "choose directories instead of files")
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "suggested file name when saving")
	cmd.Flags().StringVarP(&f.folder, "folder", "f", "", "folder to open first")
	cmd.Flags().StringVar(&f.acceptLabel, "accept-label", "", "title shown for the accept action")
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil, `file filter as "Label:pattern,pattern"; patterns containing "/" are MIME types`)
}

// build returns the request described by the flags. Flags override the
// fields of an --options payload.
func (f *requestFlags) build(cmd *cobra.Command) (portal.Options, error) {
	req := portal.DefaultOptions()
	if f.optionsFile != "" {
		data, err := readPayload(cmd, f.optionsFile)
		if err != nil {
			return req, err
		}
		if req, err = portal.Decode(data); err != nil {
			return req, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("save") && f.save {
		req.Kind = portal.SaveFile
	}
	if flags.Changed("multiple") {
		req.Multiple = f.multiple
	}
	if flags.Changed("directory") {
		req.Directory = f.directory
	}
	if flags.Changed("name") {
		req.CurrentName = f.name
	}
	if flags.Changed("folder") {
		folder := portal.NewFilePath(f.folder)
		req.CurrentFolder = &folder
	}
	if flags.Changed("accept-label") {
		req.AcceptLabel = f.acceptLabel
	}
	for _, arg := range f.filters {
		ff, err := parseFilter(arg)
		if err != nil {
			return req, err
		}
		req.Filters = append(req.Filters, ff)
	}

	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

// parseFilter parses "Label:pattern,pattern".
func parseFilter(arg string) (portal.FileFilter, error) {
	label, list, ok := strings.Cut(arg, ":")
	if !ok || label == "" || list == "" {
		return portal.FileFilter{}, errors.Newf("invalid filter %q, want Label:pattern,...", arg)
	}
	ff := portal.FileFilter{Label: label}
	for _, p := range strings.Split(list, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kind := portal.GlobPattern
		if strings.Contains(p, "/") {
			kind = portal.MimePattern
		}
		ff.Patterns = append(ff.Patterns, portal.Pattern{Kind: kind, Value: p})
	}
	if len(ff.Patterns) == 0 {
		return portal.FileFilter{}, errors.Newf("filter %q has no patterns", label)
	}
	return ff, nil
}

func readPayload(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return data, errors.Wrap(err, "reading options from stdin")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading options from %s", path)
	}
	return data, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newPickCmd(a *app) *cobra.Command {
	var rf requestFlags

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose files interactively",
		Long: `Open the terminal chooser and print the response as JSON on stdout.

The interface is drawn on stderr so the output can be piped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.build(cmd)
			if err != nil {
				return err
			}

			ch := a.newChooser(req, true)
			defer ch.Close()

			start := req.StartFolder(a.cfg.StartDir())
			if err := ch.Navigate(start); err != nil {
				return errors.Wrapf(err, "opening %s", start)
			}

			m := tui.New(ch, a.cfg)
			resp, err := tui.Run(m, tea.WithAltScreen(), tea.WithOutput(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	rf.register(cmd)
	return cmd
}
