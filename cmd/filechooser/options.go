package main

import (
	"fmt"

	"filechooser/internal/portal"

	"github.com/spf13/cobra"
)

func newOptionsCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "options [file]",
		Short: "Validate and normalise a chooser options payload",
		Long: `Decode a JSON options payload, check it and print it back in canonical
form. The payload is read from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) > 0 {
				path = args[0]
			}
			data, err := readPayload(cmd, path)
			if err != nil {
				return err
			}
			opts, err := portal.Decode(data)
			if err != nil {
				return err
			}
			if check {
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %s, %s selection of %s entries, %d filters\n",
					opts.Kind, opts.SelectionMode(), opts.MatchKind(), len(opts.AllFilters()))
				return nil
			}
			out, err := portal.Encode(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	// Options payloads do not need the configuration.
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil }

	cmd.Flags().BoolVarP(&check, "check", "c", false, "only report whether the payload is valid")
	return cmd
}
