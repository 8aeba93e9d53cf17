package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFileListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "file-list [pattern]",
		Short: "List log files in the log directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.service()
			if err != nil {
				return err
			}
			defer closeFn()

			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			files, err := svc.ListFiles(cmd.Context(), pattern)
			if err != nil {
				return err
			}
			return writeFiles(cmd.OutOrStdout(), files)
		},
	}
}

func newRemoveFileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-file",
		Short: "Remove the log files matched by --file-name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.service()
			if err != nil {
				return err
			}
			defer closeFn()

			removed, err := svc.RemoveFiles(cmd.Context(), "")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "You removed %d %s successfully\n", len(removed), plural(len(removed), "file", "files"))
			return nil
		},
	}
}

func newClassesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List the distinct class markers in the log files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.service()
			if err != nil {
				return err
			}
			defer closeFn()

			classes, err := svc.ListClasses(cmd.Context(), "")
			if err != nil {
				return err
			}
			for _, class := range classes {
				fmt.Fprintln(cmd.OutOrStdout(), class)
			}
			return nil
		},
	}
}

func newCollapseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "collapse",
		Short: `Rewrite "Next" continuation blocks with their canonical header`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.service()
			if err != nil {
				return err
			}
			defer closeFn()

			collapsed, err := svc.Collapse(cmd.Context(), "")
			if err != nil {
				return err
			}
			for _, path := range collapsed {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Collapsed %d %s\n", len(collapsed), plural(len(collapsed), "file", "files"))
			return nil
		},
	}
}
