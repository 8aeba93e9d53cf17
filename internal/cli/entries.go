package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"logreader-backend/internal/dto"
	"logreader-backend/internal/reader"

	"github.com/spf13/cobra"
)

const messageWidth = 80

type listOptions struct {
	environment string
	levels      string
	class       string
	orderBy     string
	direction   string
	page        int
	perPage     int
	json        bool
}

func (o *listOptions) bindFilters(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.environment, "env", "e", "", "only entries of this environment")
	cmd.Flags().StringVarP(&o.levels, "level", "l", "", "comma-separated levels, e.g. ERROR,WARNING")
	cmd.Flags().StringVar(&o.class, "class", "", "only entries with this exact class marker")
}

func (o *listOptions) request(withRead bool) dto.LogListRequest {
	return dto.LogListRequest{
		Environment: o.environment,
		Levels:      reader.ParseLevels(o.levels),
		Class:       o.class,
		IncludeRead: withRead,
		OrderBy:     o.orderBy,
		Direction:   strings.ToLower(o.direction),
		Page:        o.page,
		Size:        o.perPage,
	}
}

func newGetCmd(a *app) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "get",
		Short: "List log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.service()
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := svc.ListLogs(cmd.Context(), opts.request(a.withRead))
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			return writeEntries(cmd.OutOrStdout(), resp)
		},
	}
	opts.bindFilters(cmd)
	cmd.Flags().StringVar(&opts.orderBy, "order-by", "", "order by id, date, level, class, environment or file_path")
	cmd.Flags().StringVar(&opts.direction, "direction", "asc", "order direction: asc or desc")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.perPage, "per-page", reader.DefaultPerPage, "entries per page")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")
	return cmd
}

func newDetailCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "detail <id>",
		Short: "Show one log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.service()
			if err != nil {
				return err
			}
			defer closeFn()

			entry, err := svc.GetLog(cmd.Context(), args[0])
			if err != nil {
				return entryError(args[0], err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entry)
			}
			return writeDetail(cmd.OutOrStdout(), entry)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete one or all log entries (log files are kept)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.service()
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				deleted, err := svc.DeleteLog(cmd.Context(), args[0])
				if err != nil {
					return entryError(args[0], err)
				}
				if !deleted {
					return fmt.Errorf("entry %s could not be removed from its file", args[0])
				}
				fmt.Fprintln(out, "You deleted one entry successfully")
				return nil
			}

			deleted, err := svc.DeleteAll(cmd.Context(), opts.request(a.withRead))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "You deleted %d %s successfully\n", deleted, plural(deleted, "entry", "entries"))
			return nil
		},
	}
	opts.bindFilters(cmd)
	return cmd
}

func newMarkReadCmd(a *app) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "mark-read [id]",
		Short: "Mark one or all log entries as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.service()
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				changed, err := svc.MarkRead(cmd.Context(), args[0])
				if err != nil {
					return entryError(args[0], err)
				}
				if changed {
					fmt.Fprintln(out, "You marked one entry as read")
				} else {
					fmt.Fprintln(out, "Entry was already marked as read")
				}
				return nil
			}

			marked, err := svc.MarkAllRead(cmd.Context(), opts.request(false))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "You marked %d %s as read\n", marked, plural(marked, "entry", "entries"))
			return nil
		},
	}
	opts.bindFilters(cmd)
	return cmd
}

func entryError(id string, err error) error {
	if errors.Is(err, reader.ErrEntryNotFound) {
		return fmt.Errorf("no log entry with ID %s: %w", id, err)
	}
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEntries(w io.Writer, resp *dto.LogListResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tENV\tLEVEL\tCLASS\tMESSAGE")
	for _, e := range resp.Logs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Environment, e.Level, e.Class, truncate(e.Context.Message, messageWidth))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nPage %d of %d, %d %s\n", resp.Page, resp.LastPage, resp.TotalCount, plural(resp.TotalCount, "entry", "entries"))
	return err
}

func writeDetail(w io.Writer, e *dto.LogEntryResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", e.ID)
	fmt.Fprintf(tw, "Date:\t%s\n", e.Date)
	fmt.Fprintf(tw, "Environment:\t%s\n", e.Environment)
	fmt.Fprintf(tw, "Level:\t%s\n", e.Level)
	if e.Class != "" {
		fmt.Fprintf(tw, "Class:\t%s\n", e.Class)
	}
	fmt.Fprintf(tw, "File:\t%s\n", e.FilePath)
	fmt.Fprintf(tw, "Read:\t%t\n", e.Read)
	if e.Context.Exception != "" {
		fmt.Fprintf(tw, "Exception:\t%s\n", e.Context.Exception)
		fmt.Fprintf(tw, "In:\t%s:%d\n", e.Context.In, e.Context.Line)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", e.Body)
	return err
}

func writeFiles(w io.Writer, files map[string]string) error {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tPATH")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\n", name, files[name])
	}
	return tw.Flush()
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
