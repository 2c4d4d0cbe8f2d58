package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pdxmph/tasklist-tui/internal/config"
	"github.com/pdxmph/tasklist-tui/internal/tasks"
	"github.com/spf13/cobra"
)

func newAddCmd(configPath *string) *cobra.Command {
	var name, description, due, priority, status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := tasks.Draft{Name: name, Description: description, DueDate: due}
			if priority != "" {
				p, err := tasks.ParsePriority(priority)
				if err != nil {
					return err
				}
				draft.Priority = p
			}
			if status != "" {
				st, err := tasks.ParseStatus(status)
				if err != nil {
					return err
				}
				draft.Status = st
			}

			s, err := openSession(*configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.store.Add(draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task added! (#%d %s)\n", t.ID, t.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&priority, "priority", "", "Low, Medium or High (default from config)")
	cmd.Flags().StringVar(&status, "status", "", "Pending, In Progress or Completed (default from config)")
	return cmd
}

func newListCmd(configPath *string) *cobra.Command {
	var priority, status, search, sortOrder, format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var view tasks.View
			if priority != "" {
				p, err := tasks.ParsePriority(priority)
				if err != nil {
					return err
				}
				view.Filter.Priority = p
			}
			if status != "" {
				st, err := tasks.ParseStatus(status)
				if err != nil {
					return err
				}
				view.Filter.Status = st
			}
			view.Filter.Search = search

			order, ok := tasks.ParseSortOrder(sortOrder)
			if !ok {
				return fmt.Errorf("unknown sort order %q (want asc or desc)", sortOrder)
			}
			view.Order = order

			s, err := openSession(*configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			return writeTasks(cmd.OutOrStdout(), view.Derive(s.store.Tasks()), format)
		},
	}

	cmd.Flags().StringVar(&priority, "priority", "", "only show this priority")
	cmd.Flags().StringVar(&status, "status", "", "only show this status")
	cmd.Flags().StringVar(&search, "search", "", "only show titles containing this text")
	cmd.Flags().StringVar(&sortOrder, "sort", "", "sort by due date: asc or desc")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or yaml")
	return cmd
}

// writeTasks renders list in the requested format
func writeTasks(w io.Writer, list []tasks.Task, format string) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := tasks.EncodeIndented(list)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "yaml", "yml":
		data, err := tasks.EncodeYAML(list)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "table", "":
		if len(list) == 0 {
			_, err := fmt.Fprintln(w, "No Task Found")
			return err
		}
		_, err := fmt.Fprintln(w, renderTaskTable(list))
		return err
	}
	return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
}

func renderTaskTable(list []tasks.Task) string {
	rows := make([][]string, 0, len(list))
	for i, t := range list {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(t.ID),
			t.Name,
			strings.ReplaceAll(t.Description, "\n", " "),
			t.DueDate,
			string(t.Status),
			string(t.Priority),
		})
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	header := cell.Copy().Bold(true)

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SL.No", "ID", "Title", "Description", "Due Date", "Status", "Priority").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 {
				return header
			}
			return cell
		}).
		String()
}

// taskFlags collects the optional fields edit accepts
type taskFlags struct {
	name, description, due, priority, status string
}

func (f *taskFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "new title")
	cmd.Flags().StringVar(&f.description, "description", "", "new description")
	cmd.Flags().StringVar(&f.due, "due", "", "new due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.priority, "priority", "", "new priority")
	cmd.Flags().StringVar(&f.status, "status", "", "new status")
}

// patch builds a patch from the flags the user actually set
func (f *taskFlags) patch(cmd *cobra.Command) (tasks.Patch, error) {
	var p tasks.Patch
	changed := cmd.Flags().Changed

	if changed("name") {
		p.Name = &f.name
	}
	if changed("description") {
		p.Description = &f.description
	}
	if changed("due") {
		p.DueDate = &f.due
	}
	if changed("priority") {
		pr, err := tasks.ParsePriority(f.priority)
		if err != nil {
			return p, err
		}
		p.Priority = &pr
	}
	if changed("status") {
		st, err := tasks.ParseStatus(f.status)
		if err != nil {
			return p, err
		}
		p.Status = &st
	}
	return p, nil
}

func newEditCmd(configPath *string) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch, err := flags.patch(cmd)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return errors.New("nothing to change; pass at least one of --name, --description, --due, --priority, --status")
			}

			s, err := openSession(*configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.store.Edit(id, patch)
			if err != nil {
				return taskError(id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task updated! (#%d %s)\n", t.ID, t.Name)
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

func newPriorityCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "priority ID LEVEL",
		Short: "Set the priority of a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			level, err := tasks.ParsePriority(args[1])
			if err != nil {
				return err
			}

			s, err := openSession(*configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.store.SetPriority(id, level)
			if err != nil {
				return taskError(id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Priority of %q set to %s\n", t.Name, t.Priority)
			return nil
		},
	}
}

func newDeleteCmd(configPath *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(*configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.store.Get(id)
			if err != nil {
				return taskError(id, err)
			}

			if !yes {
				prompt := fmt.Sprintf("Are you sure you want to delete '%s'? This action cannot be undone!", t.Name)
				if !confirm(cmd, prompt) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := s.store.Delete(id); err != nil {
				return taskError(id, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted! Your task has been deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newClearCmd(configPath *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if !yes {
				prompt := fmt.Sprintf("Delete all %d tasks? This action cannot be undone!", s.store.Len())
				if !confirm(cmd, prompt) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := s.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All tasks cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newExportCmd(configPath *string) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the task list as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatFromPath(output)
			}
			if format != "json" && format != "yaml" && format != "yml" {
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}

			s, err := openSession(*configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if output == "" || output == "-" {
				return writeTasks(cmd.OutOrStdout(), s.store.Tasks(), format)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := writeTasks(f, s.store.Tasks(), format); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", s.store.Len(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default from --output extension, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func newImportCmd(configPath *string) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Append tasks from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			var list []tasks.Task
			if formatFromPath(path) == "yaml" {
				list, err = tasks.DecodeYAML(data)
			} else {
				list, err = tasks.Decode(path, string(data))
			}
			if err != nil {
				return err
			}

			s, err := openSession(*configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			added, err := s.store.Import(list, replace)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", len(added))
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "drop the current list first")
	return cmd
}

func newConfigCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.Default()
			save := cfg.Save
			if *configPath != "" {
				save = func() error { return cfg.SaveTo(*configPath) }
			}
			if err := save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func taskError(id int, err error) error {
	if errors.Is(err, tasks.ErrTaskNotFound) {
		return fmt.Errorf("task %d: %w", id, err)
	}
	return err
}

// confirm asks a y/N question on the command's input
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (y/N): ", prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}
