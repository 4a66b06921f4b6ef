// Package console is an interactive terminal front end over a single task
// collection, one line per command.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"task-tracker-api/internal/collection"
	"task-tracker-api/internal/models"

	"github.com/fatih/color"
)

const helpText = `Commands:
  add <priority> <category> <YYYY-MM-DD|today> <description...>
  list                 show tasks sorted by priority
  done <id>            mark a task as completed
  delete <id>          delete a completed task
  stats                count tasks by status
  help                 show this help
  quit                 end the session
`

// Shell reads commands from in and writes results to out
type Shell struct {
	tasks collection.Collection
	in    io.Reader
	out   io.Writer
	now   func() time.Time

	success *color.Color
	warning *color.Color
	header  *color.Color
}

// NewShell creates a Shell over tasks
func NewShell(tasks collection.Collection, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		tasks:   tasks,
		in:      in,
		out:     out,
		now:     time.Now,
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		header:  color.New(color.Bold),
	}
}

// Run processes commands until quit or end of input
func (s *Shell) Run() error {
	s.header.Fprintln(s.out, "To-Do List Manager")
	fmt.Fprintln(s.out, "Type 'help' for commands.")

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		quit, err := s.Execute(scanner.Text())
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// Execute runs one command line. It reports whether the shell should stop.
// Rejections are printed; only backend failures are returned.
func (s *Shell) Execute(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprint(s.out, helpText)
		return false, nil
	case "add":
		return false, s.add(fields[1:])
	case "list", "ls":
		return false, s.list()
	case "done", "complete":
		return false, s.withID(fields[1:], func(id int) error {
			if _, err := s.tasks.MarkCompleted(id); err != nil {
				return err
			}
			s.success.Fprintln(s.out, collection.MsgCompleted)
			return nil
		})
	case "delete", "rm":
		return false, s.withID(fields[1:], func(id int) error {
			if err := s.tasks.Delete(id); err != nil {
				return err
			}
			s.success.Fprintln(s.out, collection.MsgDeleted)
			return nil
		})
	case "stats":
		return false, s.stats()
	default:
		s.warning.Fprintf(s.out, "Unknown command %q. Type 'help' for commands.\n", fields[0])
		return false, nil
	}
}

// report prints a rejection and swallows it; anything else is returned
func (s *Shell) report(err error) error {
	if r, ok := collection.AsRejection(err); ok {
		s.warning.Fprintln(s.out, r.Message)
		return nil
	}
	return err
}

func (s *Shell) add(args []string) error {
	if len(args) < 4 {
		s.warning.Fprintln(s.out, "Usage: add <priority> <category> <YYYY-MM-DD|today> <description...>")
		return nil
	}

	priority, err := strconv.Atoi(args[0])
	if err != nil {
		s.warning.Fprintln(s.out, "Priority must be a positive integer.")
		return nil
	}

	var due time.Time
	if strings.EqualFold(args[2], "today") {
		due = models.CalendarDay(s.now())
	} else if due, err = time.Parse(models.DateLayout, args[2]); err != nil {
		s.warning.Fprintf(s.out, "Due date must look like %s.\n", models.DateLayout)
		return nil
	}

	_, err = s.tasks.Add(collection.AddRequest{
		Description: strings.Join(args[3:], " "),
		Category:    models.Category(args[1]),
		DueDate:     due,
		Priority:    priority,
	})
	if err != nil {
		return s.report(err)
	}
	s.success.Fprintln(s.out, collection.MsgAdded)
	return nil
}

func (s *Shell) withID(args []string, fn func(id int) error) error {
	if len(args) != 1 {
		s.warning.Fprintln(s.out, "Usage: <command> <id>")
		return nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		s.warning.Fprintln(s.out, "Task ID must be an integer.")
		return nil
	}
	return s.report(fn(id))
}

func (s *Shell) list() error {
	tasks, err := s.tasks.List()
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(s.out, "No tasks available.")
		return nil
	}

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDescription\tCategory\tDue Date\tPriority\tStatus")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", t.ID, t.Description, t.Category, t.DueDate, t.Priority, t.Status)
	}
	return tw.Flush()
}

func (s *Shell) stats() error {
	st, err := s.tasks.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Pending: %d  Completed: %d  Total: %d\n", st.Pending, st.Completed, st.Total)
	return nil
}
