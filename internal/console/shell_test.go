package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"task-tracker-api/internal/collection"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func newShell(t *testing.T, input string) (*Shell, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	out := &bytes.Buffer{}
	s := NewShell(collection.NewListCollection(), strings.NewReader(input), out)
	s.now = func() time.Time { return time.Date(2024, 5, 6, 20, 0, 0, 0, time.UTC) }
	return s, out
}

func TestShellSession(t *testing.T) {
	s, out := newShell(t, strings.Join([]string{
		"add 2 Work 2024-02-01 Write report",
		"add 1 shopping today Buy milk",
		"add 1 Fitness today Run",
		"delete 1",
		"done 1",
		"delete 1",
		"list",
		"quit",
		"list",
	}, "\n"))

	require.NoError(t, s.Run())
	got := out.String()

	require.Equal(t, 2, strings.Count(got, collection.MsgAdded))
	require.Contains(t, got, collection.MsgDuplicatePriority)
	require.Contains(t, got, collection.MsgNotCompleted)
	require.Contains(t, got, collection.MsgCompleted)
	require.Contains(t, got, collection.MsgDeleted)

	// Only task 2 remains; the table is printed once because input stops at quit
	require.Equal(t, 1, strings.Count(got, "Due Date"))
	require.Contains(t, got, "Buy milk")
	require.Contains(t, got, "2024-05-06")
	require.NotContains(t, got, "Write report")
}

func TestShellTodayAndTable(t *testing.T) {
	s, out := newShell(t, "")
	_, err := s.Execute("add 3 Personal today Call mom")
	require.NoError(t, err)
	_, err = s.Execute("list")
	require.NoError(t, err)

	got := out.String()
	require.Contains(t, got, "2024-05-06")
	require.Contains(t, got, "Call mom")
	require.Contains(t, got, "Personal")
	require.Contains(t, got, "Pending")
}

func TestShellEmptyList(t *testing.T) {
	s, out := newShell(t, "")
	_, err := s.Execute("list")
	require.NoError(t, err)
	require.Contains(t, out.String(), "No tasks available.")
}

func TestShellRejectsBadInput(t *testing.T) {
	s, out := newShell(t, "")
	for _, line := range []string{
		"add",
		"add x Work today thing",
		"add 1 Work someday thing",
		"add 1 Chores today thing",
		"done",
		"done abc",
		"delete 7",
		"frobnicate",
	} {
		quit, err := s.Execute(line)
		require.NoError(t, err, line)
		require.False(t, quit, line)
	}

	got := out.String()
	require.Contains(t, got, "Usage: add")
	require.Contains(t, got, "Priority must be a positive integer.")
	require.Contains(t, got, "Due date must look like")
	require.Contains(t, got, `Unknown category "Chores".`)
	require.Contains(t, got, "Task ID must be an integer.")
	require.Contains(t, got, collection.MsgListEmpty)
	require.Contains(t, got, `Unknown command "frobnicate"`)
}

func TestShellStats(t *testing.T) {
	s, out := newShell(t, "")
	for _, line := range []string{"add 1 Work today a", "add 2 Work today b", "done 2", "stats"} {
		_, err := s.Execute(line)
		require.NoError(t, err)
	}
	require.Contains(t, out.String(), "Pending: 1  Completed: 1  Total: 2")
}

func TestShellTodayNearMidnight(t *testing.T) {
	s, out := newShell(t, "")
	s.now = func() time.Time { return time.Date(2024, 5, 6, 22, 0, 0, 0, time.FixedZone("UTC-5", -5*60*60)) }

	_, err := s.Execute("add 1 Work today Late shift")
	require.NoError(t, err)
	_, err = s.Execute("list")
	require.NoError(t, err)
	require.Contains(t, out.String(), "2024-05-06")
	require.NotContains(t, out.String(), "2024-05-07")
}
