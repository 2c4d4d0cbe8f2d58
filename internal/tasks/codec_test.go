package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	list := []Task{
		{ID: 3, Name: "Ship", Description: "line one\nline two", DueDate: "2024-06-01", Status: StatusInProgress, Priority: PriorityHigh},
		{ID: 1, Name: "Plan", Description: "d", DueDate: "2024-05-01", Status: StatusPending, Priority: PriorityLow},
	}

	raw, err := Encode(list)
	require.NoError(t, err)
	got, err := Decode("tasks", raw)
	require.NoError(t, err)
	assert.Equal(t, list, got)
}

func TestEncodeUsesStoredFieldNames(t *testing.T) {
	raw, err := Encode([]Task{{ID: 1, Name: "n", DueDate: "2024-01-01"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"n","description":"","dueDate":"2024-01-01","status":"","priority":""}]`, raw)
}

func TestEncodeNil(t *testing.T) {
	raw, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestDecode_BlankAndNull(t *testing.T) {
	for _, raw := range []string{"", "  ", "null"} {
		list, err := Decode("tasks", raw)
		require.NoError(t, err, "Decode(%q)", raw)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	}
}

func TestDecode_Corrupt(t *testing.T) {
	cases := []string{
		"{not json",
		`{"id":1}`,
		`[{"id":1}] trailing`,
		`[{"id":1},{"id":1}]`,
		`[{"id":"one"}]`,
	}
	for _, raw := range cases {
		_, err := Decode("tasks", raw)
		assert.ErrorIs(t, err, ErrCorruptState, "Decode(%q)", raw)

		var corrupt *CorruptStateError
		if assert.ErrorAs(t, err, &corrupt) {
			assert.Equal(t, raw, corrupt.Raw)
			assert.Equal(t, "tasks", corrupt.Key)
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	list := sample()
	data, err := EncodeYAML(list)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Design landing page")

	got, err := DecodeYAML(data)
	require.NoError(t, err)
	assert.Equal(t, list, got)
}

func TestDecodeYAML_Invalid(t *testing.T) {
	_, err := DecodeYAML([]byte("name: [unclosed"))
	assert.Error(t, err)
}

func TestEncodeIndented(t *testing.T) {
	data, err := EncodeIndented([]Task{{ID: 1}})
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {")
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestSeedTasks(t *testing.T) {
	list, err := SeedTasks(PriorityLow)
	require.NoError(t, err)
	require.Equal(t, "1,2,3,4,5", ids(list))

	for _, task := range list {
		assert.Equal(t, PriorityLow, task.Priority, "task %d", task.ID)
		assert.True(t, task.Status.Valid(), "task %d status %q", task.ID, task.Status)
		_, ok := task.Due()
		assert.True(t, ok, "task %d due date %q", task.ID, task.DueDate)
	}
}
