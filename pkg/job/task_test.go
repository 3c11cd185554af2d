package job

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetPayload struct {
	Name string `json:"name"`
}

type greetTask struct {
	got []string
}

func (t *greetTask) Name() string { return "greet" }

func (t *greetTask) Handle(_ context.Context, p greetPayload) error {
	t.got = append(t.got, p.Name)
	return nil
}

func TestTaskWrapper(t *testing.T) {
	t.Parallel()

	t.Run("unmarshals payload into the typed handler", func(t *testing.T) {
		t.Parallel()

		task := &greetTask{}
		wrapper := newTaskWrapper[greetPayload](task)

		raw, err := json.Marshal(greetPayload{Name: "ada"})
		require.NoError(t, err)

		require.NoError(t, wrapper.Execute(context.Background(), raw))
		assert.Equal(t, []string{"ada"}, task.got)
	})

	t.Run("empty payload yields zero value", func(t *testing.T) {
		t.Parallel()

		task := &greetTask{}
		wrapper := newTaskWrapper[greetPayload](task)

		require.NoError(t, wrapper.Execute(context.Background(), nil))
		assert.Equal(t, []string{""}, task.got)
	})

	t.Run("malformed payload", func(t *testing.T) {
		t.Parallel()

		wrapper := newTaskWrapper[greetPayload](&greetTask{})
		err := wrapper.Execute(context.Background(), json.RawMessage(`{broken`))
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})
}

func TestTaskRegistry(t *testing.T) {
	t.Parallel()

	reg := newTaskRegistry()

	_, ok := reg.get("greet")
	assert.False(t, ok)

	reg.register("greet", newTaskWrapper[greetPayload](&greetTask{}))

	_, ok = reg.get("greet")
	assert.True(t, ok)
	assert.Equal(t, []string{"greet"}, reg.names())
}
