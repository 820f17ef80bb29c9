package core_test

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miladsoleymani/eventsys/core"
)

func TestReady(t *testing.T) {
	f := core.Ready(3, nil)

	select {
	case <-f.Done():
	default:
		t.Fatal("ready future should be done")
	}
	v, ok, err := f.Poll()
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestPromise_ResolvesOnce(t *testing.T) {
	f, resolve := core.NewPromise[string]()

	_, ok, _ := f.Poll()
	assert.False(t, ok)

	resolve("first", nil)
	resolve("second", errors.New("ignored"))

	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestWait_Deadline(t *testing.T) {
	f, _ := core.NewPromise[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestThen(t *testing.T) {
	t.Run("resolved input maps synchronously", func(t *testing.T) {
		out := core.Then(core.Ready(2, nil), func(v int, err error) (string, error) {
			return "two", err
		})
		v, ok, err := out.Poll()
		require.True(t, ok)
		assert.NoError(t, err)
		assert.Equal(t, "two", v)
	})

	t.Run("pending input", func(t *testing.T) {
		in, resolve := core.NewPromise[int]()
		out := core.Then(in, func(v int, err error) (int, error) { return v * 10, err })

		resolve(4, nil)
		v, err := out.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 40, v)
	})

	t.Run("error passes through", func(t *testing.T) {
		boom := errors.New("boom")
		out := core.Then(core.Ready(0, boom), func(v int, err error) (int, error) { return v, err })
		_, err := out.Wait(context.Background())
		assert.Same(t, boom, err)
	})
}

func TestThen_PendingRunsOnResolver(t *testing.T) {
	in, resolve := core.NewPromise[int]()
	out := core.Then(in, func(v int, err error) (int, error) { return v + 1, err })
	out2 := core.Then(out, func(v int, err error) (int, error) { return v * 2, err })

	_, ok, _ := out2.Poll()
	assert.False(t, ok)

	resolve(1, nil)
	v, ok, err := out2.Poll()
	require.True(t, ok, "continuations run before resolve returns")
	require.NoError(t, err)
	assert.Equal(t, 4, v)
}

func TestTry_AbandonedPendingLeavesNoGoroutines(t *testing.T) {
	req := core.NewRequest("slow", "req-1")
	never := core.ExtractorFunc[string](func(*core.Request, *core.Payload) *core.Future[string] {
		f, _ := core.NewPromise[string]()
		return f
	})

	runtime.GC()
	before := runtime.NumGoroutine()
	for i := 0; i < 100; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		p := core.NoPayload()
		_, err := core.Extract(ctx, core.Try[string](never), req, &p)
		cancel()
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		_, err = core.Extract(ctx, core.Self[pendingCaller](), req, &p)
		assert.Error(t, err)
	}
	time.Sleep(20 * time.Millisecond)

	assert.LessOrEqual(t, runtime.NumGoroutine(), before+5)
}

type pendingCaller struct{}

func (*pendingCaller) FromRequest(*core.Request, *core.Payload) *core.Future[struct{}] {
	f, _ := core.NewPromise[struct{}]()
	return f
}
