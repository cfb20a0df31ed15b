package conversion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWarmer struct{ mock.Mock }

func (m *MockWarmer) WarmSnapshot(ctx context.Context, execID string) error {
	args := m.Called(ctx, execID)
	return args.Error(0)
}

func TestNewScheduler_Constructs(t *testing.T) {
	s := NewScheduler(new(MockWarmer), 10*time.Second)
	require.NotNil(t, s)
	require.False(t, s.running())
}

func TestNewScheduler_UsesProvidedInterval(t *testing.T) {
	s := NewScheduler(new(MockWarmer), 42*time.Second)
	require.Equal(t, 42*time.Second, s.warmInterval)
}

func TestNewScheduler_DefaultsIntervalWhenInvalid(t *testing.T) {
	s := NewScheduler(new(MockWarmer), 0)
	require.Equal(t, defaultWarmInterval, s.warmInterval)
}

func TestScheduler_Shutdown_NoScheduler_ReturnsNil(t *testing.T) {
	s := NewScheduler(new(MockWarmer), 10*time.Second)
	require.NoError(t, s.Shutdown())
	require.False(t, s.running())
}

func TestScheduler_Start_RunsWarmJobImmediately(t *testing.T) {
	warmer := new(MockWarmer)
	ran := make(chan string, 1)
	warmer.On("WarmSnapshot", mock.Anything, mock.AnythingOfType("string")).
		Return(nil).
		Run(func(args mock.Arguments) {
			select {
			case ran <- args.String(1):
			default:
			}
		}).Maybe()

	s := NewScheduler(warmer, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	t.Cleanup(func() { _ = s.Shutdown() })

	select {
	case execID := <-ran:
		require.NotEmpty(t, execID)
	case <-time.After(2 * time.Second):
		t.Fatal("warm job did not run")
	}
}

func TestScheduler_Start_And_ContextCancel_ShutsDown(t *testing.T) {
	warmer := new(MockWarmer)
	warmer.On("WarmSnapshot", mock.Anything, mock.Anything).Return(nil).Maybe()
	s := NewScheduler(warmer, 10*time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	require.True(t, s.running())

	cancel()

	require.Eventually(t, func() bool { return !s.running() }, 2*time.Second, 10*time.Millisecond,
		"expected scheduler to be shutdown after ctx cancel")
}

func TestScheduler_Shutdown_AfterStart_Idempotent(t *testing.T) {
	warmer := new(MockWarmer)
	warmer.On("WarmSnapshot", mock.Anything, mock.Anything).Return(nil).Maybe()
	s := NewScheduler(warmer, 10*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	require.True(t, s.running())

	require.NoError(t, s.Shutdown())
	require.False(t, s.running())

	require.NoError(t, s.Shutdown())
}
