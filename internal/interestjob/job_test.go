package interestjob

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeAccruer struct {
	calls atomic.Int32
	err   error
}

func (f *fakeAccruer) AccrueAll(ctx context.Context) (int, error) {
	f.calls.Add(1)

	if zerolog.Ctx(ctx).GetLevel() == zerolog.Disabled {
		return 0, errors.New("no logger in context")
	}

	return 3, f.err
}

func TestRun(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		accountsErr error
		cardsErr    error
	}{
		{name: "OK"},
		{name: "AccountsFail", accountsErr: errors.New("boom")},
		{name: "CardsFail", cardsErr: errors.New("boom")},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			accounts := &fakeAccruer{err: tc.accountsErr}
			cards := &fakeAccruer{err: tc.cardsErr}

			job, err := New("0 0 1 * *", zerolog.New(zerolog.NewTestWriter(t)), accounts, cards)
			require.NoError(t, err)

			job.Run(context.Background())

			require.Equal(t, int32(1), accounts.calls.Load())
			require.Equal(t, int32(1), cards.calls.Load())
		})
	}
}

func TestNewInvalidSchedule(t *testing.T) {
	t.Parallel()

	_, err := New("every month", zerolog.Nop(), &fakeAccruer{}, &fakeAccruer{})
	require.Error(t, err)
}

func TestStart(t *testing.T) {
	t.Parallel()

	accounts := &fakeAccruer{}
	cards := &fakeAccruer{}

	job, err := New("@every 1s", zerolog.New(io.Discard), accounts, cards)
	require.NoError(t, err)

	job.Start()

	require.Eventually(t, func() bool {
		return accounts.calls.Load() > 0 && cards.calls.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	<-job.Stop().Done()
}
