package notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/announcement-relay/pkg/errors"
)

type stubSender struct {
	failFor map[string]error
	calls   []string
}

func (s *stubSender) Send(_ context.Context, recipient, body string) (string, error) {
	s.calls = append(s.calls, recipient)
	if err := s.failFor[recipient]; err != nil {
		return "", err
	}
	return "SM-" + recipient, nil
}

func newTestService(recipients []string, delay time.Duration, sender Sender) (*service, *[]time.Duration) {
	var waits []time.Duration
	svc := &service{
		cfg:    Config{Recipients: recipients, Delay: delay},
		sender: sender,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		sleep: func(ctx context.Context, d time.Duration) error {
			waits = append(waits, d)
			return ctx.Err()
		},
	}
	return svc, &waits
}

func TestNotifyContinuesAfterFailure(t *testing.T) {
	sender := &stubSender{failFor: map[string]error{"+2": errors.New("unreachable")}}
	svc, _ := newTestService([]string{"+1", "+2", "+3"}, 0, sender)

	report, err := svc.Notify(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, []string{"+1", "+2", "+3"}, sender.calls)
	require.Equal(t, 2, report.Sent)
	require.Equal(t, 1, report.Failed)
	require.Equal(t, []Delivery{
		{Recipient: "+1", Status: StatusSent, SID: "SM-+1"},
		{Recipient: "+2", Status: StatusFailed, Error: "unreachable"},
		{Recipient: "+3", Status: StatusSent, SID: "SM-+3"},
	}, report.Deliveries)
}

func TestNotifyWaitsBetweenSendsOnly(t *testing.T) {
	svc, waits := newTestService([]string{"+1", "+2", "+3"}, 2*time.Second, &stubSender{})

	_, err := svc.Notify(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, *waits)
}

func TestNotifySingleRecipientNeverWaits(t *testing.T) {
	svc, waits := newTestService([]string{"+1"}, time.Second, &stubSender{})

	report, err := svc.Notify(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, 1, report.Sent)
	require.Empty(t, *waits)
}

func TestNotifyAttemptsEveryRecipientAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sender := &cancellingSender{cancel: cancel}
	svc, waits := newTestService([]string{"+1", "+2", "+3"}, 10*time.Millisecond, sender)

	report, err := svc.Notify(ctx, "hello")
	require.NoError(t, err)
	require.ErrorIs(t, ctx.Err(), context.Canceled)
	require.Equal(t, []string{"+1", "+2", "+3"}, sender.calls)
	require.Equal(t, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond}, *waits)
	require.Equal(t, 3, report.Sent)
	require.Zero(t, report.Failed)
	for _, d := range report.Deliveries {
		require.Equal(t, StatusSent, d.Status)
	}
}

// cancellingSender cancels the caller's context after the first send and
// fails any send that sees a cancelled context.
type cancellingSender struct {
	cancel context.CancelFunc
	calls  []string
}

func (s *cancellingSender) Send(ctx context.Context, recipient, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.calls = append(s.calls, recipient)
	s.cancel()
	return "SM-" + recipient, nil
}

func TestNotifyValidation(t *testing.T) {
	svc, _ := newTestService([]string{"+1"}, 0, &stubSender{})
	_, err := svc.Notify(context.Background(), "  ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	empty, _ := newTestService(nil, 0, &stubSender{})
	_, err = empty.Notify(context.Background(), "hello")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotify))
}
