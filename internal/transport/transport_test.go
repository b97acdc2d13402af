package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFakeSendReturnsHandlerOutput(t *testing.T) {
	f := NewFake("router#", func(cmd string) (string, error) {
		return "ok: " + cmd, nil
	})
	out, err := f.Send(context.Background(), "show version")
	require.NoError(t, err)
	require.Equal(t, "ok: show version", out)
}

func TestFakeSendFailNextWrapsTransportError(t *testing.T) {
	f := NewFake("router#", nil)
	f.FailNext = true
	_, err := f.Send(context.Background(), "show version")
	require.True(t, errors.Is(err, ErrTransport))
}

func TestFakeSendHonorsCancellation(t *testing.T) {
	f := NewFake("router#", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Send(ctx, "show version")
	require.True(t, errors.Is(err, ErrTransport))
}

func TestFakeDialerCountsDials(t *testing.T) {
	d := &FakeDialer{Chan: NewFake("router#", nil)}
	_, err := d.Dial(context.Background())
	require.NoError(t, err)
	_, err = d.Dial(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, d.Dials)
}

func TestFakeDialerReturnsDialErr(t *testing.T) {
	wantErr := errors.New("refused")
	d := &FakeDialer{DialErr: wantErr}
	_, err := d.Dial(context.Background())
	require.ErrorIs(t, err, wantErr)
}

func TestFakeClose(t *testing.T) {
	f := NewFake("router#", nil)
	require.NoError(t, f.Close())
	require.True(t, f.Closed)
}
