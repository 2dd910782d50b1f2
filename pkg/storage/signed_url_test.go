package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("job-1", "rajbhasha/job-1.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	jobID, path, parsedExpiry, err := signer.Parse(token, false)
	require.NoError(t, err)
	require.Equal(t, "job-1", jobID)
	require.Equal(t, "rajbhasha/job-1.pdf", path)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Generate("job-1", "rajbhasha/job-1.csv")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, _, _, err = signer.Parse(token, false)
	require.ErrorIs(t, err, ErrTokenExpired)

	jobID, _, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	require.Equal(t, "job-1", jobID)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("job-1", "rajbhasha/job-1.pdf")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "job-2"
	_, _, _, err = signer.Parse(strings.Join(parts, "."), false)
	require.ErrorIs(t, err, ErrInvalidToken)

	other := NewSignedURLSigner("other", time.Hour)
	_, _, _, err = other.Parse(token, false)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, _, _, err = signer.Parse("garbage", false)
	require.ErrorIs(t, err, ErrInvalidToken)
}
