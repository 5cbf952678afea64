package download

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"transfer-lab/domain"
	"transfer-lab/errors"
)

// cancellingReader flips the token while serving the Nth read, simulating a
// user cancelling mid-transfer.
type cancellingReader struct {
	inner io.Reader
	after int
	reads int
	token *domain.CancelToken
}

func (r *cancellingReader) Read(p []byte) (int, error) {
	r.reads++
	if r.reads == r.after {
		r.token.Cancel()
	}
	return r.inner.Read(p)
}

func TestStreamWriter_Copy_Full_Stream(t *testing.T) {
	req := require.New(t)
	writer := NewStreamWriter(slog.Default(), 4)
	destination := filepath.Join(t.TempDir(), "payload.bin")
	content := "some bytes worth keeping"

	var progressed int64
	written, err := writer.Copy(destination, strings.NewReader(content), 1024, domain.NewCancelToken(), func(n int64) {
		progressed += n
	})

	req.NoError(err)
	req.Equal(int64(len(content)), written)
	req.Equal(written, progressed)

	data, err := os.ReadFile(destination)
	req.NoError(err)
	req.Equal(content, string(data))
}

func TestStreamWriter_Copy_Ceiling_Exceeded_Mid_Stream(t *testing.T) {
	req := require.New(t)
	writer := NewStreamWriter(slog.Default(), 10)
	destination := filepath.Join(t.TempDir(), "too-big.bin")

	// Given 25 bytes of source and a 20 byte ceiling
	src := strings.NewReader(strings.Repeat("x", 25))

	written, err := writer.Copy(destination, src, 20, domain.NewCancelToken(), nil)

	// Then the overflowing chunk is never written
	req.ErrorIs(err, errors.ErrSizeExceeded)
	req.Equal(int64(20), written)

	data, err := os.ReadFile(destination)
	req.NoError(err)
	req.Len(data, 20)
}

func TestStreamWriter_Copy_Cancelled_At_Chunk_Boundary(t *testing.T) {
	req := require.New(t)
	writer := NewStreamWriter(slog.Default(), 4)
	destination := filepath.Join(t.TempDir(), "cancelled.bin")
	token := domain.NewCancelToken()

	// Given a source that cancels the job during its second read
	src := &cancellingReader{
		inner: strings.NewReader(strings.Repeat("a", 12)),
		after: 2,
		token: token,
	}

	written, err := writer.Copy(destination, src, 1024, token, nil)

	// Then the chunk in flight completed, the next one never started
	req.ErrorIs(err, errors.ErrCancelled)
	req.Equal(int64(8), written)

	data, err := os.ReadFile(destination)
	req.NoError(err)
	req.Len(data, 8)
}

func TestStreamWriter_Copy_Cancelled_Before_First_Chunk(t *testing.T) {
	req := require.New(t)
	writer := NewStreamWriter(slog.Default(), 4)
	destination := filepath.Join(t.TempDir(), "never.bin")

	token := domain.NewCancelToken()
	token.Cancel()

	written, err := writer.Copy(destination, strings.NewReader("data"), 1024, token, nil)

	req.ErrorIs(err, errors.ErrCancelled)
	req.Zero(written)
}

func TestStreamWriter_Copy_Read_Failure_Is_Wrapped(t *testing.T) {
	req := require.New(t)
	writer := NewStreamWriter(slog.Default(), 4)
	destination := filepath.Join(t.TempDir(), "broken.bin")

	written, err := writer.Copy(destination, brokenReader{}, 1024, domain.NewCancelToken(), nil)

	req.Error(err)
	req.ErrorContains(err, "read stream")
	req.Zero(written)
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
