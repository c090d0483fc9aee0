package loader

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const callScript = "pays(max(S - 100, 0))"

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) {
	return 0, errors.New("forced read error")
}

// verifyLoader checks that a loader can be read repeatedly and reports the expected scheme.
func verifyLoader(t *testing.T, l Loader, scheme, want string) {
	t.Helper()
	require.NotNil(t, l)

	u := l.GetSourceURL()
	require.NotNil(t, u)
	assert.Equal(t, scheme, u.Scheme)

	for range 2 {
		r, err := l.GetReader()
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, want, string(got))
	}
}

func TestFromString(t *testing.T) {
	t.Parallel()

	t.Run("trims and reads", func(t *testing.T) {
		l, err := NewFromString("\n  " + callScript + "\n")
		require.NoError(t, err)
		verifyLoader(t, l, "string", callScript)
		assert.Equal(t, "inline", l.GetSourceURL().Host)
		assert.Contains(t, l.String(), "loader.FromString")
	})

	t.Run("same content same URL", func(t *testing.T) {
		a, err := NewFromString(callScript)
		require.NoError(t, err)
		b, err := NewFromString(callScript + "\n")
		require.NoError(t, err)
		assert.Equal(t, a.GetSourceURL().String(), b.GetSourceURL().String())
	})

	for _, in := range []string{"", "  \n\t"} {
		_, err := NewFromString(in)
		require.ErrorIs(t, err, ErrScriptNotAvailable)
	}
}

func TestFromBytes(t *testing.T) {
	t.Parallel()

	t.Run("reads a copy", func(t *testing.T) {
		src := []byte(callScript)
		l, err := NewFromBytes(src)
		require.NoError(t, err)
		src[0] = 'X'
		verifyLoader(t, l, "bytes", callScript)
		assert.Contains(t, l.String(), "loader.FromBytes")
	})

	for _, in := range [][]byte{nil, {}, []byte(" \r\n")} {
		_, err := NewFromBytes(in)
		require.ErrorIs(t, err, ErrScriptNotAvailable)
	}
}

func TestFromIoReader(t *testing.T) {
	t.Parallel()

	t.Run("named source", func(t *testing.T) {
		l, err := NewFromIoReader(strings.NewReader(callScript), "desk")
		require.NoError(t, err)
		verifyLoader(t, l, "reader", callScript)
		assert.Equal(t, "desk", l.GetSourceURL().Host)
		assert.Contains(t, l.String(), "reader://desk/")
	})

	t.Run("unnamed source", func(t *testing.T) {
		l, err := NewFromIoReader(strings.NewReader(callScript), "")
		require.NoError(t, err)
		assert.Equal(t, "unnamed", l.GetSourceURL().Host)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := NewFromIoReader(nil, "x")
		require.ErrorIs(t, err, ErrScriptNotAvailable)

		_, err = NewFromIoReader(strings.NewReader("   "), "x")
		require.ErrorIs(t, err, ErrScriptNotAvailable)

		_, err = NewFromIoReader(errorReader{}, "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read from reader")
	})
}

func TestMockLoader(t *testing.T) {
	t.Parallel()
	m := NewMockLoaderWithContent([]byte(callScript))
	r, err := m.GetReader()
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, callScript, string(got))
	m.AssertExpectations(t)
}
