package pagecache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutAndGet(t *testing.T) {
	st, err := OpenInMemory()
	require.NoError(t, err)
	defer st.Close()

	url := "https://www.spiegel.de/a-1.html"
	require.NoError(t, st.Put(url, []byte("<html>page</html>")))

	body, ok, err := st.Get(url)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<html>page</html>", string(body))
}

func TestStore_MissingKey(t *testing.T) {
	st, err := OpenInMemory()
	require.NoError(t, err)
	defer st.Close()

	body, ok, err := st.Get("https://www.spiegel.de/nope.html")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, body)
}

func TestOpen_OnDisk(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Put("u1", []byte("x")))
	body, ok, err := st.Get("u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", string(body))
}
