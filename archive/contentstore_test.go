package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentStorePutGet(t *testing.T) {
	store := newTestStore(t)

	key, err := store.Put("https://example.com/article", "text/html", "<html><body>content</body></html>")
	require.NoError(t, err)
	require.NotEmpty(t, key)

	content, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/article", content.URL)
	assert.Equal(t, "text/html", content.MIME)
	assert.Equal(t, "<html><body>content</body></html>", content.Body)
	assert.False(t, content.CapturedAt.IsZero())
}

func TestContentStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("snapshot:000000000000dead")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestContentStoreOnDisk(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenContentStore(dir, false)
	require.NoError(t, err)

	key, err := store.Put("https://example.com", "text/html", "persisted")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := OpenContentStore(dir, false)
	require.NoError(t, err)
	defer reopened.Close()

	content, err := reopened.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "persisted", content.Body)
}

func TestSnapshotRecordRoundTrip(t *testing.T) {
	record := &snapshotRecord{
		URL:        "https://example.com/page",
		MIME:       "text/html",
		Body:       "<html>body with unicode ü</html>",
		CapturedAt: 1735689600000000,
	}

	decoded, err := unmarshalSnapshotRecord(marshalSnapshotRecord(record))
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
}

func TestSnapshotRecordUnmarshalCorrupt(t *testing.T) {
	_, err := unmarshalSnapshotRecord([]byte{0xff})
	assert.Error(t, err)
}
