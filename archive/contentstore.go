package archive

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/poiesic/silo/core"
)

const snapshotKeyPrefix = "snapshot:"

// ContentStore persists locally captured page content. It backs the
// fallback tier of the archive coordinator: when the external service
// cannot capture a URL, the already-fetched HTML is stored here and the
// returned key serves as the snapshot reference.
type ContentStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenContentStore opens a badger-backed content store at the specified
// path. Creates the directory if it doesn't exist. Pass inMemory=true for
// an ephemeral store in tests.
func OpenContentStore(filePath string, inMemory bool) (*ContentStore, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &ContentStore{
		db:     db,
		logger: slog.Default().With("component", "content-store"),
	}, nil
}

// Close closes the underlying database.
func (s *ContentStore) Close() error {
	return s.db.Close()
}

// Put stores captured page content and returns the key that serves as the
// snapshot reference. The key is content-addressed on (url, capture time)
// so repeated captures of the same page coexist.
func (s *ContentStore) Put(url, mime, body string) (string, error) {
	capturedAt := time.Now().UTC()
	record := &snapshotRecord{
		URL:        url,
		MIME:       mime,
		Body:       body,
		CapturedAt: capturedAt.UnixMicro(),
	}

	id := core.IDFromContent(url + "|" + strconv.FormatInt(record.CapturedAt, 10))
	key := fmt.Sprintf("%s%016x", snapshotKeyPrefix, uint64(id))

	err := s.db.Update(func(tx *badger.Txn) error {
		return tx.Set([]byte(key), marshalSnapshotRecord(record))
	})
	if err != nil {
		return "", err
	}

	s.logger.Debug("stored local snapshot", "key", key, "url", url, "bytes", len(body))
	return key, nil
}

// Content is a locally captured snapshot read back from the store.
type Content struct {
	URL        string
	MIME       string
	Body       string
	CapturedAt time.Time
}

// Get retrieves previously captured content by its key.
// Returns ErrSnapshotNotFound if no content exists under the key.
func (s *ContentStore) Get(key string) (*Content, error) {
	var record *snapshotRecord

	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrSnapshotNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			record, err = unmarshalSnapshotRecord(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	return &Content{
		URL:        record.URL,
		MIME:       record.MIME,
		Body:       record.Body,
		CapturedAt: time.UnixMicro(record.CapturedAt).UTC(),
	}, nil
}
