package objectprovider

import (
	"bytes"
	"io"
	"sync"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
)

// ErrBinary is returned by countLines when a blob is classified binary:
// presence of a NUL byte in the first 8 KiB (spec.md §4.1), the same
// heuristic hercules's CachedBlob.CountLines() uses.
var ErrBinary = errors.New("binary")

const sniffLen = 8 << 10

// cachedBlob holds a blob's bytes and its already-computed line count, so
// repeated BlobLines/Diff calls for the same object across many commits
// never re-read the object store.
type cachedBlob struct {
	data  []byte
	lines int
	err   error
}

// blobCache is a concurrency-safe memoizing cache over blob contents and
// line counts, mirroring hercules's internal/plumbing/blob_cache.go but
// scoped to what this engine needs: content bytes and a line count,
// without hercules's full commit-diff bookkeeping.
type blobCache struct {
	mu    sync.Mutex
	byID  map[plumbing.Hash]*cachedBlob
	store func(plumbing.Hash) (*object.Blob, error)
}

func newBlobCache(store func(plumbing.Hash) (*object.Blob, error)) *blobCache {
	return &blobCache{byID: map[plumbing.Hash]*cachedBlob{}, store: store}
}

func (c *blobCache) get(id plumbing.Hash) (*cachedBlob, error) {
	c.mu.Lock()
	if cb, ok := c.byID[id]; ok {
		c.mu.Unlock()
		return cb, nil
	}
	c.mu.Unlock()

	blob, err := c.store(id)
	if err != nil {
		return nil, errors.Wrapf(err, "blob %s", id)
	}
	data, err := readBlob(blob)
	if err != nil {
		return nil, errors.Wrapf(err, "reading blob %s", id)
	}
	cb := &cachedBlob{data: data}
	cb.lines, cb.err = countLines(data)

	c.mu.Lock()
	if existing, ok := c.byID[id]; ok {
		c.mu.Unlock()
		return existing, nil
	}
	c.byID[id] = cb
	c.mu.Unlock()
	return cb, nil
}

func readBlob(blob *object.Blob) ([]byte, error) {
	r, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	buf := new(bytes.Buffer)
	buf.Grow(int(blob.Size))
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// countLines implements spec.md §4.1's blob_lines rule and the binary
// heuristic in one pass, matching hercules's CachedBlob.CountLines().
func countLines(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	sniff := data
	if len(sniff) > sniffLen {
		sniff = sniff[:sniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return 0, ErrBinary
	}
	lines := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		lines++
	}
	return lines, nil
}
