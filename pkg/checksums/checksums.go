// Package checksums verifies downloaded archives against the sha256
// sidecar published next to each release asset.
package checksums

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// FetchExpected retrieves the expected sha256 hex digest from the sidecar
// at url. A missing sidecar (404) is not an error: it returns an empty
// digest and verification is skipped. Any other non-success status is
// terminal.
func FetchExpected(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create checksum request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "failed to fetch checksum file: %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Debugf("no checksum sidecar at %s, skipping verification", url)
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("checksum fetch failed with status %d: %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", errors.Wrap(err, "failed to read checksum file")
	}

	// Sidecar format is either a bare digest or "digest  filename".
	fields := strings.Fields(string(body))
	if len(fields) == 0 {
		return "", fmt.Errorf("empty checksum file: %s", url)
	}
	digest := strings.ToLower(fields[0])
	if len(digest) != sha256.Size*2 {
		return "", fmt.Errorf("malformed sha256 digest in %s: %q", url, fields[0])
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return "", fmt.Errorf("malformed sha256 digest in %s: %q", url, fields[0])
	}
	return digest, nil
}

// Reader hashes everything read through it so the archive can be verified
// while it is being extracted.
type Reader struct {
	r io.Reader
	h hash.Hash
}

// NewReader wraps r with a sha256 hasher.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, h: sha256.New()}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.h.Write(p[:n])
	}
	return n, err
}

// Sum returns the hex digest of all bytes read so far.
func (r *Reader) Sum() string {
	return hex.EncodeToString(r.h.Sum(nil))
}

// Verify compares an actual digest against the expected one.
func Verify(actual, expected string) error {
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}
