package auth

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/hrportal/internal/common"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// MaxPasswordBytes is bcrypt's input ceiling. Longer inputs are rejected
// instead of being silently truncated.
const MaxPasswordBytes = 72

// BcryptHasher produces and checks bcrypt digests. Digests carry their own
// cost and salt, so changing Cost never breaks verification of old digests.
//
// At most `concurrency` hash or verify operations run at once; callers over
// the limit wait until a slot frees up or their context is done.
type BcryptHasher struct {
	cost int
	sem  *semaphore.Weighted
}

func NewBcryptHasher(cost int, concurrency int) *BcryptHasher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BcryptHasher{cost: cost, sem: semaphore.NewWeighted(int64(concurrency))}
}

func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt digest of plaintext.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := checkPlaintext(plaintext); err != nil {
		return "", err
	}
	if plaintext == "" {
		return "", fmt.Errorf("%w: empty password", common.ErrEncoding)
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	buf := []byte(plaintext)
	defer common.WipeByteArray(buf)

	digest, err := bcrypt.GenerateFromPassword(buf, h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: %v", common.ErrEncoding, err)
		}
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A well-formed digest that
// does not match yields (false, nil); a digest bcrypt cannot parse yields
// common.ErrFormat.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	if _, err := bcrypt.Cost([]byte(digest)); err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrFormat, err)
	}
	// Never produced by Hash, so it cannot match.
	if checkPlaintext(plaintext) != nil {
		return false, nil
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	buf := []byte(plaintext)
	defer common.WipeByteArray(buf)

	err := bcrypt.CompareHashAndPassword([]byte(digest), buf)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", common.ErrFormat, err)
	}
}

// NeedsRehash reports whether digest was produced with a cost other than the
// hasher's current one. Unparseable digests report true.
func (h *BcryptHasher) NeedsRehash(digest string) bool {
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		return true
	}
	return cost != h.cost
}

func checkPlaintext(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: password is not valid UTF-8", common.ErrEncoding)
	}
	if len(s) > MaxPasswordBytes {
		return fmt.Errorf("%w: password exceeds %d bytes", common.ErrEncoding, MaxPasswordBytes)
	}
	return nil
}
