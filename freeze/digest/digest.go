package digest

import (
	"crypto/md5"    //nolint:gosec // content fingerprint, not a security control
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/xxh3"
)

// Algorithm selects the content hash used for file digests.
type Algorithm string

// Supported algorithms. Digests are hex strings for every
// algorithm; only their length differs (32 chars for the 128-bit
// hashes, 64 for sha256).
const (
	// MD5 is the 128-bit digest existing baselines were built
	// with.
	MD5 Algorithm = "md5"

	// XXH3 is XXH3-128, a fast 128-bit alternative.
	XXH3 Algorithm = "xxh3-128"

	// SHA256 is a cryptographic option.
	SHA256 Algorithm = "sha256"
)

// Default is the algorithm used when none is configured.
const Default = MD5

// ParseAlgorithm maps a name to an Algorithm. Empty input selects
// Default.
func ParseAlgorithm(s string) (Algorithm, error) {
	const errCtx = "parsing algorithm"

	switch Algorithm(s) {
	case "":
		return Default, nil
	case MD5, XXH3, SHA256:
		return Algorithm(s), nil
	default:
		return "", fmt.Errorf(
			"%s: unknown algorithm %q", errCtx, s,
		)
	}
}

// CalculateFile computes the hex digest of the file at path using
// the given algorithm, streaming the content through the hash.
func CalculateFile(
	path string,
	algo Algorithm,
) (result string, retErr error) {
	const errCtx = "calculating file digest"

	fi, err := os.Open(path) //nolint:gosec // path comes from the dataset layout
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := fi.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	switch algo {
	case MD5, "":
		return sumStream(errCtx, md5.New(), fi) //nolint:gosec // content fingerprint

	case SHA256:
		return sumStream(errCtx, sha256.New(), fi)

	case XXH3:
		ha := xxh3.New()

		if _, err := io.Copy(ha, fi); err != nil {
			return "", fmt.Errorf("%s: %w", errCtx, err)
		}

		sum := ha.Sum128().Bytes()

		return hex.EncodeToString(sum[:]), nil

	default:
		return "", fmt.Errorf(
			"%s: unknown algorithm %q", errCtx, algo,
		)
	}
}

// sumStream copies r through the hash and hex-encodes the sum.
func sumStream(
	errCtx string,
	ha hash.Hash,
	r io.Reader,
) (string, error) {
	if _, err := io.Copy(ha, r); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return hex.EncodeToString(ha.Sum(nil)), nil
}
