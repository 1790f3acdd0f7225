package digest_test

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"

	"github.com/byte4ever/somafreeze/freeze/digest"
)

func writeFile(
	tb testing.TB,
	dir string,
	name string,
	content string,
) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(tb, err)

	return path
}

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    digest.Algorithm
		wantErr bool
	}{
		{
			name:  "empty_means_default",
			input: "",
			want:  digest.Default,
		},
		{
			name:  "md5",
			input: "md5",
			want:  digest.MD5,
		},
		{
			name:  "xxh3",
			input: "xxh3-128",
			want:  digest.XXH3,
		},
		{
			name:  "sha256",
			input: "sha256",
			want:  digest.SHA256,
		},
		{
			name:    "unknown",
			input:   "crc32",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := digest.ParseAlgorithm(tt.input)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateFile_md5(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "payload.txt", "hello")

	got, err := digest.CalculateFile(path, digest.MD5)
	require.NoError(t, err)
	assert.Equal(
		t,
		"5d41402abc4b2a76b9719d911017c592",
		got,
	)
}

func TestCalculateFile_md5_empty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "empty.txt", "")

	got, err := digest.CalculateFile(path, digest.MD5)
	require.NoError(t, err)
	assert.Equal(
		t,
		"d41d8cd98f00b204e9800998ecf8427e",
		got,
	)
}

func TestCalculateFile_defaults_to_md5(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "payload.txt", "hello")

	got, err := digest.CalculateFile(path, "")
	require.NoError(t, err)
	assert.Equal(
		t,
		"5d41402abc4b2a76b9719d911017c592",
		got,
	)
}

func TestCalculateFile_sha256(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "payload.txt", "hello")

	got, err := digest.CalculateFile(path, digest.SHA256)
	require.NoError(t, err)
	assert.Equal(
		t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e"+
			"1b161e5c1fa7425e73043362938b9824",
		got,
	)
}

func TestCalculateFile_xxh3(t *testing.T) {
	t.Parallel()

	content := "proteomics export payload"

	dir := t.TempDir()
	path := writeFile(t, dir, "payload.txt", content)

	sum := xxh3.Hash128([]byte(content)).Bytes()
	want := hex.EncodeToString(sum[:])

	got, err := digest.CalculateFile(path, digest.XXH3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Len(t, got, 32)
}

func TestCalculateFile_missing_file(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := digest.CalculateFile(
		filepath.Join(dir, "nope.txt"),
		digest.MD5,
	)
	require.Error(t, err)
}

func TestCalculateFile_unknown_algorithm(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "payload.txt", "hello")

	_, err := digest.CalculateFile(path, "crc32")
	require.Error(t, err)
}

func FuzzCalculateFile(f *testing.F) {
	f.Add("hello")
	f.Add("")
	f.Add("proteomics export payload")

	f.Fuzz(func(t *testing.T, content string) {
		dir := t.TempDir()
		path := writeFile(t, dir, "fuzz.txt", content)

		got, err := digest.CalculateFile(path, digest.MD5)
		require.NoError(t, err)
		assert.Len(t, got, 32)
	})
}
