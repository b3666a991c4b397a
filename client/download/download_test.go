package download_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/adamwoolhether/apiclient/client/download"
)

func TestFilename(t *testing.T) {
	now := time.Date(2024, time.March, 5, 16, 7, 8, 0, time.UTC)

	testCases := map[string]struct {
		disposition string
		override    string
		exp         string
	}{
		"overrideWins": {
			disposition: `attachment; filename="data.csv"`,
			override:    "mine.csv",
			exp:         "mine.csv",
		},
		"rfc5987": {
			disposition: `attachment; filename*=UTF-8''report%20final.csv`,
			exp:         "report final.csv",
		},
		"rfc5987CaseInsensitive": {
			disposition: `attachment; FILENAME*=utf-8''%E6%8A%A5%E8%A1%A8.xlsx`,
			exp:         "报表.xlsx",
		},
		"rfc5987BeforeLegacy": {
			disposition: `attachment; filename="fallback.csv"; filename*=UTF-8''real.csv`,
			exp:         "real.csv",
		},
		"legacyQuoted": {
			disposition: `attachment; filename="data.csv"`,
			exp:         "data.csv",
		},
		"legacyUnquoted": {
			disposition: `attachment; filename=data.csv; size=10`,
			exp:         "data.csv",
		},
		"noFilename": {
			disposition: "attachment",
			exp:         "导出_20240306000708",
		},
		"noHeader": {
			exp: "导出_20240306000708",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			if got := download.Filename(tc.disposition, tc.override, now); got != tc.exp {
				t.Errorf("exp %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestDefaultFilename(t *testing.T) {
	re := regexp.MustCompile(`^导出_\d{14}$`)
	if got := download.DefaultFilename(time.Now()); !re.MatchString(got) {
		t.Errorf("default name %q does not match %s", got, re)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.bin")
	data := "hello, blob"

	sum := sha256.Sum256([]byte(data))
	var logs bytes.Buffer

	err := download.Save(t.Context(), strings.NewReader(data), int64(len(data)), dest, slog.New(slog.NewJSONHandler(&logs, nil)),
		download.WithChecksum(sha256.New(), strings.ToUpper(hex.EncodeToString(sum[:]))),
	)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading dest: %v", err)
	}
	if string(got) != data {
		t.Errorf("exp %q, got %q", data, got)
	}
	if !strings.Contains(logs.String(), `"msg":"download complete"`) {
		t.Errorf("exp completion log, got %s", logs.String())
	}

	assertNoTempFiles(t, dir)
}

func TestSave_Errors(t *testing.T) {
	testCases := map[string]struct {
		ctx    func(t *testing.T) context.Context
		size   int64
		opts   []download.Option
		expErr error
	}{
		"lengthMismatch": {
			size:   99,
			expErr: download.ErrContentLengthMismatch,
		},
		"checksumMismatch": {
			size:   -1,
			opts:   []download.Option{download.WithChecksum(sha256.New(), "deadbeef")},
			expErr: download.ErrChecksumMismatch,
		},
		"cancelled": {
			ctx: func(t *testing.T) context.Context {
				ctx, cancel := context.WithCancel(t.Context())
				cancel()
				return ctx
			},
			size:   -1,
			expErr: download.ErrDownloadCancelled,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			if tc.ctx != nil {
				ctx = tc.ctx(t)
			}

			dir := t.TempDir()
			dest := filepath.Join(dir, "out.bin")

			err := download.Save(ctx, strings.NewReader("payload"), tc.size, dest, slog.New(slog.DiscardHandler), tc.opts...)
			if !errors.Is(err, tc.expErr) {
				t.Fatalf("exp %v, got %v", tc.expErr, err)
			}

			if _, err := os.Stat(dest); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("dest should not exist, stat err: %v", err)
			}
			assertNoTempFiles(t, dir)
		})
	}
}

func TestSave_SkipExisting(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "keep.txt")
	if err := os.WriteFile(dest, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := download.Save(t.Context(), strings.NewReader("new"), 3, dest, nil, download.WithSkipExisting())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _ := os.ReadFile(dest)
	if string(got) != "original" {
		t.Errorf("existing file was overwritten: %q", got)
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, ".apiclient-dl-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}
