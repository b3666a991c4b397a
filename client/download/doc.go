// Package download resolves the file name of a downloaded blob and
// streams blobs to disk.
//
// # File names
//
// [Filename] picks a name from a caller override, then the
// Content-Disposition header (RFC 5987 filename* before the legacy
// filename parameter), and finally a timestamped default:
//
//	name := download.Filename(resp.Header.Get("Content-Disposition"), "", time.Now())
//
// # Saving
//
// [Save] writes a body to a temporary file alongside the destination
// path, then atomically renames it on success:
//
//	err := download.Save(ctx, bytes.NewReader(blob), int64(len(blob)), destPath, logger,
//		download.WithChecksum(sha256.New(), expected),
//	)
//
// Most callers should use the higher-level
// [github.com/adamwoolhether/apiclient/browser] package, which fetches
// the blob and hands it to a save-as host.
package download
