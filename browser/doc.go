// Package browser is the browser-mode API client: a direct request per
// call returning the decoded envelope, plus file upload and download
// with optional progress reporting.
//
//	bc, err := browser.New(api)
//	env, err := browser.Get[[]User](ctx, bc, "/users", map[string]any{"page": 1})
//
// Downloads are handed to a [Host], which mimics the save-as sequence of
// a page: an object URL is created for the blob, a hidden anchor is
// clicked and the URL is revoked shortly after. The default [DiskHost]
// writes the blob to a directory.
package browser
