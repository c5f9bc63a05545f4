// Package cli provides the interactive cloud drive command-line client.
//
// It wires configuration, the identity provider, the storage backend, and an
// interactive REPL over the file-session view model. Typical flow: prompt for
// credentials, then list, upload, share, and delete files.
//
// Key features:
//   - Login / Logout against the identity provider
//   - List files with size, kind, and link availability
//   - Upload a single file (replaces an existing file with the same name)
//   - Delete with interactive confirmation
//   - Share: copy a file's temporary link to the clipboard
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
