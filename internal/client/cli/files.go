package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/clouddrive/internal/client/drive"
	"github.com/dmitrijs2005/clouddrive/internal/common"
)

// List refreshes the listing for the signed-in identity and renders it.
func (a *App) List(ctx context.Context) error {
	id := a.provider.Current()
	if id == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return common.ErrNoSession
	}

	fmt.Fprintln(a.out, "Loading files...")

	if err := a.drive.Refresh(ctx, id); err != nil {
		snap := a.drive.Snapshot()
		fmt.Fprintf(a.out, "Error loading files: %v\n", snap.Err)
		return err
	}

	snap := a.drive.Snapshot()
	if len(snap.Files) == 0 {
		fmt.Fprintln(a.out, "No files uploaded yet.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tSIZE\tKIND\tLINK")
	for i, f := range snap.Files {
		link := "-"
		if _, ok := snap.Links[f.Name]; ok {
			link = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			i+1, f.Name, formatSize(f.SizeBytes), drive.Classify(f.Name), link)
	}
	return w.Flush()
}

// Upload sends one local file to the user's namespace. The stored name is
// the local base name; an existing file with the same name is replaced.
// The listing is not refreshed here: run "list" to see the new file.
func (a *App) Upload(ctx context.Context, path string) error {
	id := a.provider.Current()
	if id == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return common.ErrNoSession
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(a.out, "Upload failed: %v\n", err)
		return err
	}
	defer f.Close()

	fmt.Fprintln(a.out, "Uploading...")

	if err := a.drive.Upload(ctx, id, filepath.Base(path), f); err != nil {
		fmt.Fprintf(a.out, "Upload failed: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, "File uploaded successfully!")
	return nil
}

// Delete asks for confirmation and removes the named file. Declining the
// confirmation leaves everything untouched.
func (a *App) Delete(ctx context.Context, name string) error {
	id := a.provider.Current()
	if id == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return common.ErrNoSession
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Are you sure you want to delete %q? [y/N]", name), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.drive.Delete(ctx, id, name); err != nil {
		fmt.Fprintf(a.out, "Error deleting file: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Deleted %q.\n", name)
	return nil
}

// Share copies the file's temporary link to the system clipboard.
func (a *App) Share(ctx context.Context, name string) error {
	ok, err := a.drive.CopyShareLink(name)
	if !ok {
		fmt.Fprintf(a.out, "No share link available for %q, run \"list\" first.\n", name)
		return nil
	}
	if err != nil {
		fmt.Fprintln(a.out, "Failed to copy link.")
		return err
	}
	fmt.Fprintln(a.out, "Link copied to clipboard!")
	return nil
}

// Open prints the file's temporary link so it can be followed in a browser.
func (a *App) Open(ctx context.Context, name string) error {
	url, ok := a.drive.ShareLink(name)
	if !ok {
		fmt.Fprintf(a.out, "No link available for %q, run \"list\" first.\n", name)
		return nil
	}
	fmt.Fprintln(a.out, url)
	return nil
}

// formatSize renders a byte count in a compact human-readable form.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
