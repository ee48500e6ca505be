package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage documents in the store",
	Long:  `Upload, list or delete the documents of the active store.`,
}

var documentUploadCmd = &cobra.Command{
	Use:   "upload <path|glob>...",
	Short: "Upload documents",
	Long: `Uploads files to the active store and waits until each one is indexed.

Arguments may be files, directories (uploaded recursively) or glob patterns
such as "docs/**/*.pdf". Files are uploaded one at a time; a failure does not
stop the remaining files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDocumentUpload,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete <ref>",
	Short: "Delete a document",
	Long:  `Deletes a document addressed by its local ID, remote ID or file name.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var (
	uploadExcludes []string
	documentJSON   bool
)

func init() {
	documentUploadCmd.Flags().StringSliceVarP(&uploadExcludes, "exclude", "x", nil, "glob patterns to skip")
	documentListCmd.Flags().BoolVar(&documentJSON, "json", false, "output documents as JSON")

	documentCmd.AddCommand(documentUploadCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

// readFile is replaced in tests.
var readFile = os.ReadFile

func runDocumentUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	paths, err := expandPaths(args, uploadExcludes)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files match %v", args)
	}

	files := make([]domain.UploadFile, 0, len(paths))
	for _, path := range paths {
		content, err := readFile(path)
		files = append(files, domain.UploadFile{Name: filepath.Base(path), Content: content, Err: err})
	}

	var bar *progressbar.ProgressBar
	if len(files) > 1 {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Uploading"),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(cmd.ErrOrStderr())
			}),
		)
	}

	results := documentService.UploadBatch(cmd.Context(), files, func(_, _ int, result domain.UploadResult) {
		if bar != nil {
			bar.Describe(result.Name)
			_ = bar.Add(1)
		}
	})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			cmd.Printf("  FAILED  %s: %v\n", r.Name, r.Err)
			continue
		}
		cmd.Printf("  OK      %s\n", r.Name)
	}

	cmd.Printf("\nUploaded %d of %d documents.\n", len(results)-failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(results))
	}
	return nil
}

// expandPaths resolves files, directories and doublestar globs into a
// sorted list of regular files with duplicates removed.
func expandPaths(args, excludes []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	add := func(path string) error {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		clean := filepath.Clean(path)
		if seen[clean] || excluded(clean, excludes) {
			return nil
		}
		seen[clean] = true
		out = append(out, clean)
		return nil
	}

	for _, arg := range args {
		pattern := arg
		if info, err := os.Stat(arg); err == nil {
			if !info.IsDir() {
				if err := add(arg); err != nil {
					return nil, err
				}
				continue
			}
			pattern = filepath.Join(arg, "**", "*")
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		for _, m := range matches {
			if err := add(m); err != nil {
				return nil, err
			}
		}
	}

	sort.Strings(out)
	return out, nil
}

func excluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.PathMatch(pattern, path); err == nil && ok {
			return true
		}
		if ok, err := doublestar.PathMatch(pattern, filepath.Base(path)); err == nil && ok {
			return true
		}
	}
	return false
}

// documentView is the JSON shape of a listed document.
type documentView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	RemoteID   string    `json:"remote_id,omitempty"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
	SizeBytes  int64     `json:"size_bytes,omitempty"`
	MIMEType   string    `json:"mime_type,omitempty"`
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	listing, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", explain(err))
	}

	if documentJSON {
		views := make([]documentView, 0, len(listing.Entries))
		for i := range listing.Entries {
			e := &listing.Entries[i]
			views = append(views, documentView{
				ID:         e.ID,
				Name:       e.Name,
				RemoteID:   e.RemoteID,
				Status:     e.Status.String(),
				Error:      e.Error,
				UploadedAt: e.UploadedAt,
				SizeBytes:  e.SizeBytes,
				MIMEType:   e.MIMEType,
			})
		}
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if listing.Stale {
		cmd.Printf("Warning: showing cached list, remote unavailable (%v)\n\n", listing.Cause)
	}

	if len(listing.Entries) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range listing.Entries {
		e := &listing.Entries[i]
		cmd.Printf("  %s [%s]\n", e.Name, e.Status)
		cmd.Printf("    ID:       %s\n", e.ID)
		cmd.Printf("    Uploaded: %s\n", e.UploadedAt.Local().Format("2006-01-02 15:04:05"))
		if e.Error != "" {
			cmd.Printf("    Error:    %s\n", e.Error)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(listing.Entries))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ref := args[0]
	if err := documentService.Delete(cmd.Context(), ref); err != nil {
		return fmt.Errorf("failed to delete document: %w", explain(err))
	}

	cmd.Printf("Document %s deleted.\n", ref)
	return nil
}
