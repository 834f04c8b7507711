package upload

import (
	"fmt"
	"strings"
)

var archiveExtensions = []string{".zip", ".tar.gz", ".tgz", ".rar", ".7z"}

// IsArchive reports whether the file name carries a recognized
// pre-compressed extension.
func IsArchive(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Validate checks the union of already-selected and incoming files against
// the selection rules for the category:
//
//  1. at most one pre-compressed archive,
//  2. archives and loose files are mutually exclusive,
//  3. every file fits under the category's per-file size ceiling.
//
// It is pure: no file content is read. A rejection is returned as a
// *ValidationError whose Reason is safe to show to the user verbatim.
func Validate(existing, incoming []File, category Category) error {
	all := make([]File, 0, len(existing)+len(incoming))
	all = append(all, existing...)
	all = append(all, incoming...)

	var archives, loose int
	for _, f := range all {
		if IsArchive(f.Name) {
			archives++
		} else {
			loose++
		}
	}

	if archives > 1 {
		return &ValidationError{Reason: "only one compressed file (zip, tar.gz, etc.) is allowed; select a single archive"}
	}
	if archives == 1 && loose > 0 {
		return &ValidationError{Reason: "cannot mix compressed files with regular files; use either one archive or multiple regular files"}
	}

	limit := category.MaxFileSize()
	for _, f := range all {
		if f.Size > limit {
			return &ValidationError{Reason: fmt.Sprintf(
				"file %q is too large: the maximum size for %s uploads is %s",
				f.Name, strings.ToLower(category.String()), formatSize(limit),
			)}
		}
	}

	return nil
}

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
	return fmt.Sprintf("%.4g %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
