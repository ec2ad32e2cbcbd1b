package lofi

import (
	"path"
	"strings"
)

// DownloadName returns the file name offered for a rendered file:
// "lofi-<original name without extension>.<ext>".
func DownloadName(original, ext string) string {
	base := path.Base(strings.ReplaceAll(original, `\`, "/"))
	if base == "." || base == "/" {
		base = ""
	}

	if dot := strings.LastIndex(base, "."); dot > 0 {
		base = base[:dot]
	}

	if base == "" {
		base = "audio"
	}

	return "lofi-" + base + "." + strings.TrimPrefix(ext, ".")
}
