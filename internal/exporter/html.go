package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/warrenZY/folderpad/internal/model"
)

// DefaultExportPath returns the default backup file path.
// Format: ~/Downloads/folderpad-grants-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("folderpad-grants-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders grants in Netscape bookmark HTML format. Each anchor
// carries the opaque token in a DATA-TOKEN attribute so a later import can
// restore the grant itself, not just the folder path.
func ExportHTML(grants []model.Grant) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Folder Grants</TITLE>\n")
	b.WriteString("<H1>Folder Grants</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, grant := range grants {
		fmt.Fprintf(&b,
			"    <DT><A HREF=\"%s\" DATA-TOKEN=\"%s\" ADD_DATE=\"%d\">%s</A>\n",
			html.EscapeString(pathURL(grant.Path)),
			html.EscapeString(grant.Token),
			grant.CreatedAt.Unix(),
			html.EscapeString(grant.Path),
		)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

// pathURL renders a folder path as a file URL.
func pathURL(path string) string {
	return "file://" + filepath.ToSlash(path)
}
