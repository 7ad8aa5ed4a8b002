package browse

import "regexp"

var driveFileIDRe = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// PreviewURL turns a Drive share link of the form .../d/<FILE_ID>/... into the
// embeddable preview URL. Links without a file id are returned unchanged.
func PreviewURL(driveLink string) string {
	m := driveFileIDRe.FindStringSubmatch(driveLink)
	if m == nil {
		return driveLink
	}
	return "https://drive.google.com/file/d/" + m[1] + "/preview"
}
