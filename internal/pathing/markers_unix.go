//go:build !windows

package pathing

const (
	Sep         = "/"
	PathListSep = ":"
	LineSep     = "\n"

	altSep = ""
)

func isSep(c byte) bool {
	return c == '/'
}

func splitDrive(p string) (string, string) {
	return "", p
}

// validText accepts any bytes, POSIX paths are byte strings.
func validText([]byte) bool {
	return true
}
