//go:build windows

package pathing

import "unicode/utf8"

const (
	Sep         = `\`
	PathListSep = ";"
	LineSep     = "\r\n"

	altSep = "/"
)

func isSep(c byte) bool {
	return c == '\\' || c == '/'
}

// splitDrive splits a drive letter ("C:") or a UNC share ("\\host\share")
// from the rest of the path.
func splitDrive(p string) (string, string) {
	if len(p) < 2 { //nolint:mnd
		return "", p
	}

	if isSep(p[0]) && isSep(p[1]) && (len(p) == 2 || !isSep(p[2])) {
		index := indexSep(p, 2) //nolint:mnd
		if index == -1 {
			return "", p
		}

		index2 := indexSep(p, index+1)
		if index2 == index+1 {
			return "", p
		}
		if index2 == -1 {
			index2 = len(p)
		}

		return p[:index2], p[index2:]
	}

	if p[1] == ':' {
		return p[:2], p[2:]
	}

	return "", p
}

func indexSep(p string, from int) int {
	for i := from; i < len(p); i++ {
		if isSep(p[i]) {
			return i
		}
	}

	return -1
}

func validText(b []byte) bool {
	return utf8.Valid(b)
}
