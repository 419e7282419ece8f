package gateway

import (
	"net/url"
	"strconv"
	"strings"
)

// joinPath builds a path from escaped segments
func joinPath(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}
