package fsresolve

import (
	"strconv"

	"github.com/yourusername/staticd/internal/httpproto"
)

// BuildErrorBody renders the minimal error body for code (spec §4.7).
func BuildErrorBody(code int) []byte {
	reason := httpproto.ReasonPhrase(code)
	return []byte("<html><body><h2>Error: " + strconv.Itoa(code) + " " + reason + "</h2></body></html>\n")
}
