// Package httpproto implements the narrow HTTP/1.1 subset this server
// understands: method/path/header parsing, status reason phrases, and
// the fixed response header block.
package httpproto

// HTTP method IDs, compared case-sensitively against the nine verbs the
// spec recognizes. Anything else parses to MethodUnknown.
const (
	MethodUnknown uint8 = iota
	MethodGET
	MethodHEAD
	MethodPOST
	MethodPUT
	MethodDELETE
	MethodCONNECT
	MethodOPTIONS
	MethodTRACE
)

var (
	methodGETBytes     = []byte("GET")
	methodHEADBytes    = []byte("HEAD")
	methodPOSTBytes    = []byte("POST")
	methodPUTBytes     = []byte("PUT")
	methodDELETEBytes  = []byte("DELETE")
	methodCONNECTBytes = []byte("CONNECT")
	methodOPTIONSBytes = []byte("OPTIONS")
	methodTRACEBytes   = []byte("TRACE")
)

// MethodString returns the canonical verb for id, or "" for MethodUnknown.
func MethodString(id uint8) string {
	switch id {
	case MethodGET:
		return "GET"
	case MethodHEAD:
		return "HEAD"
	case MethodPOST:
		return "POST"
	case MethodPUT:
		return "PUT"
	case MethodDELETE:
		return "DELETE"
	case MethodCONNECT:
		return "CONNECT"
	case MethodOPTIONS:
		return "OPTIONS"
	case MethodTRACE:
		return "TRACE"
	default:
		return ""
	}
}

// Size limits. MaxHeaderSize bounds Connection.RequestBuf (spec §3
// invariant 4); MaxPathnameSize bounds the request path (spec §4.2).
const (
	MaxHeaderSize   = 8192
	MaxPathnameSize = 1024
)

// Header terminators. The source this spec was distilled from only
// recognized "\n\n"; RFC 7230 also allows "\r\n\r\n". Both are accepted
// (spec §9 open question).
var (
	terminatorLF   = []byte("\n\n")
	terminatorCRLF = []byte("\r\n\r\n")
)

// Status reason phrases (spec §4.4). Covers every code this server emits.
var statusReasons = map[int]string{
	200: "OK",
	204: "No Content",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	413: "Payload Too Large",
	414: "URI Too Long",
	431: "Request Header Fields Too Large",
}

// ReasonPhrase returns the reason phrase for code, or "Error" if unknown.
func ReasonPhrase(code int) string {
	if r, ok := statusReasons[code]; ok {
		return r
	}
	return "Error"
}

// Suffix-based MIME table (spec §6, "MIME collaborator"). Consulted
// before falling back to magic-byte sniffing.
var suffixMIME = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".mp4":  "video/mp4",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// MIMEBySuffix returns the table entry for suffix (e.g. ".html"), and ok.
func MIMEBySuffix(suffix string) (string, bool) {
	m, ok := suffixMIME[suffix]
	return m, ok
}
