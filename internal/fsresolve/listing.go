package fsresolve

import "os"

// MaxListingSize bounds the synthesized directory-index body (spec §4.7).
// Callers must not invoke BuildListing on directories expected to
// overflow it — there is no pagination.
const MaxListingSize = 8 * 1024

const listingHeader = "<html><head><title>Index</title></head><body><h2>Index</h2><pre>\n"
const listingFooter = "</pre></body></html>\n"

// BuildListing enumerates dirPath, skipping entries whose name begins
// with "." or "-", and renders one anchor per remaining entry linking to
// requestPath+name (spec §4.7).
func BuildListing(dirPath, requestPath string) ([]byte, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, MaxListingSize)
	buf = append(buf, listingHeader...)

	for _, e := range entries {
		name := e.Name()
		if len(name) == 0 || name[0] == '.' || name[0] == '-' {
			continue
		}

		entry := "<a href=\"" + requestPath + name + "\">" + name + "</a><br>\n"
		if len(buf)+len(entry)+len(listingFooter) > MaxListingSize {
			break
		}
		buf = append(buf, entry...)
	}

	buf = append(buf, listingFooter...)
	return buf, nil
}
