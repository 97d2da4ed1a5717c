package fsresolve

import (
	"strings"
	"testing"
)

func TestBuildErrorBody(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{403, "<h2>Error: 403 Forbidden</h2>"},
		{404, "<h2>Error: 404 Not Found</h2>"},
		{500, "<h2>Error: 500 Error</h2>"},
	}

	for _, tt := range tests {
		body := string(BuildErrorBody(tt.code))
		if !strings.Contains(body, tt.want) {
			t.Errorf("BuildErrorBody(%d) = %q, want to contain %q", tt.code, body, tt.want)
		}
	}
}
