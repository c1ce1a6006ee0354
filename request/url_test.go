package request

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentURL(t *testing.T) {
	tests := []struct {
		name   string
		server map[string]string
		want   string
	}{
		{
			name:   "root",
			server: map[string]string{KeyRequestScheme: "http", KeyServerName: "example.com", KeyServerPort: "80", KeyRequestURI: "/"},
			want:   "http://example.com",
		},
		{
			name:   "path",
			server: map[string]string{KeyRequestScheme: "http", KeyServerName: "example.com", KeyServerPort: "80", KeyRequestURI: "/img"},
			want:   "http://example.com/img",
		},
		{
			name:   "trailing slash",
			server: map[string]string{KeyRequestScheme: "http", KeyServerName: "example.com", KeyServerPort: "80", KeyRequestURI: "/img/"},
			want:   "http://example.com/img",
		},
		{
			name:   "script",
			server: map[string]string{KeyRequestScheme: "http", KeyServerName: "example.com", KeyServerPort: "80", KeyRequestURI: "/mvc/webroot/app.php"},
			want:   "http://example.com/mvc/webroot/app.php",
		},
		{
			name:   "custom port",
			server: map[string]string{KeyRequestScheme: "http", KeyServerName: "example.com", KeyServerPort: "8080", KeyRequestURI: "/mvc/webroot/app.php"},
			want:   "http://example.com:8080/mvc/webroot/app.php",
		},
		{
			name:   "decoded path",
			server: map[string]string{KeyRequestScheme: "http", KeyServerName: "example.com", KeyServerPort: "8080", KeyRequestURI: "/mvc/webroot/%31.php"},
			want:   "http://example.com:8080/mvc/webroot/1.php",
		},
		{
			name:   "https default port",
			server: map[string]string{KeyRequestScheme: "https", KeyHTTPS: "on", KeyServerName: "example.com", KeyServerPort: "443", KeyRequestURI: "/mvc/webroot/app.php"},
			want:   "https://example.com/mvc/webroot/app.php",
		},
		{
			name:   "https custom port",
			server: map[string]string{KeyRequestScheme: "https", KeyHTTPS: "on", KeyServerName: "example.com", KeyServerPort: "8080", KeyRequestURI: "/mvc/webroot/app.php"},
			want:   "https://example.com:8080/mvc/webroot/app.php",
		},
		{
			name:   "https flag overrides request scheme",
			server: map[string]string{KeyRequestScheme: "http", KeyHTTPS: "on", KeyServerName: "example.com", KeyServerPort: "443", KeyRequestURI: "/"},
			want:   "https://example.com",
		},
		{
			name:   "port 443 kept without https flag",
			server: map[string]string{KeyRequestScheme: "https", KeyServerName: "example.com", KeyServerPort: "443", KeyRequestURI: "/"},
			want:   "https://example.com:443",
		},
		{
			name:   "https flag is case sensitive",
			server: map[string]string{KeyRequestScheme: "http", KeyHTTPS: "ON", KeyServerName: "example.com", KeyServerPort: "443", KeyRequestURI: "/"},
			want:   "http://example.com:443",
		},
		{
			name:   "port 80 elided under https",
			server: map[string]string{KeyHTTPS: "on", KeyServerName: "example.com", KeyServerPort: "80", KeyRequestURI: "/"},
			want:   "https://example.com",
		},
		{
			name:   "scheme defaults to http",
			server: map[string]string{KeyServerName: "example.com", KeyServerPort: "80", KeyRequestURI: "/a"},
			want:   "http://example.com/a",
		},
		{
			name:   "unknown port is left out",
			server: map[string]string{KeyServerName: "example.com", KeyRequestURI: "/a"},
			want:   "http://example.com/a",
		},
		{
			name:   "query string is kept and escaped",
			server: map[string]string{KeyServerName: "example.com", KeyServerPort: "80", KeyRequestURI: "/list?a=1&b=2"},
			want:   "http://example.com/list?a=1&amp;b=2",
		},
		{
			name:   "markup in path is escaped",
			server: map[string]string{KeyServerName: "example.com", KeyServerPort: "80", KeyRequestURI: "/search/%3Cscript%3E"},
			want:   "http://example.com/search/&lt;script&gt;",
		},
		{
			name:   "markup in host is escaped",
			server: map[string]string{KeyHTTPHost: `<b>"x'`, KeyServerPort: "80", KeyRequestURI: "/"},
			want:   "http://&lt;b&gt;&quot;x&#039;",
		},
		{
			name:   "quotes in path are escaped",
			server: map[string]string{KeyServerName: "example.com", KeyServerPort: "80", KeyRequestURI: "/say/%22hi%22/%27yo%27"},
			want:   "http://example.com/say/&quot;hi&quot;/&#039;yo&#039;",
		},
		{
			name:   "empty environment",
			server: map[string]string{},
			want:   "http://",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := New(Globals{Server: tt.server})

			assert.Equal(t, tt.want, req.CurrentURL(true))
		})
	}
}

func TestCurrentURLHostFallback(t *testing.T) {
	tests := []struct {
		name   string
		server map[string]string
		want   string
	}{
		{
			name:   "server name wins",
			server: map[string]string{KeyServerName: "example.com", KeyHTTPHost: "webdev.example.com", KeyServerPort: "80", KeyRequestURI: "/"},
			want:   "http://example.com",
		},
		{
			name:   "empty server name",
			server: map[string]string{KeyServerName: "", KeyHTTPHost: "webdev.example.com", KeyServerPort: "80", KeyRequestURI: "/img"},
			want:   "http://webdev.example.com/img",
		},
		{
			name:   "missing server name",
			server: map[string]string{KeyHTTPHost: "example.com", KeyServerPort: "80", KeyRequestURI: "/img/"},
			want:   "http://example.com/img",
		},
		{
			name:   "custom port",
			server: map[string]string{KeyServerName: "", KeyHTTPHost: "example.com", KeyServerPort: "8080", KeyRequestURI: "/mvc/webroot/app.php"},
			want:   "http://example.com:8080/mvc/webroot/app.php",
		},
		{
			name:   "https default port",
			server: map[string]string{KeyRequestScheme: "https", KeyHTTPS: "on", KeyServerName: "", KeyHTTPHost: "example.com", KeyServerPort: "443", KeyRequestURI: "/mvc/webroot/app.php"},
			want:   "https://example.com/mvc/webroot/app.php",
		},
		{
			name:   "https custom port",
			server: map[string]string{KeyRequestScheme: "https", KeyHTTPS: "on", KeyServerName: "", KeyHTTPHost: "example.com", KeyServerPort: "8080", KeyRequestURI: "/mvc/webroot/app.php"},
			want:   "https://example.com:8080/mvc/webroot/app.php",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := New(Globals{Server: tt.server})

			assert.Equal(t, tt.want, req.CurrentURL(true))
		})
	}
}

func TestCurrentURLWithoutQuery(t *testing.T) {
	req := New(Globals{Server: map[string]string{
		KeyServerName: "example.com",
		KeyServerPort: "80",
		KeyRequestURI: "/list/?page=2",
	}})

	assert.Equal(t, "http://example.com/list/?page=2", req.CurrentURL(true))
	assert.Equal(t, "http://example.com/list", req.CurrentURL(false))

	req.SetServer(KeyRequestURI, "/list%3Fpage=2")
	assert.Equal(t, "http://example.com/list", req.CurrentURL(false))
}

func TestPortSuffix(t *testing.T) {
	tests := []struct {
		port  string
		https bool
		want  string
	}{
		{"", false, ""},
		{"80", false, ""},
		{"80", true, ""},
		{"443", true, ""},
		{"443", false, ":443"},
		{"8080", false, ":8080"},
		{"8080", true, ":8080"},
		{" 443", true, ""},
		{"abc", true, ":abc"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, portSuffix(tt.port, tt.https), "%q %v", tt.port, tt.https)
	}
}

func TestSiteURLFrom(t *testing.T) {
	t.Run("valid urls", func(t *testing.T) {
		tests := []struct {
			in   string
			want string
		}{
			{"http://example.com", "http://example.com"},
			{"http://example.com/a/b?c=d", "http://example.com"},
			{"https://example.com:8443/a", "https://example.com:8443"},
			{"http://[::1]:8080/a", "http://[::1]:8080"},
			{"http://example.com:/a", "http://example.com"},
			{"http://example.com/search/100%", "http://example.com"},
			{"http://example.com:8080/x\ny", "http://example.com:8080"},
			{"http://example.com?q=%zz", "http://example.com"},
			{"http://example.com/say/&quot;hi&quot;#x", "http://example.com"},
		}

		for _, tt := range tests {
			got, err := siteURLFrom(tt.in)

			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got)
		}
	})

	t.Run("undeterminable urls", func(t *testing.T) {
		for _, in := range []string{"http://", "http://:8080/a", "http://bad host/", "/relative"} {
			_, err := siteURLFrom(in)

			assert.True(t, errors.Is(err, ErrUndeterminableURL), in)
		}
	})
}
