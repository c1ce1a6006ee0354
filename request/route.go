package request

import "strings"

// ExtractRoute recomputes the route from the decoded request URI and
// script name captured by the last Init, stores it and returns it.
//
// The route is what remains of the request URI after the common prefix
// with the script directory, with the script file name (when present)
// and the query string removed:
//
//	/app/webroot/index.php/user/view/1?x=2  ->  user/view/1
//	/app/webroot/user/view/1                ->  user/view/1
func (r *Request) ExtractRoute() string {
	i := commonPrefixLen(r.requestURI, r.scriptPath)
	route := strings.Trim(r.requestURI[i:], "/")
	route = stripScriptName(route, r.scriptName)

	if q := strings.IndexByte(route, '?'); q >= 0 {
		route = route[:q]
	}

	r.route = strings.Trim(route, "/")
	r.routeParts = strings.Split(r.route, "/")

	return r.route
}

// commonPrefixLen returns the number of leading bytes a and b share.
func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// stripScriptName removes a leading, case-insensitive script file name
// together with the separator that follows it. The name must end at a
// "/" or "?" boundary, or make up the whole route.
func stripScriptName(route, file string) string {
	if file == "" || len(route) < len(file) {
		return route
	}

	if !strings.EqualFold(route[:len(file)], file) {
		return route
	}

	rest := route[len(file):]
	switch {
	case rest == "":
		return ""
	case rest[0] == '/':
		return rest[1:]
	case rest[0] == '?':
		return rest
	}

	return route
}

// splitScriptName splits a decoded script name into its directory,
// without trailing slash, and its file name.
func splitScriptName(name string) (dir, file string) {
	name = strings.TrimRight(name, "/")

	i := strings.LastIndexByte(name, '/')
	if i < 0 {
		return "", name
	}

	return strings.TrimRight(name[:i], "/"), name[i+1:]
}

// rawURLDecode decodes %XX escapes. Malformed escapes are kept as is and
// "+" is not treated as a space.
func rawURLDecode(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}

	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
