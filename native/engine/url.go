package engine

import (
	"maps"
	"net/url"
	"strconv"
	"strings"

	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/status"
)

var defaultPorts = map[string]int{
	"http": 80, "https": 443, "ftp": 21, "ftps": 990, "sftp": 22, "scp": 22,
	"telnet": 23, "ldap": 389, "ldaps": 636, "dict": 2628, "tftp": 69,
	"imap": 143, "imaps": 993, "pop3": 110, "pop3s": 995, "smtp": 25,
	"smtps": 465, "rtsp": 554, "rtmp": 1935, "gopher": 70, "smb": 445, "smbs": 445,
}

// urlParts holds the components of a URL handle; an absent key is an unset
// part. Values are stored percent-encoded.
type urlParts map[native.URLPart]string

func (e *Engine) urlParts(u native.URL) (urlParts, bool) {
	return lookup[urlParts](e.objects, uintptr(u), KindURL)
}

// URLInit allocates an empty URL handle.
func (e *Engine) URLInit() native.URL {
	return native.URL(e.objects.alloc(KindURL, urlParts{}))
}

// URLDup copies u into a new handle.
func (e *Engine) URLDup(u native.URL) native.URL {
	p, ok := e.urlParts(u)
	if !ok {
		return 0
	}
	return native.URL(e.objects.alloc(KindURL, maps.Clone(p)))
}

// URLCleanup releases u.
func (e *Engine) URLCleanup(u native.URL) {
	e.objects.drop(uintptr(u), KindURL)
}

// URLSet sets one part of u. A nil value clears it; clearing the whole URL
// clears every part.
func (e *Engine) URLSet(u native.URL, part native.URLPart, value *string, flags native.URLFlags) status.URLCode {
	p, ok := e.urlParts(u)
	if !ok {
		return status.URLBadHandle
	}
	if part < native.URLPartURL || part > native.URLPartZoneID {
		return status.URLUnknownPart
	}
	if value == nil {
		if part == native.URLPartURL {
			clear(p)
		} else {
			delete(p, part)
		}
		return status.URLOK
	}
	v := *value

	switch part {
	case native.URLPartURL:
		return p.parse(v, flags)
	case native.URLPartScheme:
		s := strings.ToLower(v)
		if !validScheme(s) {
			return status.URLMalformedInput
		}
		if flags&native.URLNonSupportScheme == 0 && proto.ForScheme(s) == 0 {
			return status.URLUnsupportedScheme
		}
		p[part] = s
	case native.URLPartPort:
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 65535 {
			return status.URLBadPortNumber
		}
		p[part] = strconv.Itoa(n)
	case native.URLPartHost:
		if strings.ContainsAny(v, " /?#@\t\r\n") {
			return status.URLMalformedInput
		}
		p[part] = v
	case native.URLPartPath:
		if flags&native.URLEncode != 0 {
			v = escape(v, true)
		}
		if !strings.HasPrefix(v, "/") {
			v = "/" + v
		}
		p[part] = v
	case native.URLPartQuery:
		if flags&native.URLEncode != 0 {
			v = escapeQuery(v, flags&native.URLAppendQuery != 0)
		}
		if old, ok := p[part]; ok && old != "" && flags&native.URLAppendQuery != 0 {
			v = old + "&" + v
		}
		p[part] = v
	default:
		if flags&native.URLEncode != 0 {
			v = escape(v, false)
		}
		p[part] = v
	}
	return status.URLOK
}

// parse replaces the parts with those of raw, resolving raw against the
// current URL when raw is relative and the handle holds a full URL.
func (p urlParts) parse(raw string, flags native.URLFlags) status.URLCode {
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return status.URLMalformedInput
	}
	if !hasScheme(raw) {
		if base, ok := p.full(); ok {
			ref, err := url.Parse(raw)
			if err != nil {
				return status.URLMalformedInput
			}
			baseURL, err := url.Parse(base)
			if err != nil {
				return status.URLMalformedInput
			}
			return p.parse(baseURL.ResolveReference(ref).String(), flags)
		}
		switch {
		case flags&native.URLGuessScheme != 0:
			raw = guessScheme(raw) + "://" + raw
		case flags&native.URLDefaultScheme != 0:
			raw = "https://" + raw
		default:
			return status.URLMalformedInput
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		if strings.Contains(err.Error(), "port") {
			return status.URLBadPortNumber
		}
		return status.URLMalformedInput
	}
	scheme := strings.ToLower(u.Scheme)
	if flags&native.URLNonSupportScheme == 0 && proto.ForScheme(scheme) == 0 {
		return status.URLUnsupportedScheme
	}
	if u.Host == "" && scheme != "file" && flags&native.URLNoAuthority == 0 {
		return status.URLNoHost
	}
	if u.User != nil && flags&native.URLDisallowUser != 0 {
		return status.URLUserNotAllowed
	}

	next := urlParts{native.URLPartScheme: scheme}
	if u.User != nil {
		next[native.URLPartUser] = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			next[native.URLPartPassword] = pw
		}
	}
	host := u.Hostname()
	if strings.Contains(host, ":") {
		if h, zone, ok := strings.Cut(host, "%"); ok {
			host = h
			next[native.URLPartZoneID] = zone
		}
		host = "[" + host + "]"
	}
	if host != "" {
		next[native.URLPartHost] = strings.ToLower(host)
	}
	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n > 65535 {
			return status.URLBadPortNumber
		}
		next[native.URLPartPort] = strconv.Itoa(n)
	}
	path := u.EscapedPath()
	if flags&native.URLPathAsIs == 0 {
		path = removeDotSegments(path)
	}
	if path == "" {
		path = "/"
	}
	next[native.URLPartPath] = path
	if u.RawQuery != "" || u.ForceQuery {
		next[native.URLPartQuery] = u.RawQuery
	}
	if u.Fragment != "" || strings.HasSuffix(raw, "#") {
		next[native.URLPartFragment] = u.EscapedFragment()
	}

	clear(p)
	maps.Copy(p, next)
	return status.URLOK
}

// full renders the handle as a URL when it has enough parts to be one.
func (p urlParts) full() (string, bool) {
	s, code := p.get(native.URLPartURL, 0)
	return s, code == status.URLOK
}

// URLGet returns one part of u.
func (e *Engine) URLGet(u native.URL, part native.URLPart, flags native.URLFlags) (string, status.URLCode) {
	p, ok := e.urlParts(u)
	if !ok {
		return "", status.URLBadHandle
	}
	return p.get(part, flags)
}

var missing = map[native.URLPart]status.URLCode{
	native.URLPartScheme:   status.URLNoScheme,
	native.URLPartUser:     status.URLNoUser,
	native.URLPartPassword: status.URLNoPassword,
	native.URLPartOptions:  status.URLNoOptions,
	native.URLPartHost:     status.URLNoHost,
	native.URLPartPort:     status.URLNoPort,
	native.URLPartQuery:    status.URLNoQuery,
	native.URLPartFragment: status.URLNoFragment,
}

func (p urlParts) get(part native.URLPart, flags native.URLFlags) (string, status.URLCode) {
	switch part {
	case native.URLPartURL:
		return p.render(flags)
	case native.URLPartPort:
		return p.port(flags)
	case native.URLPartPath:
		v, ok := p[part]
		if !ok {
			v = "/"
		}
		return p.decode(v, flags, false)
	case native.URLPartZoneID:
		return p[part], status.URLOK
	}
	code, known := missing[part]
	if !known {
		return "", status.URLUnknownPart
	}
	v, ok := p[part]
	if !ok {
		return "", code
	}
	return p.decode(v, flags, part == native.URLPartQuery)
}

func (p urlParts) decode(v string, flags native.URLFlags, query bool) (string, status.URLCode) {
	if flags&native.URLDecode == 0 {
		return v, status.URLOK
	}
	var (
		out string
		err error
	)
	if query {
		out, err = url.QueryUnescape(v)
	} else {
		out, err = url.PathUnescape(v)
	}
	if err != nil {
		return "", status.URLURLDecode
	}
	return out, status.URLOK
}

func (p urlParts) port(flags native.URLFlags) (string, status.URLCode) {
	def, hasDef := defaultPorts[p[native.URLPartScheme]]
	v, ok := p[native.URLPartPort]
	switch {
	case ok && flags&native.URLNoDefaultPort != 0 && hasDef && v == strconv.Itoa(def):
		return "", status.URLNoPort
	case ok:
		return v, status.URLOK
	case flags&native.URLDefaultPort != 0 && hasDef:
		return strconv.Itoa(def), status.URLOK
	}
	return "", status.URLNoPort
}

func (p urlParts) render(flags native.URLFlags) (string, status.URLCode) {
	scheme, ok := p[native.URLPartScheme]
	if !ok {
		return "", status.URLNoScheme
	}
	host, hasHost := p[native.URLPartHost]
	if !hasHost && scheme != "file" {
		return "", status.URLNoHost
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	if user, ok := p[native.URLPartUser]; ok {
		b.WriteString(user)
		if opts, ok := p[native.URLPartOptions]; ok {
			b.WriteString(";" + opts)
		}
		if pw, ok := p[native.URLPartPassword]; ok {
			b.WriteString(":" + pw)
		}
		b.WriteString("@")
	}
	if zone, ok := p[native.URLPartZoneID]; ok && strings.HasPrefix(host, "[") {
		host = strings.TrimSuffix(host, "]") + "%25" + zone + "]"
	}
	b.WriteString(host)
	if port, code := p.port(flags); code == status.URLOK {
		b.WriteString(":" + port)
	}
	path, ok := p[native.URLPartPath]
	if !ok {
		path = "/"
	}
	b.WriteString(path)
	if q, ok := p[native.URLPartQuery]; ok {
		b.WriteString("?" + q)
	}
	if f, ok := p[native.URLPartFragment]; ok {
		b.WriteString("#" + f)
	}
	return b.String(), status.URLOK
}

func hasScheme(raw string) bool {
	i := strings.Index(raw, "://")
	return i > 0 && validScheme(raw[:i])
}

func validScheme(s string) bool {
	if s == "" || !isAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isAlpha(c) && !(c >= '0' && c <= '9') && c != '+' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// guessScheme picks a scheme from the host name prefix.
func guessScheme(raw string) string {
	host := strings.ToLower(raw)
	for _, prefix := range []string{"ftp", "dict", "ldap", "imap", "smtp", "pop3"} {
		if strings.HasPrefix(host, prefix+".") {
			return prefix
		}
	}
	return "http"
}

// escape percent-encodes v, keeping slashes when inPath is set.
func escape(v string, inPath bool) string {
	if !inPath {
		return url.PathEscape(v)
	}
	segs := strings.Split(v, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// escapeQuery encodes a query, spaces as '+'. For an appended pair the
// first '=' is kept.
func escapeQuery(v string, pair bool) string {
	if pair {
		if k, val, ok := strings.Cut(v, "="); ok {
			return url.QueryEscape(k) + "=" + url.QueryEscape(val)
		}
	}
	return url.QueryEscape(v)
}

// removeDotSegments normalizes "." and ".." path segments.
func removeDotSegments(path string) string {
	if !strings.Contains(path, ".") {
		return path
	}
	var out []string
	segs := strings.Split(path, "/")
	for i, s := range segs {
		switch s {
		case ".":
			if i == len(segs)-1 {
				out = append(out, "")
			}
		case "..":
			if len(out) > 1 {
				out = out[:len(out)-1]
			}
			if i == len(segs)-1 {
				out = append(out, "")
			}
		default:
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}
