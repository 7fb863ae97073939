package downloader

import (
	"bufio"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/net/publicsuffix"
)

// Field positions of a Netscape cookie file line.
const (
	cookieDomain = iota
	cookieHostOnly
	cookiePath
	cookieSecure
	cookieExpiration
	cookieName
	cookieValue
	cookiePieces
)

// LoadNetscapeCookies reads a cookies.txt file into a cookie jar so that
// age restricted or members-only videos can be resolved.
func LoadNetscapeCookies(fname string) (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{
		PublicSuffixList: publicsuffix.List,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create cookie jar")
	}

	file, err := os.Open(fname)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open cookies file", goerr.V("path", fname))
	}
	defer file.Close()

	cookies, err := parseNetscapeCookies(bufio.NewScanner(file))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read cookies file", goerr.V("path", fname))
	}

	for domain, list := range cookies {
		jar.SetCookies(&url.URL{Scheme: "https", Host: domain}, list)
	}
	return jar, nil
}

func parseNetscapeCookies(scanner *bufio.Scanner) (map[string][]*http.Cookie, error) {
	result := make(map[string][]*http.Cookie)

	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\t")
		if len(parts) != cookiePieces {
			continue
		}

		// JSON valued cookies are rejected by net/http anyway.
		if strings.Contains(parts[cookieValue], `"`) {
			continue
		}

		domain := strings.ToLower(parts[cookieDomain])
		httpOnly := false
		if strings.HasPrefix(domain, "#httponly_") {
			httpOnly = true
			domain = strings.TrimPrefix(domain, "#httponly_")
		}
		if strings.HasPrefix(domain, "#") {
			continue
		}

		expire, _ := strconv.ParseInt(parts[cookieExpiration], 10, 64)

		cookie := &http.Cookie{
			Domain:   domain,
			Path:     parts[cookiePath],
			Secure:   strings.EqualFold(parts[cookieSecure], "true"),
			HttpOnly: httpOnly,
			Name:     parts[cookieName],
			Value:    parts[cookieValue],
		}
		if expire > 0 {
			cookie.Expires = time.Unix(expire, 0)
		}

		host := strings.TrimPrefix(domain, ".")
		result[host] = append(result[host], cookie)
	}

	return result, scanner.Err()
}
