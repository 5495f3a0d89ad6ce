// Package session reads the browser session shared with the web application:
// a Netscape-format cookie file carrying the anti-forgery token and the
// session cookie. BookDesk never writes cookies; it only consumes them.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	// TokenCookie is the cookie name carrying the anti-forgery token.
	TokenCookie = "csrftoken"
	// SessionCookie is the cookie name carrying the login session id.
	SessionCookie = "sessionid"
)

var (
	// ErrNoCookieFile means the configured cookie file does not exist.
	ErrNoCookieFile = errors.New("cookie file not found")
	// ErrCookieMissing means the file exists but the named cookie does not.
	ErrCookieMissing = errors.New("cookie not found")
)

// Jar reads cookies from a Netscape-format file on demand. The file is
// re-parsed only when its mtime changes, so a re-login in the browser is
// picked up on the next read.
type Jar struct {
	path string

	mu      sync.Mutex
	mtime   time.Time
	cookies map[string]string
}

// Open returns a Jar backed by the given cookie file. The file does not have
// to exist yet; reads report ErrNoCookieFile until it does.
func Open(path string) *Jar {
	return &Jar{path: path}
}

// Token returns the current anti-forgery token value.
func (j *Jar) Token() (string, error) {
	return j.Cookie(TokenCookie)
}

// SessionID returns the current session cookie value.
func (j *Jar) SessionID() (string, error) {
	return j.Cookie(SessionCookie)
}

// Cookie returns the value of the named cookie.
func (j *Jar) Cookie(name string) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.refreshLocked(); err != nil {
		return "", err
	}
	v, ok := j.cookies[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrCookieMissing, name)
	}
	return v, nil
}

func (j *Jar) refreshLocked() error {
	info, err := os.Stat(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNoCookieFile, j.path)
		}
		return err
	}
	if j.cookies != nil && info.ModTime().Equal(j.mtime) {
		return nil
	}

	f, err := os.Open(j.path)
	if err != nil {
		return err
	}
	defer f.Close()

	cookies := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name, value, ok := parseLine(scanner.Text())
		if ok {
			cookies[name] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	j.cookies = cookies
	j.mtime = info.ModTime()
	return nil
}

// parseLine parses one Netscape cookie line:
// domain <TAB> includeSubdomains <TAB> path <TAB> secure <TAB> expiry <TAB> name <TAB> value
// The #HttpOnly_ prefix curl and browsers emit is honored; other comment
// lines and blanks are skipped.
func parseLine(line string) (name, value string, ok bool) {
	line = strings.TrimPrefix(line, "#HttpOnly_")
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	fields := strings.Split(line, "\t")
	if len(fields) != 7 {
		return "", "", false
	}
	return fields[5], fields[6], true
}
