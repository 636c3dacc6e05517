package credentials

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Jar is a persistent http.CookieJar holding the backend's session-refresh
// cookie across CLI invocations. It is the CLI's stand-in for the browser's
// HTTP-only cookie storage: one file, one backend host, whole-value writes.
type Jar struct {
	path string

	mu      sync.Mutex
	cookies map[string]map[string]*storedCookie
}

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// OpenJar loads the cookie jar from the given directory, creating an empty
// jar when no file exists.
func OpenJar(dir string) (*Jar, error) {
	jar := &Jar{
		path:    filepath.Join(dir, "cookies.json"),
		cookies: make(map[string]map[string]*storedCookie),
	}

	data, err := os.ReadFile(jar.path)
	if os.IsNotExist(err) {
		return jar, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cookie file: %w", err)
	}
	if err := json.Unmarshal(data, &jar.cookies); err != nil {
		return nil, fmt.Errorf("unmarshal cookies: %w", err)
	}
	return jar, nil
}

// SetCookies stores cookies for the URL's host and persists the jar.
// Cookies with MaxAge < 0 or an empty value are deleted.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	host := u.Hostname()
	byName := j.cookies[host]
	if byName == nil {
		byName = make(map[string]*storedCookie)
		j.cookies[host] = byName
	}

	for _, cookie := range cookies {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(byName, cookie.Name)
			continue
		}
		stored := &storedCookie{Name: cookie.Name, Value: cookie.Value, Expires: cookie.Expires}
		if cookie.MaxAge > 0 {
			stored.Expires = time.Now().Add(time.Duration(cookie.MaxAge) * time.Second)
		}
		byName[cookie.Name] = stored
	}

	j.save()
}

// Cookies returns the unexpired cookies stored for the URL's host.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	byName := j.cookies[u.Hostname()]
	if len(byName) == 0 {
		return nil
	}

	now := time.Now()
	result := make([]*http.Cookie, 0, len(byName))
	for _, stored := range byName {
		if !stored.Expires.IsZero() && stored.Expires.Before(now) {
			continue
		}
		result = append(result, &http.Cookie{Name: stored.Name, Value: stored.Value})
	}
	return result
}

// Clear removes all stored cookies and persists the empty jar.
func (j *Jar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.cookies = make(map[string]map[string]*storedCookie)
	j.save()
}

// save writes the jar under the held lock. Persistence failures leave the
// in-memory jar usable for the rest of the process.
func (j *Jar) save() {
	if err := os.MkdirAll(filepath.Dir(j.path), 0700); err != nil {
		return
	}
	data, err := json.MarshalIndent(j.cookies, "", "  ")
	if err != nil {
		return
	}
	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return
	}
	if err := os.Rename(tmp, j.path); err != nil {
		os.Remove(tmp)
	}
}
