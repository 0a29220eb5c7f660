package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const fetchTimeout = 30 * time.Second

// Resolve turns a local path or an http(s) URL into raw content plus the
// filename used for lexer selection. Remote fetches go through the injected
// cache keyed by a hash of the URL.
func Resolve(ctx context.Context, pathOrURL string, cache Cache) (content, filename string, err error) {
	if isURL(pathOrURL) {
		return fetchURL(ctx, pathOrURL, cache)
	}
	data, err := os.ReadFile(pathOrURL)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", fmt.Errorf("cannot find %q", pathOrURL)
		}
		return "", "", fmt.Errorf("failed to read %q: %w", pathOrURL, err)
	}
	return string(data), filepath.Base(pathOrURL), nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func fetchURL(ctx context.Context, rawURL string, cache Cache) (string, string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	filename := path.Base(parsed.Path)

	key := cacheKey(rawURL)
	if cache != nil {
		content, ok, err := cache.Get(key)
		if err != nil {
			return "", "", fmt.Errorf("failed to read content cache: %w", err)
		}
		if ok {
			return content, filename, nil
		}
	}

	resp, err := httpRequest(ctx, rawURL)
	if err != nil {
		return "", "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("unexpected status fetching %q: %s", rawURL, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to download %q: %w", rawURL, err)
	}

	content := string(data)
	if cache != nil {
		if err := cache.Put(key, content); err != nil {
			return "", "", fmt.Errorf("failed to cache content: %w", err)
		}
	}
	return content, filename, nil
}

func cacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:16])
}

func httpRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
