// Package webdav lists and downloads export bundles from a WebDAV share
// (Nextcloud and friends) into a local staging directory.
package webdav

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/studio-b12/gowebdav"
	"github.com/zeebo/xxh3"
)

// DefaultTimeout bounds every remote request so one unreachable server cannot
// hang a batch indefinitely.
const DefaultTimeout = 60 * time.Second

// Config - connection settings for one WebDAV share.
type Config struct {
	// URL - base URL of the share, e.g. the Nextcloud remote.php/dav path
	URL string `yaml:"url"`

	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// RemotePath - folder under the share to read from; "/" when empty
	RemotePath string `yaml:"remote_path"`

	// Timeout - per-request timeout; DefaultTimeout when zero
	Timeout time.Duration `yaml:"timeout"`

	// InsecureTLS - skip certificate verification (self-hosted instances)
	InsecureTLS bool `yaml:"insecure_tls"`

	// Retry - backoff policy for transient download failures
	Retry RetryPolicy `yaml:"retry"`
}

// FileEntry - one remote file as reported by the share.
type FileEntry struct {
	Name string
	Path string
	Size int64
}

// Client wraps a WebDAV session rooted at one remote folder.
type Client struct {
	dav        *gowebdav.Client
	remotePath string
	retry      RetryPolicy
}

// NewClient builds a client from the configuration. No request is issued
// until the first list or download.
func NewClient(cfg Config) *Client {
	dav := gowebdav.NewClient(cfg.URL, cfg.Username, cfg.Password)

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	dav.SetTimeout(timeout)

	if cfg.InsecureTLS {
		dav.SetTransport(&http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		})
	}

	remotePath := cfg.RemotePath
	if remotePath == "" {
		remotePath = "/"
	}

	retry := cfg.Retry
	if retry == (RetryPolicy{}) {
		retry = DefaultRetryPolicy()
	}

	return &Client{dav: dav, remotePath: remotePath, retry: retry}
}

// ListFiles returns the files (never directories) in the remote folder whose
// name ends with ext, case-insensitively.
func (c *Client) ListFiles(ext string) ([]FileEntry, error) {
	infos, err := c.dav.ReadDir(c.remotePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", c.remotePath, err)
	}

	var entries []FileEntry
	for _, info := range infos {
		if info.IsDir() || !matchesExt(info.Name(), ext) {
			continue
		}
		entries = append(entries, FileEntry{
			Name: info.Name(),
			Path: path.Join(c.remotePath, info.Name()),
			Size: info.Size(),
		})
	}
	return entries, nil
}

func matchesExt(name, ext string) bool {
	if ext == "" {
		return true
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.EqualFold(filepath.Ext(name), ext)
}

// Download streams one remote file into localDir, returning the local path
// and an XXH3 checksum of the downloaded bytes for the audit trail. Transient
// failures are retried per the client's retry policy.
func (c *Client) Download(ctx context.Context, remoteName, localDir string) (string, uint64, error) {
	localPath := filepath.Join(localDir, filepath.Base(remoteName))

	var checksum uint64
	err := c.retry.do(ctx, func() error {
		sum, err := c.downloadOnce(remoteName, localPath)
		checksum = sum
		return err
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to download %q: %w", remoteName, err)
	}

	return localPath, checksum, nil
}

func (c *Client) downloadOnce(remoteName, localPath string) (uint64, error) {
	stream, err := c.dav.ReadStream(path.Join(c.remotePath, remoteName))
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	out, err := os.Create(localPath)
	if err != nil {
		return 0, err
	}

	hasher := xxh3.New()
	_, err = io.Copy(io.MultiWriter(out, hasher), stream)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(localPath)
		return 0, err
	}

	return hasher.Sum64(), nil
}

// NewStagingDir creates an ephemeral working directory for downloads and
// extractions.
func NewStagingDir() (string, error) {
	dir, err := os.MkdirTemp("", "gdpdu-stage-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	return dir, nil
}

// CleanupStagingDir removes a staging directory. Best-effort; a leftover
// temp directory is not worth failing a finished import over.
func CleanupStagingDir(dir string) {
	if dir != "" {
		_ = os.RemoveAll(dir)
	}
}
