// Package updater checks for, downloads, verifies and installs new releases.
//
// Releases publish a static JSON manifest listing one signed artifact per
// platform. Artifacts are verified with an ed25519 signature over their
// BLAKE2b-512 digest before anything on disk is touched.
package updater

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"time"

	"websql/internal/errors"
	"websql/internal/log"
	"websql/internal/util"
)

// Reporter receives download progress.
type Reporter interface {
	SetStatus(text string)
	SetProgress(fraction float32, info string)
	IsCancelled() bool
}

type nopReporter struct{}

func (nopReporter) SetStatus(string)            {}
func (nopReporter) SetProgress(float32, string) {}
func (nopReporter) IsCancelled() bool           { return false }

// Options configures an Updater.
type Options struct {
	Endpoint  string
	Current   string
	PublicKey string // base64 ed25519
	Platform  string // defaults to PlatformKey(runtime.GOOS, runtime.GOARCH)
	Client    *http.Client
	Logger    log.Logger
	// Executable returns the path of the binary to replace. Defaults to os.Executable.
	Executable func() (string, error)
	// MaxSize limits the artifact size. Defaults to util.MaxArtifactSize.
	MaxSize int64
}

// Updater talks to the release endpoint.
type Updater struct {
	endpoint   string
	current    string
	platform   string
	pub        ed25519.PublicKey
	client     *http.Client
	logger     log.Logger
	executable func() (string, error)
	maxSize    int64
}

// New creates an Updater. It fails only on a malformed public key.
func New(opts Options) (*Updater, error) {
	pub, err := ParsePublicKey(opts.PublicKey)
	if err != nil {
		return nil, err
	}
	u := &Updater{
		endpoint:   opts.Endpoint,
		current:    opts.Current,
		platform:   opts.Platform,
		pub:        pub,
		client:     opts.Client,
		logger:     opts.Logger,
		executable: opts.Executable,
		maxSize:    opts.MaxSize,
	}
	if u.platform == "" {
		u.platform = PlatformKey(runtime.GOOS, runtime.GOARCH)
	}
	if u.client == nil {
		u.client = &http.Client{Timeout: 5 * time.Minute}
	}
	if u.logger == nil {
		u.logger = log.Nop()
	}
	if u.executable == nil {
		u.executable = os.Executable
	}
	if u.maxSize <= 0 {
		u.maxSize = util.MaxArtifactSize
	}
	return u, nil
}

// Enabled reports whether an endpoint is configured.
func (u *Updater) Enabled() bool {
	return u.endpoint != ""
}

// Current returns the running version.
func (u *Updater) Current() string {
	return u.current
}

func (u *Updater) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "websql/"+u.current)
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %s", errors.ErrUpdateHTTP, url, resp.Status)
	}
	return resp, nil
}

// Check fetches the manifest. It returns nil, nil when no newer release exists.
func (u *Updater) Check(ctx context.Context) (*Update, error) {
	if !u.Enabled() {
		return nil, errors.ErrNoEndpoint
	}
	resp, err := u.get(ctx, u.endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, util.MiB))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	up, err := m.Resolve(u.current, u.platform)
	if err != nil {
		return nil, err
	}
	if up == nil {
		u.logger.Debug("no update available", log.String("current", u.current), log.String("remote", m.Version))
	}
	return up, nil
}

// Download streams the artifact for up and verifies its signature.
func (u *Updater) Download(ctx context.Context, up *Update, r Reporter) ([]byte, error) {
	if r == nil {
		r = nopReporter{}
	}
	if len(u.pub) == 0 {
		return nil, errors.ErrNoPublicKey
	}

	r.SetStatus("Downloading " + up.Version)
	resp, err := u.get(ctx, up.URL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	total := resp.ContentLength
	if total > u.maxSize {
		return nil, fmt.Errorf("%w: %s declares %d bytes, limit is %d", errors.ErrTooLarge, up.URL, total, u.maxSize)
	}
	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}
	body := io.LimitReader(resp.Body, u.maxSize+1)

	chunk := util.ChunkPool.Get()
	defer util.ChunkPool.Put(chunk)

	start := time.Now()
	var done int64
	for {
		if r.IsCancelled() {
			return nil, context.Canceled
		}
		n, rerr := body.Read(chunk)
		if n > 0 {
			done += int64(n)
			if done > u.maxSize {
				return nil, fmt.Errorf("%w: %s exceeds %d bytes", errors.ErrTooLarge, up.URL, u.maxSize)
			}
			buf.Write(chunk[:n])
			progress, _, _ := util.Statify(done, total, start)
			r.SetProgress(progress, util.TransferInfo(done, total, start))
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, fmt.Errorf("download %s: %w", up.URL, rerr)
		}
	}

	r.SetStatus("Verifying signature")
	if err := Verify(u.pub, buf.Bytes(), up.Signature); err != nil {
		return nil, err
	}
	u.logger.Info("update downloaded", log.String("version", up.Version), log.Int64("bytes", done))
	return buf.Bytes(), nil
}

// Watch checks once immediately and then every interval until ctx ends.
// Failures are logged and never stop the watcher.
func (u *Updater) Watch(ctx context.Context, interval time.Duration, notify func(*Update)) {
	check := func() {
		up, err := u.Check(ctx)
		if err != nil {
			if ctx.Err() == nil {
				u.logger.Warn("update check failed", log.Err(err))
			}
			return
		}
		if up != nil {
			u.logger.Info("update available", log.String("version", up.Version))
			notify(up)
		}
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
