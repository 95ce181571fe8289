package updater

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"websql/internal/errors"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/mod/semver"
)

// Artifact is one platform entry in the manifest.
type Artifact struct {
	URL       string `json:"url"`
	Signature string `json:"signature"`
}

// Manifest is the static update manifest (latest.json) published with each release.
type Manifest struct {
	Version   string              `json:"version"`
	Notes     string              `json:"notes"`
	PubDate   string              `json:"pub_date"`
	Platforms map[string]Artifact `json:"platforms"`
}

// Update describes an available newer release for this platform.
type Update struct {
	Version   string
	Current   string
	Notes     string
	PubDate   time.Time
	URL       string
	Signature string
}

// ParseManifest decodes and validates a manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrBadManifest, err)
	}
	if !semver.IsValid(canonical(m.Version)) {
		return nil, fmt.Errorf("%w: version %q", errors.ErrBadManifest, m.Version)
	}
	return &m, nil
}

// Resolve returns the update for platform if the manifest is newer than current.
// It returns nil, nil when current is already up to date.
func (m *Manifest) Resolve(current, platform string) (*Update, error) {
	if !Newer(m.Version, current) {
		return nil, nil
	}
	art, ok := m.Platforms[platform]
	if !ok || art.URL == "" {
		return nil, fmt.Errorf("%w: %s", errors.ErrNoPlatform, platform)
	}

	u := &Update{
		Version:   m.Version,
		Current:   current,
		Notes:     m.Notes,
		URL:       art.URL,
		Signature: art.Signature,
	}
	if t, err := time.Parse(time.RFC3339, m.PubDate); err == nil {
		u.PubDate = t
	}
	return u, nil
}

// canonical adds the "v" prefix semver expects.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	return "v" + strings.TrimPrefix(v, "v")
}

// Newer reports whether remote is a strictly greater semantic version than current.
// An unparseable current version is treated as older than any valid remote.
func Newer(remote, current string) bool {
	r, c := canonical(remote), canonical(current)
	if !semver.IsValid(r) {
		return false
	}
	if !semver.IsValid(c) {
		return true
	}
	return semver.Compare(r, c) > 0
}

// PlatformKey maps Go's GOOS/GOARCH to the manifest's platform naming.
func PlatformKey(goos, goarch string) string {
	arch := goarch
	switch goarch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	case "386":
		arch = "i686"
	case "arm":
		arch = "armv7"
	}
	return goos + "-" + arch
}

// Sign returns the base64 signature the release pipeline publishes for data.
func Sign(priv ed25519.PrivateKey, data []byte) string {
	digest := blake2b.Sum512(data)
	return base64.StdEncoding.EncodeToString(ed25519.Sign(priv, digest[:]))
}

// Verify checks a base64 ed25519 signature over the BLAKE2b-512 digest of data.
func Verify(pub ed25519.PublicKey, data []byte, signature string) error {
	if len(pub) != ed25519.PublicKeySize {
		return errors.ErrNoPublicKey
	}
	sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(sig) != ed25519.SignatureSize {
		return errors.ErrBadSignature
	}
	digest := blake2b.Sum512(data)
	if !ed25519.Verify(pub, digest[:], sig) {
		return errors.ErrBadSignature
	}
	return nil
}

// ParsePublicKey decodes a base64 ed25519 public key. An empty string yields nil.
func ParsePublicKey(s string) (ed25519.PublicKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode update public key: %w", err)
	}
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("update public key has %d bytes, want %d", len(b), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(b), nil
}
