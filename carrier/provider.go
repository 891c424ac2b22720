package carrier

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	"io"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the default carrier edge length in pixels. At 3 bits per
// pixel a 256x256 carrier holds roughly 24 KiB of payload, far above what a
// combined security envelope needs.
const DefaultSize = 256

// minSize is the smallest carrier the identicon renderer can lay out.
const minSize = gridCells

// Provider generates carrier images.
type Provider struct {
	size int
	log  *slog.Logger
}

// NewProvider creates a Provider with the default carrier size.
func NewProvider(log *slog.Logger) *Provider {
	if log == nil {
		log = slog.Default()
	}
	return &Provider{size: DefaultSize, log: log}
}

// WithSize returns a copy of the provider producing carriers with the given
// edge length.
func (p *Provider) WithSize(size int) *Provider {
	return &Provider{size: size, log: p.log}
}

// Provide returns a carrier image for the seed. The same seed always yields
// the same image. An empty seed produces a random carrier. Provide never
// fails: if the identicon renderer cannot run it falls back to a seeded
// gradient-plus-noise pattern.
func (p *Provider) Provide(seed string) *image.RGBA {
	if seed == "" {
		seed = randomSeed()
	}

	digest := crypto.Keccak256([]byte(seed))

	img, err := renderIdenticon(digest, p.size)
	if err != nil {
		p.log.Warn("identicon generation failed, using gradient carrier",
			slog.String("err", err.Error()))
		return renderGradient(digest, p.size)
	}
	return img
}

// ProvideQR returns a carrier that renders the seed as a QR code. Unlike
// Provide it can fail, since QR encoding has content-length limits.
func (p *Provider) ProvideQR(seed string) (*image.RGBA, error) {
	if seed == "" {
		seed = randomSeed()
	}

	qr, err := qrcode.New(seed, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to build QR carrier: %w", err)
	}

	size := p.size
	if size < minSize {
		size = DefaultSize
	}
	src := qr.Image(size)
	dst := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst, nil
}

func randomSeed() string {
	raw := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		// A weak seed only affects carrier appearance, never secrecy.
		binary.BigEndian.PutUint64(raw, uint64(time.Now().UnixNano()))
	}
	return hex.EncodeToString(raw)
}
