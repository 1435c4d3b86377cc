package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/nfnt/resize"
)

// avatarEmojiSize is the emoji canvas, matching Discord's emoji rendering
const avatarEmojiSize = 128

var avatarClient = &http.Client{Timeout: 30 * time.Second}

// fetchAvatar downloads the raw avatar bytes from the CDN
func fetchAvatar(url string) ([]byte, error) {
	resp, err := avatarClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("failed to download avatar, status: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// renderAvatarEmoji turns avatar bytes into a 128x128 PNG with a full-circle
// alpha mask: scale so the shorter side fills the canvas, crop the center
// square, then punch out the circle.
func renderAvatarEmoji(src []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode avatar image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() <= b.Dy() {
		img = resize.Resize(avatarEmojiSize, 0, img, resize.Lanczos3)
	} else {
		img = resize.Resize(0, avatarEmojiSize, img, resize.Lanczos3)
	}

	b = img.Bounds()
	offset := image.Pt((b.Dx()-avatarEmojiSize)/2, (b.Dy()-avatarEmojiSize)/2)

	out := image.NewRGBA(image.Rect(0, 0, avatarEmojiSize, avatarEmojiSize))
	draw.DrawMask(out, out.Bounds(), img, b.Min.Add(offset), circleMask{avatarEmojiSize}, image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode avatar emoji: %w", err)
	}
	return buf.Bytes(), nil
}

// circleMask is a full-circle alpha mask covering a square canvas
type circleMask struct {
	d int
}

func (c circleMask) ColorModel() color.Model { return color.AlphaModel }

func (c circleMask) Bounds() image.Rectangle { return image.Rect(0, 0, c.d, c.d) }

func (c circleMask) At(x, y int) color.Color {
	r := float64(c.d) / 2
	dx := float64(x) + 0.5 - r
	dy := float64(y) + 0.5 - r
	if dx*dx+dy*dy <= r*r {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}
