package storyboard

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/reelworks/trailcut/internal/caption"
	"github.com/reelworks/trailcut/internal/timeline"
)

const (
	tileW   = 320
	tileH   = 180
	margin  = 8
	columns = 4
	labelH  = 16
)

// FrameGrabber extracts one still frame from the source at a point in
// source time. *render.FFmpegEncoder satisfies it.
type FrameGrabber interface {
	GrabFrame(ctx context.Context, source string, atSeconds float64, outPath string) error
}

// Builder renders a storyboard contact sheet: one tile per timeline clip,
// grabbed at the clip's source midpoint, plus a QR share tile when a share
// URL is configured.
type Builder struct {
	grabber FrameGrabber
}

func NewBuilder(grabber FrameGrabber) *Builder {
	return &Builder{grabber: grabber}
}

// Build writes the contact sheet PNG to outPath. Frames that cannot be
// grabbed degrade to blank tiles; the sheet itself is always produced.
func (b *Builder) Build(ctx context.Context, source string, tl timeline.Timeline, tmpDir, outPath, shareURL string) error {
	tiles := len(tl.Clips)
	if shareURL != "" {
		tiles++
	}
	if tiles == 0 {
		return fmt.Errorf("empty timeline: nothing to board")
	}

	rows := (tiles + columns - 1) / columns
	sheet := image.NewRGBA(image.Rect(0, 0,
		columns*tileW+(columns+1)*margin,
		rows*(tileH+labelH)+(rows+1)*margin))
	fill(sheet, color.RGBA{24, 24, 28, 255})

	for i, clip := range tl.Clips {
		rect := tileRect(i)
		mid := (clip.SourceStart + clip.SourceEnd) / 2

		framePath := filepath.Join(tmpDir, fmt.Sprintf("frame_%02d.png", i))
		if err := b.grabber.GrabFrame(ctx, source, mid, framePath); err == nil {
			if frame, err := loadPNG(framePath); err == nil {
				draw.ApproxBiLinear.Scale(sheet, rect, frame, frame.Bounds(), draw.Src, nil)
			}
		}

		label := fmt.Sprintf("%02d  %s  %s/%s", i+1,
			caption.FormatTime(clip.In), clip.Transition, clip.AudioCue)
		drawLabel(sheet, rect.Min.X, rect.Max.Y+labelH-4, label)
	}

	if shareURL != "" {
		if err := drawShareTile(sheet, tileRect(len(tl.Clips)), shareURL); err != nil {
			return err
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, sheet)
}

func tileRect(i int) image.Rectangle {
	col := i % columns
	row := i / columns
	x := margin + col*(tileW+margin)
	y := margin + row*(tileH+labelH+margin)
	return image.Rect(x, y, x+tileW, y+tileH)
}

func drawShareTile(sheet *image.RGBA, rect image.Rectangle, shareURL string) error {
	qr, err := qrcode.New(shareURL, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("share QR: %w", err)
	}
	qrImg := qr.Image(tileH)

	// Center the square code inside the 16:9 tile.
	offset := image.Pt(rect.Min.X+(tileW-tileH)/2, rect.Min.Y)
	draw.Draw(sheet, qrImg.Bounds().Add(offset), qrImg, qrImg.Bounds().Min, draw.Src)
	drawLabel(sheet, rect.Min.X, rect.Max.Y+labelH-4, "scan to watch")
	return nil
}

func drawLabel(dst *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{220, 220, 220, 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func fill(img *image.RGBA, c color.RGBA) {
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}
