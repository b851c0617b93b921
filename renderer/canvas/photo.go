package canvasrenderer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/url"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/vitae/layout"
)

// 头像栅格化精度，约 300dpi。
const photoDPMM = 12.0

// decodeDataURI 解码 data:image/...;base64,... 形式的头像。
func decodeDataURI(uri string) (image.Image, error) {
	meta, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(meta, "data:") {
		return nil, fmt.Errorf("头像不是 data URI")
	}
	var data []byte
	var err error
	if strings.HasSuffix(meta, ";base64") {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
	} else {
		var s string
		s, err = url.PathUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return nil, fmt.Errorf("解码头像数据失败: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("解码头像图片失败: %w", err)
	}
	return img, nil
}

// preparePhoto 按框尺寸居中裁剪并缩放头像，依次应用亮度、对比度、灰度，最后按圆角裁掉四角。
func preparePhoto(src image.Image, box layout.ImageBox) *image.NRGBA {
	w := max(int(math.Round(box.Width*photoDPMM)), 1)
	h := max(int(math.Round(box.Height*photoDPMM)), 1)

	zoom := 1.0
	if box.Filter != nil && box.Filter.Zoom > 1 {
		zoom = box.Filter.Zoom
	}
	b := src.Bounds()
	sw, sh := float64(b.Dx()), float64(b.Dy())
	if ratio := float64(w) / float64(h); sw/sh > ratio {
		sw = sh * ratio
	} else {
		sh = sw / ratio
	}
	sw, sh = sw/zoom, sh/zoom
	x0 := b.Min.X + int((float64(b.Dx())-sw)/2)
	y0 := b.Min.Y + int((float64(b.Dy())-sh)/2)
	crop := image.Rect(x0, y0, x0+max(int(sw), 1), y0+max(int(sh), 1))

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	applyFilter(dst, box.Filter)
	roundCorners(dst, box.Radius*photoDPMM)
	return dst
}

func applyFilter(img *image.NRGBA, f *layout.ImageFilter) {
	if f == nil {
		return
	}
	brightness, contrast, gray := f.Brightness, f.Contrast, math.Min(math.Max(f.Grayscale, 0), 1)
	if brightness <= 0 {
		brightness = 1
	}
	if contrast <= 0 {
		contrast = 1
	}
	if brightness == 1 && contrast == 1 && gray == 0 {
		return
	}
	for i := 0; i+3 < len(img.Pix); i += 4 {
		var c [3]float64
		for k := 0; k < 3; k++ {
			v := float64(img.Pix[i+k]) / 255 * brightness
			c[k] = (v-0.5)*contrast + 0.5
		}
		if gray > 0 {
			lum := 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
			for k := range c {
				c[k] = c[k]*(1-gray) + lum*gray
			}
		}
		for k := 0; k < 3; k++ {
			img.Pix[i+k] = uint8(math.Round(math.Min(math.Max(c[k], 0), 1) * 255))
		}
	}
}

// roundCorners 把圆角以外的像素设为透明，边缘做一像素抗锯齿。
func roundCorners(img *image.NRGBA, radius float64) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	radius = math.Min(radius, math.Min(w, h)/2)
	if radius <= 0 {
		return
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px, py := float64(x-b.Min.X)+0.5, float64(y-b.Min.Y)+0.5
			cx := math.Min(math.Max(px, radius), w-radius)
			cy := math.Min(math.Max(py, radius), h-radius)
			d := math.Hypot(px-cx, py-cy)
			cover := math.Min(math.Max(radius-d+0.5, 0), 1)
			if cover < 1 {
				off := img.PixOffset(x, y) + 3
				img.Pix[off] = uint8(float64(img.Pix[off]) * cover)
			}
		}
	}
}
