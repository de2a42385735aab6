package render

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// fontDirs are the directories searched for installed fonts, in order.
var fontDirs = []string{
	// macOS
	"/Library/Fonts",
	"/System/Library/Fonts",
	"/System/Library/Fonts/Supplemental",
	// Linux
	"/usr/share/fonts/truetype",
	"/usr/share/fonts/truetype/liberation",
	"/usr/share/fonts/TTF",
	// Windows
	"C:/Windows/Fonts",
}

// fileVariations lists the filename patterns tried for a family name.
func fileVariations(family string) []string {
	return []string{
		family + ".ttf",
		family + "Regular.ttf",
		family + " Regular.ttf",
		family + "-Regular.ttf",
		family + ".otf",
		family + " Bold.ttf",
	}
}

type faceKey struct {
	family string
	size   int
}

// FontCache resolves font family names to rasterization faces and caches
// them for the lifetime of one assembly run. A missing family falls back to
// the embedded Go Regular face instead of failing the frame.
type FontCache struct {
	mu     sync.Mutex
	faces  map[faceKey]font.Face
	warned map[string]bool
}

func NewFontCache() *FontCache {
	return &FontCache{
		faces:  make(map[faceKey]font.Face),
		warned: make(map[string]bool),
	}
}

// Face returns a face for (family, size in pixels). The same face is shared
// between all sequences using the same font spec.
func (c *FontCache) Face(family string, size int) font.Face {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := faceKey{family: family, size: size}
	if face, ok := c.faces[key]; ok {
		return face
	}

	face, err := c.open(family, size)
	if err != nil {
		if !c.warned[family] {
			log.Printf("[!] Font %q not found, using embedded fallback: %v", family, err)
			c.warned[family] = true
		}
		face = c.fallbackFace(size)
	}

	c.faces[key] = face
	return face
}

func (c *FontCache) open(family string, size int) (font.Face, error) {
	home, _ := os.UserHomeDir()
	dirs := fontDirs
	if home != "" {
		dirs = append([]string{filepath.Join(home, "Library/Fonts"), filepath.Join(home, ".fonts")}, dirs...)
	}

	for _, dir := range dirs {
		for _, name := range fileVariations(family) {
			path := filepath.Join(dir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			parsed, err := opentype.Parse(data)
			if err != nil {
				continue
			}
			return newFace(parsed, size)
		}
	}

	return nil, fmt.Errorf("no font file for family %q in known directories", family)
}

var (
	fallbackOnce sync.Once
	fallbackFont *opentype.Font
)

func (c *FontCache) fallbackFace(size int) font.Face {
	fallbackOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			// The embedded TTF is a build-time constant; this cannot happen
			// with a healthy toolchain.
			log.Fatalf("[-] Embedded fallback font is corrupt: %v", err)
		}
		fallbackFont = f
	})

	face, err := newFace(fallbackFont, size)
	if err != nil {
		log.Fatalf("[-] Cannot create fallback face: %v", err)
	}
	return face
}

// newFace builds a face sized in pixels (72 DPI makes points equal pixels).
func newFace(f *opentype.Font, size int) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
