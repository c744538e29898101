package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"

	"gachabot/domain/entities"
)

// CardStyle defines the visual style of a pull result card
type CardStyle struct {
	TileWidth   int
	TileHeight  int
	Padding     int
	Columns     int
	HeaderH     int
	FooterH     int
	RarityColor map[entities.Rarity][3]float64
}

// CardGenerator renders pull results as PNG cards
type CardGenerator struct {
	style    CardStyle
	assetDir string
}

// NewCardGenerator creates a card generator with the default style. assetDir
// may be empty; tiles without a portrait fall back to a flat panel.
func NewCardGenerator(assetDir string) *CardGenerator {
	return &CardGenerator{
		assetDir: assetDir,
		style: CardStyle{
			TileWidth:  96,
			TileHeight: 128,
			Padding:    12,
			Columns:    5,
			HeaderH:    42,
			FooterH:    30,
			RarityColor: map[entities.Rarity][3]float64{
				entities.RarityFiveStar:  {1.0, 0.72, 0.2},  // Gold
				entities.RarityFourStar:  {0.72, 0.5, 0.95}, // Purple
				entities.RarityThreeStar: {0.4, 0.6, 0.9},   // Blue
			},
		},
	}
}

// GenerateBatchCard renders a multi-pull result as a tile grid: five tiles
// per row, rarity-colored frames, item name under each tile.
func (g *CardGenerator) GenerateBatchCard(poolName string, items []*entities.Item, state *entities.PityState) ([]byte, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no items to render")
	}

	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("item_count", len(items)).
			Debug("Pull card generation completed")
	}()

	cols := g.style.Columns
	if len(items) < cols {
		cols = len(items)
	}
	rows := (len(items) + g.style.Columns - 1) / g.style.Columns

	width := g.style.Padding + cols*(g.style.TileWidth+g.style.Padding)
	height := g.style.HeaderH + rows*(g.style.TileHeight+g.style.Padding) + g.style.FooterH

	dc := gg.NewContext(width, height)
	g.drawBackground(dc, width, height)

	titleFace, err := loadFont(gobold.TTF, 16)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	dc.SetFontFace(titleFace)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(poolName, float64(width)/2, float64(g.style.HeaderH)/2, 0.5, 0.5)

	nameFace, err := loadFont(gomono.TTF, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	for i, item := range items {
		col := i % g.style.Columns
		row := i / g.style.Columns
		x := float64(g.style.Padding + col*(g.style.TileWidth+g.style.Padding))
		y := float64(g.style.HeaderH + row*(g.style.TileHeight+g.style.Padding))
		g.drawTile(dc, item, x, y, nameFace)
	}

	if state != nil {
		dc.SetFontFace(nameFace)
		dc.SetRGB(0.7, 0.7, 0.7)
		footer := fmt.Sprintf("5* pity %d   4* pity %d   total pulls %d",
			state.Pity5Star, state.Pity4Star, state.PullCount)
		dc.DrawStringAnchored(footer, float64(width)/2, float64(height-g.style.FooterH/2), 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateSingleCard renders one draw as a single-tile card.
func (g *CardGenerator) GenerateSingleCard(poolName string, item *entities.Item, state *entities.PityState) ([]byte, error) {
	return g.GenerateBatchCard(poolName, []*entities.Item{item}, state)
}

func (g *CardGenerator) drawBackground(dc *gg.Context, width, height int) {
	// Vertical gradient, dark blue to near-black
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height)
		dc.SetRGB(0.03+t*0.02, 0.03+t*0.03, 0.08+t*0.06)
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}

func (g *CardGenerator) drawTile(dc *gg.Context, item *entities.Item, x, y float64, nameFace font.Face) {
	w := float64(g.style.TileWidth)
	h := float64(g.style.TileHeight)
	color := g.style.RarityColor[item.Rarity]

	// Tile panel
	dc.SetRGBA(0.12, 0.12, 0.18, 1)
	dc.DrawRoundedRectangle(x, y, w, h, 6)
	dc.Fill()

	// Portrait, when the asset exists
	portraitDrawn := false
	if g.assetDir != "" && item.PortraitPath != "" {
		img, err := gg.LoadImage(filepath.Join(g.assetDir, item.PortraitPath))
		if err == nil {
			dc.Push()
			dc.DrawRoundedRectangle(x, y, w, h-28, 6)
			dc.Clip()
			bounds := img.Bounds()
			scale := w / float64(bounds.Dx())
			dc.Scale(scale, scale)
			dc.DrawImage(img, int(x/scale), int(y/scale))
			dc.Pop()
			portraitDrawn = true
		} else {
			log.WithError(err).WithField("item", item.ID).Debug("Portrait not loadable; using flat tile")
		}
	}

	if !portraitDrawn {
		// Rarity-tinted panel in place of the portrait
		dc.SetRGBA(color[0]*0.35, color[1]*0.35, color[2]*0.35, 1)
		dc.DrawRoundedRectangle(x+4, y+4, w-8, h-36, 4)
		dc.Fill()
	}

	// Rarity frame
	dc.SetRGB(color[0], color[1], color[2])
	dc.SetLineWidth(2)
	dc.DrawRoundedRectangle(x, y, w, h, 6)
	dc.Stroke()

	// Star row
	for s := 0; s < int(item.Rarity); s++ {
		dc.DrawCircle(x+10+float64(s)*10, y+h-20, 3)
	}
	dc.Fill()

	// Item name, truncated to the tile
	name := item.Name
	if len(name) > 12 {
		name = name[:11] + "…"
	}
	dc.SetFontFace(nameFace)
	dc.SetRGB(0.95, 0.95, 0.95)
	dc.DrawStringAnchored(name, x+w/2, y+h-8, 0.5, 0.5)
}

// loadFont loads a font from byte data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingFull,
		SubPixelsX: 4,
		SubPixelsY: 4,
	})
	return face, nil
}
