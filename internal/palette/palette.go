// internal/palette/palette.go
//
// Provides the color palette and default rules for the game engine.
//
// Responsibilities:
//   - Load the palette from PALETTE_FILE or fall back to the embedded default.
//   - Map color names to game.Color indices and back.
//   - Supply the default game.Rules and the pacing delay for watched games.
//
// File format (YAML):
//
//	colors:
//	  - name: red
//	    hex: "#FF0000"
//	rules:
//	  codeLength: 4
//	  rowLimit: 10
//	  guessDelayMs: 1500
//
// Constraints:
//   • Between game.MinPaletteSize and game.MaxPaletteSize colors, unique names.
//   • Names are matched case-insensitively; unknown names are errors.
//   • Initialization is run once (sync.Once).

package palette

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/mastermind/assets"
	"github.com/robalobadob/mastermind/internal/game"
)

// Color is one palette entry.
type Color struct {
	Name string `yaml:"name" json:"name"`
	Hex  string `yaml:"hex" json:"hex"`
}

// Palette is a parsed palette document.
type Palette struct {
	Colors []Color `yaml:"colors"`
	Rules  struct {
		CodeLength   int `yaml:"codeLength"`
		RowLimit     int `yaml:"rowLimit"`
		GuessDelayMs int `yaml:"guessDelayMs"`
	} `yaml:"rules"`

	index map[string]game.Color
}

var (
	initOnce   sync.Once
	current    *Palette
	initialErr error
)

// Init loads the palette exactly once, from PALETTE_FILE when set.
func Init() error {
	initOnce.Do(func() {
		data := assets.PaletteYAML()
		if path := os.Getenv("PALETTE_FILE"); path != "" {
			b, err := os.ReadFile(path)
			if err != nil {
				initialErr = fmt.Errorf("palette: %w", err)
				return
			}
			data = b
		}
		current, initialErr = Parse(data)
	})
	return initialErr
}

// Default returns the loaded palette, initialising it from the embedded
// document if Init has not run. It panics if that document is invalid.
func Default() *Palette {
	if err := Init(); err != nil {
		panic(err)
	}
	return current
}

// Parse decodes and validates a palette document.
func Parse(data []byte) (*Palette, error) {
	var p Palette
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	n := len(p.Colors)
	if n < game.MinPaletteSize || n > game.MaxPaletteSize {
		return nil, fmt.Errorf("palette: %d colors, want %d..%d", n, game.MinPaletteSize, game.MaxPaletteSize)
	}
	p.index = make(map[string]game.Color, n)
	for i, c := range p.Colors {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			return nil, fmt.Errorf("palette: color %d has no name", i)
		}
		if _, dup := p.index[name]; dup {
			return nil, fmt.Errorf("palette: duplicate color %q", name)
		}
		p.Colors[i].Name = name
		p.index[name] = game.Color(i)
	}
	if p.Rules.CodeLength == 0 {
		p.Rules.CodeLength = game.DefaultCodeLength
	}
	if p.Rules.RowLimit == 0 {
		p.Rules.RowLimit = game.DefaultRowLimit
	}
	if err := p.DefaultRules().Validate(); err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	return &p, nil
}

// Size returns the number of colors.
func (p *Palette) Size() int { return len(p.Colors) }

// DefaultRules uses every palette color with the configured length and rows.
func (p *Palette) DefaultRules() game.Rules {
	return game.Rules{PaletteSize: len(p.Colors), CodeLength: p.Rules.CodeLength, RowLimit: p.Rules.RowLimit}
}

// GuessDelay is the pause between guesses when streaming a solver game.
func (p *Palette) GuessDelay() time.Duration {
	return time.Duration(p.Rules.GuessDelayMs) * time.Millisecond
}

// ErrUnknownColor is returned by Code for names outside the palette in play.
var ErrUnknownColor = errors.New("unknown color")

// Code converts color names to a code. Only the first paletteSize colors are
// in play; names beyond them are rejected like unknown names.
func (p *Palette) Code(names []string, paletteSize int) (game.Code, error) {
	out := make(game.Code, len(names))
	for i, n := range names {
		c, ok := p.index[strings.ToLower(strings.TrimSpace(n))]
		if !ok || int(c) >= paletteSize {
			return nil, fmt.Errorf("%w %q at position %d", ErrUnknownColor, n, i)
		}
		out[i] = c
	}
	return out, nil
}

// Names converts a code to color names.
func (p *Palette) Names(c game.Code) []string {
	out := make([]string, len(c))
	for i, v := range c {
		if int(v) < len(p.Colors) {
			out[i] = p.Colors[v].Name
		} else {
			out[i] = fmt.Sprintf("color%d", v)
		}
	}
	return out
}
