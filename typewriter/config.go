package typewriter

import (
	"encoding/json"
	"image/color"
	"log"
)

// AppContentReader defines the interface for reading content from the embedded file system.
type AppContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// State defines the possible states of a running effect.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateStopped
	StateDone
)

// Defaults applied by LoadEffectConfigs for fields absent from the JSON.
// Configs built in code take their field values literally (SpeedMS 0 means
// no per-character delay).
const (
	DefaultSpeedMS       = 120
	DefaultBlinkPeriodMS = 500
)

// UI constants
const (
	FontSize     float32 = 14.0 // Title
	FontSizeText float32 = 20.0 // Animated line

	// Dimensions
	EffectWidth       = 460
	EffectHeight      = 72
	GapButton         = 5
	EffectSpacing     = 1
	ControlButtonsGap = 5
	CornerRadius      = 10.0
)

var (
	// BackgroundColor is the base background color for effect panels.
	BackgroundColor = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
)

// EffectConfig holds the configuration for a single typewriter effect.
// It is immutable once the effect starts.
type EffectConfig struct {
	Name   string // display title of the showcase panel
	Target string // container id resolved through a Locator

	Text        string
	InitialText string
	SeedText    string // pre-populates the container before the first run; the effect itself never reads it

	SpeedMS      int // per-character delay
	DelayStartMS int
	DelayEndMS   int

	Cursor        bool
	BlinkCursor   bool
	BlinkPeriodMS int // 0 disables blinking

	Loop      bool
	Erase     bool
	EraseOnly bool

	OnComplete func() `json:"-"`
}

// EffectConfigs holds the configuration for all showcase effects.
var EffectConfigs []*EffectConfig

// LoadEffectConfigs loads effect configurations from a JSON file.
func LoadEffectConfigs(reader AppContentReader) {
	data, err := reader.ReadFile("assets/effects_config.json")
	if err != nil {
		log.Fatalf("Failed to read effect configs: %v", err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Fatalf("Failed to unmarshal effect configs: %v", err)
	}

	EffectConfigs = EffectConfigs[:0]
	for _, entry := range entries {
		cfg := &EffectConfig{
			SpeedMS:       DefaultSpeedMS,
			BlinkPeriodMS: DefaultBlinkPeriodMS,
		}
		if err := json.Unmarshal(entry, cfg); err != nil {
			log.Fatalf("Failed to unmarshal effect config: %v", err)
		}
		EffectConfigs = append(EffectConfigs, cfg)
	}
}
