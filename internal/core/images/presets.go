package images

import "sort"

// FitMode defines how an image is fitted to the target dimensions.
type FitMode string

const (
	// FitCover scales the image to cover the target dimensions, cropping if necessary.
	FitCover FitMode = "cover"
	// FitContain scales the image to fit within the target width, preserving aspect ratio.
	FitContain FitMode = "contain"
)

// String returns the string representation of the FitMode.
func (f FitMode) String() string {
	return string(f)
}

// Preset names used by the pages.
const (
	PresetCard = "card"
	PresetFull = "full"
)

// Preset is a named rendition of a post image.
type Preset struct {
	Name    string
	Width   int
	Height  int
	Fit     FitMode
	Quality int
}

// Validate checks that the preset has usable values.
func (p Preset) Validate() error {
	if p.Name == "" || p.Width <= 0 {
		return ErrInvalidPreset
	}
	// Height 0 means proportional scaling, which only contain supports
	if p.Fit == FitCover && p.Height <= 0 {
		return ErrInvalidPreset
	}
	if p.Quality < 1 || p.Quality > 100 {
		return ErrInvalidPreset
	}
	if p.Fit != FitCover && p.Fit != FitContain {
		return ErrInvalidPreset
	}
	return nil
}

var presets = map[string]Preset{
	// Listing cards show a fixed-size banner above the excerpt.
	PresetCard: {
		Name:    PresetCard,
		Width:   600,
		Height:  300,
		Fit:     FitCover,
		Quality: 80,
	},
	PresetFull: {
		Name:    PresetFull,
		Width:   1200,
		Height:  0,
		Fit:     FitContain,
		Quality: 85,
	},
}

// GetPreset returns the preset with the given name.
// Returns ErrInvalidPreset if the name is unknown.
func GetPreset(name string) (Preset, error) {
	preset, ok := presets[name]
	if !ok {
		return Preset{}, ErrInvalidPreset
	}
	return preset, nil
}

// ListPresets returns all presets sorted by name.
func ListPresets() []Preset {
	result := make([]Preset, 0, len(presets))
	for _, p := range presets {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
