package theme

// Pair is the primary/secondary color combination behind one stretch of
// the page.
type Pair struct {
	Primary   RGB `json:"primary" toml:"primary"`
	Secondary RGB `json:"secondary" toml:"secondary"`
}

// LerpPair blends both colors of a toward b.
func LerpPair(a, b Pair, p float64) Pair {
	return Pair{
		Primary:   Lerp(a.Primary, b.Primary, p),
		Secondary: Lerp(a.Secondary, b.Secondary, p),
	}
}

// Palette is a cyclic list of pairs; the last blends back into the first.
type Palette []Pair

// DefaultPalette starts on solid green and cycles through pastels.
func DefaultPalette() Palette {
	return Palette{
		{Primary: MustHex("#4CAF50"), Secondary: MustHex("#4CAF50")},
		{Primary: MustHex("#FFB5E8"), Secondary: MustHex("#B5DEFF")},
		{Primary: MustHex("#B5FFE1"), Secondary: MustHex("#FFB5B5")},
		{Primary: MustHex("#FFB5D8"), Secondary: MustHex("#D8B5FF")},
		{Primary: MustHex("#D8B5FF"), Secondary: MustHex("#B5FFE1")},
		{Primary: MustHex("#FFD8B5"), Secondary: MustHex("#B5DEFF")},
	}
}

// Normalize returns the default palette in place of an empty one.
func (p Palette) Normalize() Palette {
	if len(p) == 0 {
		return DefaultPalette()
	}
	return p
}
