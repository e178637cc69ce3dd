package scene

// Kind separates background decoration from clickable rewards.
type Kind string

const (
	KindDecorative Kind = "decorative"
	KindReward     Kind = "reward"
)

// Visual is the glyph family an element is drawn with.
type Visual string

const (
	VisualLeaf     Visual = "leaf"
	VisualPlant    Visual = "plant"
	VisualMountain Visual = "mountain"
	VisualWater    Visual = "water"
	VisualCloud    Visual = "cloud"
	VisualCircle   Visual = "circle"
	VisualStar     Visual = "star"
	VisualEgg      Visual = "egg"
)

// DecorativeVisuals lists the decorative icon set in canonical order.
var DecorativeVisuals = []Visual{
	VisualLeaf,
	VisualPlant,
	VisualMountain,
	VisualWater,
	VisualCloud,
	VisualCircle,
	VisualStar,
}

// Rarity tiers a discount.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
)

// Valid reports whether r is one of the known tiers.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare:
		return true
	}
	return false
}

// SizeHint selects the pixel band a reward egg is drawn from.
type SizeHint string

const (
	SizeSmall  SizeHint = "small"
	SizeMedium SizeHint = "medium"
	SizeLarge  SizeHint = "large"
)

// Valid reports whether s is one of the known hints.
func (s SizeHint) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// Animation describes the looping sway of an element.
// DelaySec may be negative: the loop starts partway through its cycle.
type Animation struct {
	DurationSec    float64 `json:"durationSec"`
	DelaySec       float64 `json:"delaySec"`
	MoveRangePx    float64 `json:"moveRangePx"`
	RotateRangeDeg float64 `json:"rotateRangeDeg"`
}

// Placement is the immutable geometry of an element on the canvas.
type Placement struct {
	Top         float64    `json:"top"`
	Left        float64    `json:"left"`
	RotationDeg float64    `json:"rotationDeg"`
	Scale       float64    `json:"scale"`
	Opacity     float64    `json:"opacity"`
	SizePx      float64    `json:"sizePx"`
	Animation   *Animation `json:"animation,omitempty"`
}

// IsAnimated reports whether the element sways.
func (p Placement) IsAnimated() bool {
	return p.Animation != nil
}

// Point returns the top-left anchor of the placement.
func (p Placement) Point() Point {
	return Point{Top: p.Top, Left: p.Left}
}

// DiscountPayload is what a discount egg reveals.
type DiscountPayload struct {
	Code           string `json:"code"`
	DisplayValue   string `json:"displayValue"`
	Rarity         Rarity `json:"rarityTier"`
	RedemptionLink string `json:"redemptionLink,omitempty"`
}

// SpoiledPayload is what a spoiled egg reveals. It carries no code.
type SpoiledPayload struct {
	Message string `json:"message"`
}

// Element is one unit of the generated scene.
// Exactly one of Discount and Spoiled is set when Kind is KindReward;
// both are nil for decorative elements.
type Element struct {
	ID        string           `json:"id"`
	Kind      Kind             `json:"kind"`
	Visual    Visual           `json:"visualType"`
	Discount  *DiscountPayload `json:"discount,omitempty"`
	Spoiled   *SpoiledPayload  `json:"spoiled,omitempty"`
	Placement Placement        `json:"placement"`
}

// IsReward reports whether the element is a clickable egg.
func (e Element) IsReward() bool {
	return e.Kind == KindReward
}

// Scene is the full element collection for one page load.
type Scene struct {
	Seed     uint64    `json:"seed"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Elements []Element `json:"elements"`
	// Relaxed counts rewards placed after the distance retry bound was hit.
	Relaxed int `json:"relaxed"`
}

// Rewards returns the reward elements in collection order.
func (s Scene) Rewards() []Element {
	var out []Element
	for _, el := range s.Elements {
		if el.IsReward() {
			out = append(out, el)
		}
	}
	return out
}

// DiscountTemplate is one catalog entry eggs are minted from.
type DiscountTemplate struct {
	Code           string   `json:"code" yaml:"code"`
	DisplayValue   string   `json:"displayValue" yaml:"value"`
	Rarity         Rarity   `json:"rarityTier" yaml:"rarity"`
	Size           SizeHint `json:"sizeHint" yaml:"size"`
	RedemptionLink string   `json:"redemptionLink,omitempty" yaml:"link,omitempty"`
}

// Payload mints a payload with the given code.
func (t DiscountTemplate) Payload(code string) *DiscountPayload {
	return &DiscountPayload{
		Code:           code,
		DisplayValue:   t.DisplayValue,
		Rarity:         t.Rarity,
		RedemptionLink: t.RedemptionLink,
	}
}

// Catalog is the reward content a scene is generated from.
type Catalog struct {
	Discounts      []DiscountTemplate `json:"discounts"`
	Guaranteed     DiscountTemplate   `json:"guaranteed"`
	SpoiledMessage string             `json:"spoiledMessage"`
}

const (
	// DefaultSpoiledMessage is shown for every spoiled egg.
	DefaultSpoiledMessage = "Just clay! Try again!"
	// DefaultRedemptionLink is where discounts are booked.
	DefaultRedemptionLink = "https://thepotteryloop.com"
)

// DefaultGuaranteed is the discount carried by the egg near the top of the page.
var DefaultGuaranteed = DiscountTemplate{
	Code:           "POTTERY5",
	DisplayValue:   "$5 off pottery wheel class",
	Rarity:         RarityCommon,
	Size:           SizeMedium,
	RedemptionLink: DefaultRedemptionLink,
}

func (c Catalog) guaranteed() DiscountTemplate {
	if c.Guaranteed.Code == "" {
		return DefaultGuaranteed
	}
	return c.Guaranteed
}

func (c Catalog) spoiledMessage() string {
	if c.SpoiledMessage == "" {
		return DefaultSpoiledMessage
	}
	return c.SpoiledMessage
}
