package scene

import (
	"fmt"
	"math"

	"github.com/zyedidia/generic/mapset"
)

// GuaranteedID is the element ID of the egg placed near the top of the page.
const GuaranteedID = "guaranteed-egg"

// reward is a payload waiting for a position.
type reward struct {
	discount *DiscountPayload
	spoiled  *SpoiledPayload
	size     SizeHint
}

// Generate builds the element collection for one page load: decorative
// elements, the guaranteed egg, then every distributed reward.
func Generate(cfg Config, cat Catalog, rng Rand) Scene {
	cfg = cfg.Normalize()
	w, h := cfg.ViewportWidth, cfg.PageHeight

	discountTotal := expandedCount(len(cat.Discounts), cfg.RewardMultiplier)
	spoiledTotal := expandedCount(cfg.SpoiledCount, cfg.RewardMultiplier)
	elements := make([]Element, 0, cfg.DecorativeCount+1+discountTotal+spoiledTotal)

	visuals := cfg.DecorativeSampler()
	for i := 0; i < cfg.DecorativeCount; i++ {
		elements = append(elements, decorative(i, visuals.Sample(rng), cfg, rng))
	}

	guaranteed := guaranteedEgg(cat.guaranteed(), cfg, rng)
	elements = append(elements, guaranteed)

	codes := mapset.New[string]()
	codes.Put(guaranteed.Discount.Code)
	rewards := expandDiscounts(cat.Discounts, discountTotal, codes, rng)
	rewards = append(rewards, expandSpoiled(cat.spoiledMessage(), spoiledTotal, rng)...)

	slots := Distribute(len(rewards), Bounds{Width: w, Height: h}, cfg.Distribution,
		[]Point{guaranteed.Placement.Point()}, rng)

	relaxed := 0
	spoiledIdx := 0
	for i, r := range rewards {
		if slots[i].Relaxed {
			relaxed++
		}
		el := Element{
			Kind:      KindReward,
			Visual:    VisualEgg,
			Discount:  r.discount,
			Spoiled:   r.spoiled,
			Placement: rewardPlacement(slots[i].Point, r.size, cfg, rng),
		}
		if r.discount != nil {
			el.ID = "egg-" + r.discount.Code
		} else {
			el.ID = fmt.Sprintf("spoiled-%d", spoiledIdx)
			spoiledIdx++
		}
		elements = append(elements, el)
	}

	if cfg.Shuffle {
		elements = Shuffled(elements, rng)
	}

	return Scene{
		Width:    w,
		Height:   h,
		Elements: elements,
		Relaxed:  relaxed,
	}
}

// GenerateSeeded runs Generate with a fresh source for seed and records it.
func GenerateSeeded(cfg Config, cat Catalog, seed uint64) Scene {
	s := Generate(cfg, cat, NewRand(seed))
	s.Seed = seed
	return s
}

// expandedCount returns ⌊m·base⌋.
func expandedCount(base int, m float64) int {
	if base <= 0 {
		return 0
	}
	return int(math.Floor(m * float64(base)))
}

func decorative(i int, v Visual, cfg Config, rng Rand) Element {
	style := cfg.Decorative
	p := Placement{
		Top:         below(rng.Float64()*cfg.PageHeight, cfg.PageHeight),
		Left:        below(rng.Float64()*cfg.ViewportWidth, cfg.ViewportWidth),
		SizePx:      style.Size.Sample(rng),
		Scale:       style.Scale.Sample(rng),
		Opacity:     style.Opacity.Sample(rng),
		RotationDeg: style.Rotation.Sample(rng),
	}
	if chance(rng, cfg.DecorativeAnimated) {
		p.Animation = animation(cfg.Motion, rng)
	}
	return Element{
		ID:        fmt.Sprintf("decor-%d", i),
		Kind:      KindDecorative,
		Visual:    v,
		Placement: p,
	}
}

func guaranteedEgg(t DiscountTemplate, cfg Config, rng Rand) Element {
	w := cfg.ViewportWidth
	top := rng.Float64() * cfg.PageHeight * GuaranteedBand
	var left float64
	if w > 2*GuaranteedMargin {
		left = GuaranteedMargin + rng.Float64()*(w-2*GuaranteedMargin)
	} else {
		left = rng.Float64() * w
	}
	return Element{
		ID:       GuaranteedID,
		Kind:     KindReward,
		Visual:   VisualEgg,
		Discount: t.Payload(t.Code),
		Placement: Placement{
			Top:         below(top, cfg.PageHeight*GuaranteedBand),
			Left:        below(left, w),
			RotationDeg: cfg.Reward.Rotation.Sample(rng),
			Scale:       GuaranteedScale.Sample(rng),
			Opacity:     1,
			SizePx:      cfg.Reward.Medium.Sample(rng),
			Animation:   animation(cfg.Motion, rng),
		},
	}
}

// expandDiscounts emits every catalog entry once, then fills up to total with
// entries sampled uniformly and minted with a random suffix. Codes already in
// use are re-minted so every instance stays distinct.
func expandDiscounts(templates []DiscountTemplate, total int, codes mapset.Set[string], rng Rand) []reward {
	if len(templates) == 0 {
		return nil
	}
	out := make([]reward, 0, total)
	for i := 0; i < total; i++ {
		var t DiscountTemplate
		code := ""
		if i < len(templates) {
			t = templates[i]
			code = t.Code
		} else {
			t = templates[rng.IntN(len(templates))]
		}
		if code == "" || codes.Has(code) {
			code = mintCode(t.Code, codes, rng)
		}
		codes.Put(code)
		out = append(out, reward{discount: t.Payload(code), size: t.Size})
	}
	return out
}

func mintCode(base string, codes mapset.Set[string], rng Rand) string {
	for {
		code := base + "-" + randomSuffix(rng, 4)
		if !codes.Has(code) {
			return code
		}
	}
}

func expandSpoiled(message string, total int, rng Rand) []reward {
	out := make([]reward, 0, total)
	for i := 0; i < total; i++ {
		size := SizeMedium
		if rng.IntN(2) == 0 {
			size = SizeSmall
		}
		out = append(out, reward{spoiled: &SpoiledPayload{Message: message}, size: size})
	}
	return out
}

func rewardPlacement(at Point, size SizeHint, cfg Config, rng Rand) Placement {
	style := cfg.Reward
	p := Placement{
		Top:         at.Top,
		Left:        at.Left,
		RotationDeg: style.Rotation.Sample(rng),
		Scale:       style.Scale.Sample(rng),
		Opacity:     style.Opacity.Sample(rng),
		SizePx:      style.SizeFor(size).Sample(rng),
	}
	if chance(rng, cfg.RewardAnimated) {
		p.Animation = animation(cfg.Motion, rng)
	}
	return p
}

func animation(m Motion, rng Rand) *Animation {
	return &Animation{
		DurationSec:    m.Duration.Sample(rng),
		DelaySec:       m.Delay.Sample(rng),
		MoveRangePx:    m.MoveRange.Sample(rng),
		RotateRangeDeg: m.RotateRange.Sample(rng),
	}
}
