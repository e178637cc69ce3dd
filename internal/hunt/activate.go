package hunt

import (
	"egg-hunt/internal/render"
	"egg-hunt/internal/scene"
)

// PresentationKind tells discount and spoiled dialogs apart.
type PresentationKind string

const (
	PresentDiscount PresentationKind = "discount"
	PresentSpoiled  PresentationKind = "spoiled"
)

// Presentation is what the visitor sees after opening an egg.
type Presentation struct {
	Kind           PresentationKind
	Title          string
	Message        string
	DisplayValue   string
	Code           string
	Rarity         scene.Rarity
	RedemptionLink string
	Footer         string
}

// Copyable reports whether the dialog offers a code to copy.
func (p Presentation) Copyable() bool {
	return p.Kind == PresentDiscount && p.Code != ""
}

// Activate resolves an opened element. Decorative elements are ignored and
// report false. A discount marks its code in found before returning.
func Activate(el scene.Element, found *FoundSet) (Presentation, bool) {
	if !el.IsReward() {
		return Presentation{}, false
	}
	switch {
	case el.Discount != nil:
		d := el.Discount
		found.Mark(d.Code)
		link := d.RedemptionLink
		if link == "" {
			link = scene.DefaultRedemptionLink
		}
		return Presentation{
			Kind:           PresentDiscount,
			Title:          "Congratulations!",
			Message:        "You found a special discount!",
			DisplayValue:   d.DisplayValue,
			Code:           d.Code,
			Rarity:         d.Rarity,
			RedemptionLink: link,
			Footer:         "Valid for 48 hours only!",
		}, true
	case el.Spoiled != nil:
		msg := el.Spoiled.Message
		if msg == "" {
			msg = scene.DefaultSpoiledMessage
		}
		return Presentation{
			Kind:    PresentSpoiled,
			Title:   "Oops!",
			Message: msg,
			Footer:  "Keep searching for more eggs!",
		}, true
	}
	return Presentation{}, false
}

// Modal converts the presentation into the dialog the renderer draws.
func (p Presentation) Modal(copied bool) render.Modal {
	if p.Kind == PresentSpoiled {
		return render.Modal{Title: p.Title, Lines: []string{p.Message, p.Footer}}
	}
	m := render.Modal{
		Title: p.Title,
		Lines: []string{p.Message, p.DisplayValue, "Use code: " + p.Code, p.Footer},
		Link:  "Book Class: " + p.RedemptionLink,
	}
	if p.Copyable() {
		m.Button = "Copy Code"
		if copied {
			m.Button = "Code Copied"
			m.Pressed = true
		}
	}
	return m
}
