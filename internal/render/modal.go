package render

import "unicode/utf8"

// Modal is the dialog shown after an egg is opened.
type Modal struct {
	Title string
	Lines []string
	// Button is the label of the copy button; empty hides it.
	Button string
	// Pressed draws the button in its confirmed state.
	Pressed bool
	Link    string
}

// ModalLayout holds the content-relative rects of a modal.
type ModalLayout struct {
	Box    Rect
	Close  Rect
	Button Rect
}

const modalMaxWidth = 48

// Layout centers the modal inside the content area of v.
func (m Modal) Layout(v Viewport) ModalLayout {
	inner := utf8.RuneCountInString(m.Title)
	for _, l := range m.Lines {
		inner = max(inner, utf8.RuneCountInString(l))
	}
	inner = max(inner, utf8.RuneCountInString(m.Link))
	w := min(max(inner+4, 24), modalMaxWidth, v.Cols)

	// border, title, blank, lines, blank, button, link, border
	h := 3 + len(m.Lines) + 1
	if m.Button != "" {
		h++
	}
	if m.Link != "" {
		h++
	}
	h++
	h = min(h, v.ContentRows())

	box := Rect{
		Col: max(0, (v.Cols-w)/2),
		Row: max(0, (v.ContentRows()-h)/2),
		W:   w,
		H:   h,
	}
	layout := ModalLayout{
		Box:   box,
		Close: Rect{Col: box.Col + box.W - 4, Row: box.Row, W: 3, H: 1},
	}
	if m.Button != "" {
		label := utf8.RuneCountInString(m.Button) + 4
		layout.Button = Rect{
			Col: box.Col + (box.W-label)/2,
			Row: box.Row + 3 + len(m.Lines) + 1,
			W:   label,
			H:   1,
		}
	}
	return layout
}
