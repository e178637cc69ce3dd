package scene

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

var (
	ErrDuplicateID     = errors.New("duplicate element id")
	ErrPayloadMismatch = errors.New("payload does not match kind")
	ErrOutOfBounds     = errors.New("element outside canvas")
	ErrDuplicateReward = errors.New("discount code used twice")
	ErrNoGuaranteed    = errors.New("guaranteed egg missing")
)

// Check reports every structural problem in s: repeated IDs, rewards
// without exactly one payload, decorations with one, anchors off the
// canvas, repeated discount codes and a missing guaranteed egg.
func Check(s Scene) []error {
	var errs []error
	ids := mapset.New[string]()
	codes := mapset.New[string]()
	guaranteed := false

	for i, el := range s.Elements {
		at := func(err error) error {
			return fmt.Errorf("element %d (%s): %w", i, el.ID, err)
		}
		if ids.Has(el.ID) {
			errs = append(errs, at(ErrDuplicateID))
		}
		ids.Put(el.ID)

		switch el.Kind {
		case KindReward:
			if (el.Discount == nil) == (el.Spoiled == nil) {
				errs = append(errs, at(ErrPayloadMismatch))
			}
		default:
			if el.Discount != nil || el.Spoiled != nil {
				errs = append(errs, at(ErrPayloadMismatch))
			}
		}

		p := el.Placement
		if p.Top < 0 || p.Left < 0 || p.Top > s.Height || p.Left > s.Width {
			errs = append(errs, at(ErrOutOfBounds))
		}

		if d := el.Discount; d != nil {
			if codes.Has(d.Code) {
				errs = append(errs, at(ErrDuplicateReward))
			}
			codes.Put(d.Code)
		}
		if el.ID == GuaranteedID && el.Discount != nil {
			guaranteed = true
		}
	}
	if !guaranteed {
		errs = append(errs, ErrNoGuaranteed)
	}
	return errs
}
