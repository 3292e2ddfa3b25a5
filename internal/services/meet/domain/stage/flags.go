package stage

import (
	"fmt"

	apperrors "github.com/louisbranch/trackmeet/internal/platform/errors"
)

// Flags records which stages an event has completed.
type Flags map[Key]bool

// Clone returns an independent copy of f.
func (f Flags) Clone() Flags {
	out := make(Flags, len(f))
	for key, done := range f {
		if done {
			out[key] = true
		}
	}
	return out
}

// Current returns the highest stage index completed without gaps.
func (f Flags) Current() int {
	current := 0
	for _, key := range order {
		if !f[key] {
			break
		}
		current++
	}
	return current
}

// CurrentKey returns the key of the highest stage completed without gaps.
func (f Flags) CurrentKey() Key {
	key, _ := At(f.Current())
	return key
}

// Next returns the stage that would run after the current one. The second
// value is false once every stage has completed.
func (f Flags) Next() (Key, bool) {
	return At(f.Current() + 1)
}

// Completed reports whether k has completed.
func (f Flags) Completed(k Key) bool {
	return f[k]
}

// Locked reports whether results are published.
func (f Flags) Locked() bool {
	return f[Published]
}

// CheckAdvance validates moving an event with flags f to target.
//
// A locked event rejects every transition. Otherwise target may be any
// completed stage (a re-run) or the stage right after the current one.
func CheckAdvance(f Flags, target Key) error {
	targetIndex := target.Index()
	if targetIndex < 1 {
		return apperrors.WithMetadata(apperrors.CodeStageUnknown, fmt.Sprintf("unknown stage %q", target), map[string]string{
			"Stage": string(target),
		})
	}
	if f.Locked() {
		return apperrors.WithMetadata(apperrors.CodeEventLocked, "event is published", map[string]string{
			"Stage": string(target),
		})
	}
	current := f.Current()
	if targetIndex > current+1 {
		return apperrors.WithMetadata(apperrors.CodeStageOutOfSequence,
			fmt.Sprintf("stage %s cannot run after %s", target, f.CurrentKey()),
			map[string]string{
				"Current": string(f.CurrentKey()),
				"Target":  string(target),
			})
	}
	return nil
}

// Advance validates the transition and returns the flags after target
// completes. Flags for every later stage are cleared because their derived
// data is stale once target re-runs.
func Advance(f Flags, target Key) (Flags, error) {
	if err := CheckAdvance(f, target); err != nil {
		return nil, err
	}
	targetIndex := target.Index()
	out := make(Flags, targetIndex)
	for _, key := range order[:targetIndex] {
		out[key] = true
	}
	return out, nil
}

// Later returns the stages that follow k, in order.
func Later(k Key) []Key {
	index := k.Index()
	if index < 0 || index >= len(order) {
		return nil
	}
	out := make([]Key, len(order)-index)
	copy(out, order[index:])
	return out
}
