package systems

import (
	"github.com/spaghettifunk/lightbox/engine/assets"
	"github.com/spaghettifunk/lightbox/engine/renderer"
)

// WindowFunc picks the ids worth loading around selected out of length
// registered assets, most important first.
type WindowFunc func(selected assets.EntityID, length int) []assets.EntityID

// NeighborWindow returns selected, then up to behind ids before it, then up to
// ahead ids after it. It does not wrap around the ends.
func NeighborWindow(behind, ahead int) WindowFunc {
	return func(selected assets.EntityID, length int) []assets.EntityID {
		sel := int(selected)
		if sel < 0 || sel >= length {
			return nil
		}
		ids := []assets.EntityID{selected}
		for i := 1; i <= behind && sel-i >= 0; i++ {
			ids = append(ids, assets.EntityID(sel-i))
		}
		for i := 1; i <= ahead && sel+i < length; i++ {
			ids = append(ids, assets.EntityID(sel+i))
		}
		return ids
	}
}

// BeyondWindow returns the count ids that follow a window reaching ahead
// positions past selected.
func BeyondWindow(ahead, count int) WindowFunc {
	return func(selected assets.EntityID, length int) []assets.EntityID {
		var ids []assets.EntityID
		for i := ahead + 1; i <= ahead+count; i++ {
			if next := int(selected) + i; next < length {
				ids = append(ids, assets.EntityID(next))
			}
		}
		return ids
	}
}

/**
 * @brief Preload policy. Window ids are requested every frame. Idle ids are
 * only requested while the scheduler has nothing in flight, so read-ahead
 * never delays the images next to the selection.
 */
type LookAhead struct {
	Window WindowFunc
	Idle   WindowFunc
}

func NewLookAhead(behind, ahead, idleAhead int) LookAhead {
	return LookAhead{
		Window: NeighborWindow(behind, ahead),
		Idle:   BeyondWindow(ahead, idleAhead),
	}
}

// DefaultLookAhead keeps one image behind and two ahead of the selection
// and reads one more ahead when idle.
func DefaultLookAhead() LookAhead {
	return NewLookAhead(1, 2, 1)
}

func (la LookAhead) Preload(tm *TaskManager, registry *assets.Registry, selected assets.EntityID) {
	if la.Window != nil {
		la.request(tm, registry, la.Window(selected, registry.Count()))
	}
	if la.Idle != nil && tm.IsIdle() {
		la.request(tm, registry, la.Idle(selected, registry.Count()))
	}
}

func (la LookAhead) request(tm *TaskManager, registry *assets.Registry, ids []assets.EntityID) {
	for _, id := range ids {
		if _, ok := registry.ImageOf(id); ok {
			continue
		}
		if path, ok := registry.PathOf(id); ok {
			tm.Load(id, path)
		}
	}
}

// Step runs one frame of the pipeline: preload around selected, then drain
// finished decodes into the registry.
func (la LookAhead) Step(tm *TaskManager, registry *assets.Registry, factory renderer.TextureFactory, selected assets.EntityID) {
	la.Preload(tm, registry, selected)
	tm.Update(registry, factory)
}
