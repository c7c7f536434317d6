// Package object defines the simulation entities and their per-step updates.
package object

import (
	"time"

	"github.com/tomz197/skyraid/internal/physics"
)

// Field is the play area in logical units.
type Field struct {
	Width  float64 `msgpack:"w"`
	Height float64 `msgpack:"h"`
}

// Bounds returns the field as a rectangle anchored at the origin.
func (f Field) Bounds() physics.Rect {
	return physics.Rect{Width: f.Width, Height: f.Height}
}

// CenterX returns the horizontal center of the field.
func (f Field) CenterX() float64 {
	return f.Width / 2
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta time.Duration // Real time since the previous step
	Now   time.Duration // Simulation clock after this step's advance
	Field Field
}

// Object is an updatable simulation entity.
type Object interface {
	// Update advances the object by one step. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool)
}

// UpdateAll updates every object and compacts the slice in place,
// dropping the ones that request removal.
func UpdateAll[T Object](objs []T, ctx UpdateContext) []T {
	kept := objs[:0] // reuse backing array
	for _, obj := range objs {
		if !obj.Update(ctx) {
			kept = append(kept, obj)
		}
	}
	clearTail(objs, len(kept))
	return kept
}

// Compact keeps only the objects for which keep returns true, reusing the backing array.
func Compact[T any](objs []T, keep func(T) bool) []T {
	kept := objs[:0]
	for _, obj := range objs {
		if keep(obj) {
			kept = append(kept, obj)
		}
	}
	clearTail(objs, len(kept))
	return kept
}

// clearTail zeroes the abandoned tail so removed pointers can be collected.
func clearTail[T any](objs []T, from int) {
	var zero T
	for i := from; i < len(objs); i++ {
		objs[i] = zero
	}
}
