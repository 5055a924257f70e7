package geometry

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// HittableList is an ordered collection of hittables that is itself hittable.
// Lists may be nested.
type HittableList struct {
	Objects []Hittable
}

// NewHittableList creates a list holding the given objects
func NewHittableList(objects ...Hittable) *HittableList {
	return &HittableList{Objects: objects}
}

// Add appends an object to the list
func (l *HittableList) Add(object Hittable) {
	l.Objects = append(l.Objects, object)
}

// Clear removes every object
func (l *HittableList) Clear() {
	l.Objects = nil
}

// Len returns the number of direct members
func (l *HittableList) Len() int {
	return len(l.Objects)
}

// Hit scans every member, shrinking the upper bound to the closest hit so far
func (l *HittableList) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := rayT.Max

	for _, object := range l.Objects {
		if hit, isHit := object.Hit(ray, rayT.WithMax(closestSoFar)); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// PrimitiveCount returns the number of leaf primitives, descending into nested lists
func (l *HittableList) PrimitiveCount() int {
	count := 0
	for _, object := range l.Objects {
		switch obj := object.(type) {
		case *HittableList:
			count += obj.PrimitiveCount()
		default:
			count++
		}
	}
	return count
}

func (l *HittableList) hittable() {}
