package core

import "gonum.org/v1/gonum/spatial/r3"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min r3.Vec // Minimum corner
	Max r3.Vec // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max r3.Vec) AABB {
	return AABB{Min: min, Max: max}
}

// Contains reports whether point lies inside the box (boundary included)
func (aabb AABB) Contains(point r3.Vec) bool {
	return point.X >= aabb.Min.X && point.X <= aabb.Max.X &&
		point.Y >= aabb.Min.Y && point.Y <= aabb.Max.Y &&
		point.Z >= aabb.Min.Z && point.Z <= aabb.Max.Z
}

// Center returns the center point of the AABB
func (aabb AABB) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(aabb.Min, aabb.Max))
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() r3.Vec {
	return r3.Sub(aabb.Max, aabb.Min)
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// Lerp maps a sample in the unit cube onto a point of the box
func (aabb AABB) Lerp(sample r3.Vec) r3.Vec {
	size := aabb.Size()
	return NewVec3(
		aabb.Min.X+sample.X*size.X,
		aabb.Min.Y+sample.Y*size.Y,
		aabb.Min.Z+sample.Z*size.Z,
	)
}
