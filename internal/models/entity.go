// entity.go

package models

import (
	"math"
)

// Vector3D 三维向量
type Vector3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceTo 计算到另一点的欧氏距离
func (v Vector3D) DistanceTo(other Vector3D) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
