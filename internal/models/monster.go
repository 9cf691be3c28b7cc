// monster.go

package models

import (
	"time"
)

// Monster 怪物模型
type Monster struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Level      int       `json:"level"`
	Health     int       `json:"health"`
	MaxHealth  int       `json:"max_health"`
	Position   Vector3D  `json:"position"`
	Zone       string    `json:"zone"`
	Difficulty float64   `json:"difficulty"`
	IsAlive    bool      `json:"is_alive"`
	CreatedAt  time.Time `json:"created_at"`
}
