package memory

import "tamagitchi/internal/domain/care"

// NewStore arma un store en memoria (dev/tests). No requiere migración.
func NewStore() care.Store {
	return care.Store{
		Pets:     NewPetRepo(),
		Owners:   NewOwnerRepo(),
		Activity: NewActivityRepo(),
	}
}
