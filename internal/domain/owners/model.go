package owners

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("owner not found")
)

// Owner es la identidad externa (login de GitHub) que interactúa con
// la mascota de un colo. Único por (Partition, Username).
type Owner struct {
	ID        string
	Partition string
	Username  string

	DisplayName string // opcional
	AvatarURL   string // opcional

	CreatedAt    time.Time
	LastActivity time.Time
}

// AvatarOrDefault usa el avatar público de GitHub si no hay uno guardado.
func (o Owner) AvatarOrDefault() string {
	if o.AvatarURL != "" {
		return o.AvatarURL
	}
	return "https://github.com/" + o.Username + ".png?size=32"
}
