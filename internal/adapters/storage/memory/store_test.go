package memory

import (
	"testing"

	"tamagitchi/internal/adapters/storage/storagetest"
	"tamagitchi/internal/domain/care"
)

func TestMemoryStore(t *testing.T) {
	storagetest.Run(t, func(*testing.T) care.Store { return NewStore() })
}
