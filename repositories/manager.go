package repositories

import (
	"bijouterie_server/database"
	"bijouterie_server/lib"
	"time"

	"github.com/google/uuid"
)

// Repositories groups the record stores of the repair aggregate and the user accounts.
type Repositories struct {
	Clients *ClientRepository
	Repairs *RepairRepository
	Items   *ItemRepository
	Photos  *PhotoRepository
	Users   *UserRepository
}

func New(db *database.DB, cipher *lib.FieldCipher) *Repositories {
	return &Repositories{
		Clients: NewClientRepository(db, cipher),
		Repairs: NewRepairRepository(db),
		Items:   NewItemRepository(db),
		Photos:  NewPhotoRepository(db),
		Users:   NewUserRepository(db),
	}
}

// stamp assigns an id and creation time to records created in Go.
func stamp(id *uuid.UUID, createdAt *time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now().UTC()
	}
}

func toAny(ids []uuid.UUID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// keyCount is a row of a GROUP BY count.
type keyCount struct {
	Key   string `bun:"key"`
	Count int    `bun:"count"`
}
