package repositories

import (
	"bijouterie_server/database"
	"bijouterie_server/lib"
	"bijouterie_server/structs/tables"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ClientRepository stores clients. Phone numbers are sealed when a field cipher is configured.
type ClientRepository struct {
	db     *database.DB
	cipher *lib.FieldCipher
}

func NewClientRepository(db *database.DB, cipher *lib.FieldCipher) *ClientRepository {
	return &ClientRepository{db: db, cipher: cipher}
}

func (cr *ClientRepository) Create(ctx context.Context, client *tables.Client) error {
	stamp(&client.Id, &client.CreatedAt)

	row := *client
	if err := cr.seal(&row); err != nil {
		return lib.Persistence("insert client", err)
	}
	if _, err := database.Query[tables.Client](cr.db).Insert(ctx, &row); err != nil {
		return lib.Persistence("insert client", err)
	}
	return nil
}

func (cr *ClientRepository) Update(ctx context.Context, client *tables.Client) error {
	row := *client
	if err := cr.seal(&row); err != nil {
		return lib.Persistence("update client", err)
	}

	var phone any
	if row.Phone != "" {
		phone = row.Phone
	}

	_, err := database.Query[tables.Client](cr.db).
		Where("id", client.Id).
		Update(ctx, map[string]any{
			"full_name": row.FullName,
			"phone":     phone,
		})
	if err != nil {
		return lib.Persistence("update client", err)
	}
	return nil
}

func (cr *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*tables.Client, error) {
	client, err := database.FindByID[tables.Client](cr.db, ctx, id)
	if err != nil {
		return nil, lib.Persistence("get client", err)
	}
	if client == nil {
		return nil, nil
	}
	if err := cr.open(client); err != nil {
		return nil, lib.Persistence("get client", err)
	}
	return client, nil
}

// ListByIDs returns the clients keyed by id.
func (cr *ClientRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]tables.Client, error) {
	clients, err := database.FindByIDs[tables.Client](cr.db, ctx, toAny(ids))
	if err != nil {
		return nil, lib.Persistence("list clients", err)
	}

	out := make(map[uuid.UUID]tables.Client, len(clients))
	for _, c := range clients {
		if err := cr.open(&c); err != nil {
			return nil, lib.Persistence("list clients", err)
		}
		out[c.Id] = c
	}
	return out, nil
}

func (cr *ClientRepository) seal(c *tables.Client) error {
	phone, err := cr.cipher.Seal(c.Phone)
	if err != nil {
		return fmt.Errorf("seal phone: %w", err)
	}
	c.Phone = phone
	return nil
}

func (cr *ClientRepository) open(c *tables.Client) error {
	phone, err := cr.cipher.Open(c.Phone)
	if err != nil {
		return fmt.Errorf("open phone: %w", err)
	}
	c.Phone = phone
	return nil
}
