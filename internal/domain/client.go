package domain

import "time"

// Client represents a customer that places orders
type Client struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	NationalID string    `json:"national_id" db:"national_id"`
	Phone      *string   `json:"phone" db:"phone"`
	Address    *string   `json:"address" db:"address"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// ClientPatch carries the fields of a partial client update.
// The national ID is immutable and therefore absent.
type ClientPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// Apply copies every supplied field onto the client
func (p ClientPatch) Apply(client *Client) {
	if p.Name != nil {
		client.Name = *p.Name
	}
	if p.Email != nil {
		client.Email = *p.Email
	}
	if p.Phone != nil {
		client.Phone = p.Phone
	}
	if p.Address != nil {
		client.Address = p.Address
	}
}

// ClientFilter narrows client listings with case-insensitive substring matches
type ClientFilter struct {
	Name  string
	Email string
}
