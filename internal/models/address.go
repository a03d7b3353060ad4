package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// MaxAddresses bounds the address book size per user.
const MaxAddresses = 3

// Address is a single shipping address entry inside an AddressBook.
type Address struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
	IsDefault    bool   `json:"is_default"`
}

// AddressList is stored as a JSONB column on the address book row so every
// book mutation persists as a single write.
type AddressList []Address

// Value implements driver.Valuer.
func (l AddressList) Value() (driver.Value, error) {
	if l == nil {
		l = AddressList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *AddressList) Scan(value interface{}) error {
	if value == nil {
		*l = AddressList{}
		return nil
	}
	switch data := value.(type) {
	case []byte:
		return json.Unmarshal(data, l)
	case string:
		return json.Unmarshal([]byte(data), l)
	default:
		return fmt.Errorf("unsupported address list column type %T", value)
	}
}

// AddressBook holds the bounded address list for one user. Invariants: at
// most MaxAddresses entries, and when non-empty exactly one entry has
// IsDefault set, the one at DefaultIndex.
type AddressBook struct {
	BaseModel
	UserID       uuid.UUID   `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Entries      AddressList `gorm:"type:jsonb" json:"entries"`
	DefaultIndex int         `json:"default_index"`
}

// AddressUpdate carries the optional fields of a partial address update.
type AddressUpdate struct {
	Name         *string `json:"name"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Pincode      *string `json:"pincode"`
	Country      *string `json:"country"`
	Phone        *string `json:"phone"`
	SetAsDefault *bool   `json:"set_as_default"`
}

// Add appends entry as the new default. Fails once the book is full.
func (b *AddressBook) Add(entry Address) error {
	if len(b.Entries) >= MaxAddresses {
		return ErrAddressLimit
	}

	for i := range b.Entries {
		b.Entries[i].IsDefault = false
	}

	if entry.Country == "" {
		entry.Country = "India"
	}
	entry.IsDefault = true
	b.Entries = append(b.Entries, entry)
	b.DefaultIndex = len(b.Entries) - 1
	return nil
}

// Update merges the provided fields over the entry at index. The entry
// becomes the default unless the caller explicitly opts out.
func (b *AddressBook) Update(index int, update AddressUpdate) error {
	if index < 0 || index >= len(b.Entries) {
		return ErrAddressNotFound
	}

	entry := &b.Entries[index]
	if update.Name != nil {
		entry.Name = *update.Name
	}
	if update.AddressLine1 != nil {
		entry.AddressLine1 = *update.AddressLine1
	}
	if update.AddressLine2 != nil {
		entry.AddressLine2 = *update.AddressLine2
	}
	if update.City != nil {
		entry.City = *update.City
	}
	if update.State != nil {
		entry.State = *update.State
	}
	if update.Pincode != nil {
		entry.Pincode = *update.Pincode
	}
	if update.Country != nil {
		entry.Country = *update.Country
	}
	if update.Phone != nil {
		entry.Phone = *update.Phone
	}

	if update.SetAsDefault == nil || *update.SetAsDefault {
		b.DefaultIndex = index
	}
	b.applyDefault()
	return nil
}

// Delete removes the entry at index and reports whether the whole book
// should be removed (the entry was the last one). Deleting the default
// entry elects the new last entry as default.
func (b *AddressBook) Delete(index int) (bookEmpty bool, err error) {
	if index < 0 || index >= len(b.Entries) {
		return false, ErrAddressNotFound
	}

	b.Entries = append(b.Entries[:index], b.Entries[index+1:]...)
	if len(b.Entries) == 0 {
		return true, nil
	}

	switch {
	case b.DefaultIndex == index:
		b.DefaultIndex = len(b.Entries) - 1
	case b.DefaultIndex > index:
		b.DefaultIndex--
	}
	b.applyDefault()
	return false, nil
}

// SetDefault marks the entry at index as the default address.
func (b *AddressBook) SetDefault(index int) error {
	if index < 0 || index >= len(b.Entries) {
		return ErrAddressNotFound
	}
	b.DefaultIndex = index
	b.applyDefault()
	return nil
}

// Default returns the current default entry.
func (b *AddressBook) Default() (Address, bool) {
	if len(b.Entries) == 0 || b.DefaultIndex < 0 || b.DefaultIndex >= len(b.Entries) {
		return Address{}, false
	}
	return b.Entries[b.DefaultIndex], true
}

// SortedDefaultFirst returns a copy of the entries with the default first.
func (b *AddressBook) SortedDefaultFirst() []Address {
	out := make([]Address, len(b.Entries))
	copy(out, b.Entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsDefault && !out[j].IsDefault
	})
	return out
}

func (b *AddressBook) applyDefault() {
	for i := range b.Entries {
		b.Entries[i].IsDefault = i == b.DefaultIndex
	}
}
