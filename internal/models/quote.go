// Package models holds the user-supplied domain types shared across the
// quote pipeline.
package models

// ContactInfo identifies the requester. Fields are validated for
// non-emptiness only; format checking is deliberately out of scope.
type ContactInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Complete reports whether all three contact fields are filled.
func (c ContactInfo) Complete() bool {
	return c.FullName != "" && c.Email != "" && c.Phone != ""
}

// MaterialSelection is the user's material choice. Thickness carries its
// unit suffix, e.g. "3mm".
type MaterialSelection struct {
	Material  string `json:"material"`
	Thickness string `json:"thickness"`
	Color     string `json:"color"`
}

// Complete reports whether material and thickness are selected.
func (m MaterialSelection) Complete() bool {
	return m.Material != "" && m.Thickness != ""
}

// DeliveryType discriminates the two delivery variants.
type DeliveryType string

const (
	DeliveryPickup   DeliveryType = "recogida"
	DeliveryShipping DeliveryType = "envio"
)

// ShippingAddress is a Spanish street address for courier delivery.
type ShippingAddress struct {
	Street     string `json:"calle"`
	City       string `json:"ciudad"`
	PostalCode string `json:"codigo_postal"`
	Province   string `json:"provincia"`
}

// Complete reports whether every address field is filled.
func (a ShippingAddress) Complete() bool {
	return a.Street != "" && a.City != "" && a.PostalCode != "" && a.Province != ""
}

// DeliverySelection is a two-variant tagged union: pickup at a workshop or
// shipping to an address. The constructors are the only way to build a
// populated value, so both-or-neither states are unrepresentable.
type DeliverySelection struct {
	kind       DeliveryType
	workshopID string
	address    ShippingAddress
}

// Pickup selects collection at one of the workshops.
func Pickup(workshopID string) DeliverySelection {
	return DeliverySelection{kind: DeliveryPickup, workshopID: workshopID}
}

// Shipping selects courier delivery to the given address.
func Shipping(address ShippingAddress) DeliverySelection {
	return DeliverySelection{kind: DeliveryShipping, address: address}
}

// Type returns the variant tag, or "" for the zero value.
func (d DeliverySelection) Type() DeliveryType {
	return d.kind
}

// IsZero reports whether no variant has been selected.
func (d DeliverySelection) IsZero() bool {
	return d.kind == ""
}

// WorkshopID returns the pickup workshop id when the pickup variant is set.
func (d DeliverySelection) WorkshopID() (string, bool) {
	if d.kind != DeliveryPickup {
		return "", false
	}
	return d.workshopID, true
}

// Address returns the shipping address when the shipping variant is set.
func (d DeliverySelection) Address() (ShippingAddress, bool) {
	if d.kind != DeliveryShipping {
		return ShippingAddress{}, false
	}
	return d.address, true
}

// Complete reports whether the selection is usable: a pickup with a
// workshop id, or a shipping selection with a full address.
func (d DeliverySelection) Complete() bool {
	switch d.kind {
	case DeliveryPickup:
		return d.workshopID != ""
	case DeliveryShipping:
		return d.address.Complete()
	default:
		return false
	}
}
