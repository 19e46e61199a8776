package models

import "encoding/json"

// deliveryWire is the JSON shape shared with the pricing service and the
// session store: {tipo, taller?, direccion?}.
type deliveryWire struct {
	Tipo      DeliveryType     `json:"tipo"`
	Taller    string           `json:"taller,omitempty"`
	Direccion *ShippingAddress `json:"direccion,omitempty"`
}

func (d DeliverySelection) MarshalJSON() ([]byte, error) {
	wire := deliveryWire{Tipo: d.kind}
	switch d.kind {
	case DeliveryPickup:
		wire.Taller = d.workshopID
	case DeliveryShipping:
		address := d.address
		wire.Direccion = &address
	}
	return json.Marshal(wire)
}

func (d *DeliverySelection) UnmarshalJSON(data []byte) error {
	var wire deliveryWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Tipo {
	case DeliveryPickup:
		*d = Pickup(wire.Taller)
	case DeliveryShipping:
		if wire.Direccion != nil {
			*d = Shipping(*wire.Direccion)
		} else {
			*d = DeliverySelection{kind: DeliveryShipping}
		}
	default:
		*d = DeliverySelection{}
	}
	return nil
}
