package pricing

import (
	"strconv"

	"laserquote/internal/models"
	"laserquote/internal/quote/analysis"
)

// BuildRequest assembles the calculator document from the wizard's collected
// state. It is a pure transform: no validation, no I/O.
func BuildRequest(contact models.ContactInfo, material models.MaterialSelection, result analysis.Result, delivery *models.DeliverySelection) QuoteRequest {
	req := QuoteRequest{
		Cliente: ClienteSection{
			NombreYApellidos: contact.FullName,
			Mail:             contact.Email,
			NumeroDeTelefono: contact.Phone,
		},
		Pedido: PedidoSection{
			MaterialSeleccionado: material.Material,
			AreaMaterial:         strconv.FormatFloat(result.BoundingBox.Area, 'f', -1, 64) + " mm²",
			QuienProporciona: MaterialProvider{
				MaterialSeleccionado: material.Material,
				Grosor:               material.Thickness,
				Color:                material.Color,
			},
			Capas: result.Layers,
		},
	}

	if delivery != nil && !delivery.IsZero() {
		entrega := EntregaSection{Tipo: delivery.Type()}
		if id, ok := delivery.WorkshopID(); ok {
			entrega.Taller = id
		}
		if addr, ok := delivery.Address(); ok {
			entrega.Direccion = &addr
		}
		req.Entrega = &entrega
	}
	return req
}
