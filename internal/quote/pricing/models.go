package pricing

import (
	"laserquote/internal/models"
	"laserquote/internal/quote/analysis"
)

// QuoteRequest is the document the quote calculator expects. Field names are
// the Spanish labels the backend indexes on, so the json tags are load-bearing.
type QuoteRequest struct {
	Cliente ClienteSection  `json:"Cliente"`
	Pedido  PedidoSection   `json:"Pedido"`
	Entrega *EntregaSection `json:"Entrega,omitempty"`
}

type ClienteSection struct {
	NombreYApellidos string `json:"Nombre y Apellidos"`
	Mail             string `json:"Mail"`
	NumeroDeTelefono string `json:"Número de Teléfono"`
}

type PedidoSection struct {
	MaterialSeleccionado string           `json:"Material seleccionado"`
	AreaMaterial         string           `json:"Area material"`
	QuienProporciona     MaterialProvider `json:"¿Quién proporciona el material?"`
	Capas                []analysis.Layer `json:"Capas"`
}

// MaterialProvider nests the material sheet details the calculator prices on.
type MaterialProvider struct {
	MaterialSeleccionado string `json:"Material seleccionado"`
	Grosor               string `json:"Grosor"`
	Color                string `json:"Color"`
}

type EntregaSection struct {
	Tipo      models.DeliveryType     `json:"tipo"`
	Taller    string                  `json:"taller,omitempty"`
	Direccion *models.ShippingAddress `json:"direccion,omitempty"`
}

// QuoteResult is what callers get back. Success=false with a populated Data
// means the price came from the local simulation, not the backend.
type QuoteResult struct {
	Success bool       `json:"success"`
	Data    *QuoteData `json:"data,omitempty"`
	Error   string     `json:"error,omitempty"`
	Message string     `json:"message,omitempty"`
}

type QuoteData struct {
	TotalPrice          float64       `json:"total_price"`
	Breakdown           Breakdown     `json:"breakdown"`
	EstimatedTime       string        `json:"estimated_time"`
	DeliveryInfo        *DeliveryInfo `json:"delivery_info,omitempty"`
	QuoteID             string        `json:"quote_id"`
	ValidUntil          string        `json:"valid_until"`
	PersonalizedMessage string        `json:"personalized_message,omitempty"`
}

type Breakdown struct {
	MaterialCost float64  `json:"material_cost"`
	CuttingCost  float64  `json:"cutting_cost"`
	SetupCost    float64  `json:"setup_cost"`
	DeliveryCost *float64 `json:"delivery_cost,omitempty"`
}

type DeliveryInfo struct {
	Type     string `json:"type"`
	Location string `json:"location,omitempty"`
	Address  string `json:"address,omitempty"`
}
