package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"laserquote/internal/models"
)

// Simulation tariffs, kept aligned with the production calculator so the
// fallback stays plausible for development and demos.
const (
	materialRatePerMM2 = 0.012
	cuttingRatePerMM2  = 0.008
	setupCost          = 15.0
	standardShipping   = 12.50

	defaultArea = 5000.0

	simulatedEstimatedTime = "3-5 días laborables"
	quoteValidity          = 30 * 24 * time.Hour
)

var areaPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// extractArea parses the numeric part out of an "X mm²" string, falling back
// to a nominal sheet when the field is missing or malformed.
func extractArea(areaMaterial string) float64 {
	match := areaPattern.FindStringSubmatch(areaMaterial)
	if match == nil {
		return defaultArea
	}
	area, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return defaultArea
	}
	return area
}

func roundMoney(v float64) float64 {
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return rounded
}

// simulatedQuote prices a request locally: per-mm² material and cutting rates
// plus a flat setup fee, and standard shipping only for the envío variant.
func simulatedQuote(req QuoteRequest, now time.Time) *QuoteData {
	area := extractArea(req.Pedido.AreaMaterial)

	materialCost := area * materialRatePerMM2
	cuttingCost := area * cuttingRatePerMM2
	deliveryCost := 0.0
	if req.Entrega != nil && req.Entrega.Tipo == models.DeliveryShipping {
		deliveryCost = standardShipping
	}
	total := materialCost + cuttingCost + setupCost + deliveryCost

	breakdown := Breakdown{
		MaterialCost: roundMoney(materialCost),
		CuttingCost:  roundMoney(cuttingCost),
		SetupCost:    setupCost,
	}
	if deliveryCost > 0 {
		cost := deliveryCost
		breakdown.DeliveryCost = &cost
	}

	info := &DeliveryInfo{Type: "pickup"}
	if req.Entrega != nil {
		if req.Entrega.Tipo == models.DeliveryShipping {
			info.Type = "delivery"
		}
		info.Location = req.Entrega.Taller
		if req.Entrega.Direccion != nil {
			info.Address = fmt.Sprintf("%s, %s", req.Entrega.Direccion.Street, req.Entrega.Direccion.City)
		}
	}

	return &QuoteData{
		TotalPrice:    roundMoney(total),
		Breakdown:     breakdown,
		EstimatedTime: simulatedEstimatedTime,
		DeliveryInfo:  info,
		QuoteID:       fmt.Sprintf("SIM-%d", now.UnixMilli()),
		ValidUntil:    now.Add(quoteValidity).UTC().Format(time.RFC3339),
	}
}
