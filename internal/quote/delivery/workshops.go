package delivery

import "strings"

// Workshop is a pickup location. Pickup is always free; the listed
// delivery time is how long fabrication plus handover takes.
type Workshop struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	City         string   `json:"city"`
	Address      string   `json:"address"`
	DeliveryTime string   `json:"delivery_time"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	Hours        Schedule `json:"hours"`
}

type Schedule struct {
	Weekdays string `json:"weekdays"`
	Saturday string `json:"saturday"`
	Sunday   string `json:"sunday"`
}

var workshops = []Workshop{
	{
		ID:           "bcn",
		Name:         "Taller Barcelona",
		City:         "Barcelona",
		Address:      "Carrer de la Indústria, 123, 08025 Barcelona",
		DeliveryTime: "2-3 días laborables",
		Phone:        "+34 934 567 890",
		Email:        "barcelona@arkcutt.com",
		Hours:        Schedule{Weekdays: "9:00 - 18:00", Saturday: "9:00 - 14:00", Sunday: "Cerrado"},
	},
	{
		ID:           "mad",
		Name:         "Taller Madrid",
		City:         "Madrid",
		Address:      "Calle de la Manufactura, 456, 28045 Madrid",
		DeliveryTime: "2-3 días laborables",
		Phone:        "+34 915 678 901",
		Email:        "madrid@arkcutt.com",
		Hours:        Schedule{Weekdays: "8:30 - 18:30", Saturday: "9:00 - 14:00", Sunday: "Cerrado"},
	},
	{
		ID:           "mlg",
		Name:         "Taller Málaga",
		City:         "Málaga",
		Address:      "Polígono Industrial San Luis, Nave 12, 29006 Málaga",
		DeliveryTime: "2-3 días laborables",
		Phone:        "+34 952 345 678",
		Email:        "malaga@arkcutt.com",
		Hours:        Schedule{Weekdays: "8:00 - 17:00", Saturday: "9:00 - 13:00", Sunday: "Cerrado"},
	},
}

// Workshops returns the pickup workshop catalog.
func Workshops() []Workshop {
	out := make([]Workshop, len(workshops))
	copy(out, workshops)
	return out
}

// WorkshopByID looks up a workshop by its short id ("bcn", "mad", "mlg").
func WorkshopByID(id string) (Workshop, bool) {
	for _, w := range workshops {
		if w.ID == id {
			return w, true
		}
	}
	return Workshop{}, false
}

// WorkshopsByCity returns workshops whose city contains the given substring,
// case-insensitively.
func WorkshopsByCity(city string) []Workshop {
	var out []Workshop
	for _, w := range workshops {
		if strings.Contains(strings.ToLower(w.City), strings.ToLower(city)) {
			out = append(out, w)
		}
	}
	return out
}
