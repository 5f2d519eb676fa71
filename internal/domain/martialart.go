package domain

import (
	"time"
)

// MartialArt represents one catalog entry. JSON field names follow the
// public API contract, which is in Spanish.
type MartialArt struct {
	ID              string    `json:"id"`
	Name            string    `json:"nombre"`
	Slug            string    `json:"slug"`
	CountryOfOrigin string    `json:"paisProcedencia"`
	AgeOfOrigin     string    `json:"edadOrigen"`
	Type            string    `json:"tipo"`
	Distances       []string  `json:"distanciasTrabajadas"`
	Weapons         []string  `json:"armas"`
	ContactType     string    `json:"tipoContacto"`
	Focus           string    `json:"focus"`
	Strengths       []string  `json:"fortalezas"`
	Weaknesses      []string  `json:"debilidades"`
	PhysicalDemands string    `json:"demandasFisicas"`
	Techniques      []string  `json:"tecnicas"`
	Philosophy      string    `json:"filosofia"`
	History         string    `json:"historia"`
	Images          []string  `json:"imagenes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
