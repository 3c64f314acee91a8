package domain

import "time"

// Lawyer es un perfil del directorio de abogados consultable por filtros.
type Lawyer struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Specialization  string    `json:"specialization"`
	City            string    `json:"city"`
	Languages       []string  `json:"languages"`
	YearsExperience int       `json:"years_experience"`
	Rating          float64   `json:"rating"`
	ConsultationFee int       `json:"consultation_fee"`
	Verified        bool      `json:"verified"`
	CreatedAt       time.Time `json:"created_at"`
}

// MatchScore calcula el puntaje de ordenamiento del directorio.
// Es un placeholder ponderado, no un ranking real.
func (l *Lawyer) MatchScore() float64 {
	score := float64(l.YearsExperience)*0.4 + l.Rating*10*0.6
	if l.Verified {
		score += 5
	}
	return score
}

// LawyerFilter define los filtros opcionales de búsqueda del directorio.
type LawyerFilter struct {
	Specialization string
	City           string
	Language       string
	MaxFee         int
	Page           int
	PageSize       int
}
