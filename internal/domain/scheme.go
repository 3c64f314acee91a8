package domain

// SchemeMatch es la salida tipada del matching de esquemas gubernamentales.
// El JSON crudo del proveedor nunca se propaga más allá de este tipo.
type SchemeMatch struct {
	Name        string `json:"name"`
	Ministry    string `json:"ministry,omitempty"`
	Eligibility string `json:"eligibility"`
	Benefits    string `json:"benefits"`
	ApplyURL    string `json:"apply_url,omitempty"`
	Relevance   string `json:"relevance"`
}
