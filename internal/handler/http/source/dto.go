package source

// DTO is the public shape of a configured news source. Endpoint details
// stay server-side; clients only need identity and the freshness policy.
type DTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	FirstPageOnly bool   `json:"firstPageOnly,omitempty"`
	MaxAgeDays    int    `json:"maxAgeDays,omitempty"`
}
