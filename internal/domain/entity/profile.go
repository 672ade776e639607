package entity

import (
	"bytes"
	"encoding/json"
)

// Profile representa o registro do cliente autenticado devolvido pelo backend.
// Apenas Email é lido por esta camada; o registro completo é preservado em raw
// para que volte ao armazenamento exatamente como foi recebido.
type Profile struct {
	ID          int    `json:"id,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Email       string `json:"email"`
	ContactName string `json:"contact_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	IsActive    bool   `json:"is_active,omitempty"`

	raw json.RawMessage
}

// profileFields evita recursão em UnmarshalJSON/MarshalJSON.
type profileFields Profile

// UnmarshalJSON decodes the known fields and keeps the original bytes.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var fields profileFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*p = Profile(fields)
	p.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}

// MarshalJSON devolve o registro original quando disponível.
func (p Profile) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	return json.Marshal(profileFields(p))
}

// Raw returns the backend record as received, or nil for profiles built in code.
func (p Profile) Raw() json.RawMessage {
	return p.raw
}
