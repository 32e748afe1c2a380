// Package model holds the data exchanged between the HTTP layer, the service and storage.
package model

// MemberRecord is the registration data submitted for one document generation request.
// It is never persisted; the JSON names match the placeholders in the member template.
type MemberRecord struct {
	Name         string `json:"name" yaml:"name" validate:"required" survey:"name"`
	IDCardNumber string `json:"idCardNumber" yaml:"idCardNumber" validate:"required" survey:"idCardNumber"`
	Email        string `json:"email" yaml:"email" validate:"required" survey:"email"`
	Phone        string `json:"phone" yaml:"phone" validate:"required" survey:"phone"`
	Address      string `json:"address" yaml:"address" validate:"required" survey:"address"`
}

// Fields returns the record keyed by template placeholder name.
func (m MemberRecord) Fields() map[string]string {
	return map[string]string{
		"name":         m.Name,
		"idCardNumber": m.IDCardNumber,
		"email":        m.Email,
		"phone":        m.Phone,
		"address":      m.Address,
	}
}
