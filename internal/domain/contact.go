package domain

import "strings"

// Contact is a directory record handled by the generic bulk importer.
// First/last name are stored upper-cased; the case-insensitive name pair is
// the only identity signal available for duplicate detection.
type Contact struct {
	ID        string `json:"-"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Normalize upper-cases the name fields and trims the rest.
func (c *Contact) Normalize() {
	c.FirstName = strings.ToUpper(strings.TrimSpace(c.FirstName))
	c.LastName = strings.ToUpper(strings.TrimSpace(c.LastName))
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Role = strings.TrimSpace(c.Role)
}

// NameKey is the duplicate-detection identity: the case-insensitive
// (firstName, lastName) pair.
func (c Contact) NameKey() string {
	return strings.ToLower(strings.TrimSpace(c.FirstName)) + "\x00" +
		strings.ToLower(strings.TrimSpace(c.LastName))
}
