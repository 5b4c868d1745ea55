package model

// Principal is the authenticated caller of one request, resolved from its session.
type Principal struct {
	UserID   uint     `json:"userId"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

func (p *Principal) Can(c Capability) bool {
	return p != nil && p.Role.Can(c)
}
