package auth

// Identity is the verified per-request claim set attached after the auth
// gate succeeds. Read-only for the rest of request handling.
type Identity struct {
	CustomerID string
	Email      string
	Username   string
	Phone      string
	Image      string
	IsAdmin    bool
}

// Identity converts verified claims into the request identity.
func (c *Claims) Identity() Identity {
	return Identity{
		CustomerID: c.SubjectID(),
		Email:      c.Email,
		Username:   c.Username,
		Phone:      c.Phone,
		Image:      c.Image,
		IsAdmin:    c.IsAdmin,
	}
}
