package domain

// CreateClientRequest is the body of POST /api/clients and one element of
// POST /api/clients/bulk. Nil optional fields are sent as JSON null.
type CreateClientRequest struct {
	FullName    string  `json:"fullName" validate:"required,maxlen=255"`
	DisplayName *string `json:"displayName" validate:"omitempty,maxlen=255"`
	Email       string  `json:"email" validate:"required,clientemail,maxlen=255"`
	Details     *string `json:"details" validate:"omitempty,maxlen=1000"`
	Active      *bool   `json:"active"`
	Location    *string `json:"location" validate:"omitempty,maxlen=255"`
}

// UpdateClientRequest is the body of PUT /api/clients/{id}
type UpdateClientRequest struct {
	FullName    string  `json:"fullName" validate:"required,maxlen=255"`
	DisplayName *string `json:"displayName" validate:"omitempty,maxlen=255"`
	Email       string  `json:"email" validate:"required,clientemail,maxlen=255"`
	Details     *string `json:"details" validate:"omitempty,maxlen=1000"`
	Active      *bool   `json:"active"`
	Location    *string `json:"location" validate:"omitempty,maxlen=255"`
}

// CreateDraftRequest is the body of POST /api/drafts
type CreateDraftRequest struct {
	FullName    string  `json:"fullName" validate:"required,maxlen=255"`
	DisplayName *string `json:"displayName" validate:"omitempty,maxlen=255"`
	Email       string  `json:"email" validate:"required,clientemail,maxlen=255"`
	Details     *string `json:"details" validate:"omitempty,maxlen=1000"`
	Active      *bool   `json:"active"`
	Location    *string `json:"location" validate:"omitempty,maxlen=255"`
}

// UpdateDraftRequest is the body of PUT /api/drafts/{id}
type UpdateDraftRequest struct {
	FullName    string  `json:"fullName" validate:"required,maxlen=255"`
	DisplayName *string `json:"displayName" validate:"omitempty,maxlen=255"`
	Email       string  `json:"email" validate:"required,clientemail,maxlen=255"`
	Details     *string `json:"details" validate:"omitempty,maxlen=1000"`
	Active      *bool   `json:"active"`
	Location    *string `json:"location" validate:"omitempty,maxlen=255"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email string `json:"email" validate:"required,clientemail"`
}

// OptionalString returns nil for an empty string so it goes out as null
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences s, treating nil as ""
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToUpdateRequest converts a create payload to the equivalent update payload
func (r CreateClientRequest) ToUpdateRequest() UpdateClientRequest {
	return UpdateClientRequest(r)
}

// ClientRequestFrom builds a create payload from an existing client
func ClientRequestFrom(c Client) CreateClientRequest {
	active := c.Active
	return CreateClientRequest{
		FullName:    c.FullName,
		DisplayName: OptionalString(c.DisplayName),
		Email:       c.Email,
		Details:     OptionalString(c.Details),
		Active:      &active,
		Location:    OptionalString(c.Location),
	}
}

// PostRequest builds the client payload used when a draft is posted as a client.
// Absent optional values become empty strings rather than null.
func (d Draft) PostRequest() CreateClientRequest {
	active := d.Active
	displayName, details, location := d.DisplayName, d.Details, d.Location
	return CreateClientRequest{
		FullName:    d.FullName,
		DisplayName: &displayName,
		Email:       d.Email,
		Details:     &details,
		Active:      &active,
		Location:    &location,
	}
}
