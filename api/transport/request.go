package transport

// CreateTodoRequest is the POST /todos body. Only text is accepted: the
// server assigns id and createdAt and forces completed to false.
type CreateTodoRequest struct {
	Text string `json:"text"`
}

// SignupRequest is the POST /signup body.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}
