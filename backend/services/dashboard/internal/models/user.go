package models

// User is an account. Password is only ever sent to the API and is dropped from rendered views
// with Public.
type User struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// Public returns a copy without the password.
func (u User) Public() User {
	u.Password = ""
	return u
}

// LoginRequest is the credential payload of the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the backend bearer token and its expiry in epoch millis.
type LoginResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Token   string `json:"token"`
	Expires int64  `json:"expires"`
}

// User projects the response onto the account record.
func (r LoginResponse) User() User {
	return User{ID: r.ID, Name: r.Name, Email: r.Email, Role: r.Role}
}
