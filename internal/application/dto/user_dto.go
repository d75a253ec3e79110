package dto

// LoginRequest entrada para login.
type LoginRequest struct {
	Correo   string `json:"correo" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y datos básicos del usuario.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"`
	Usuario   UserResponse `json:"usuario"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	IDUsuario int64  `json:"idUsuario"`
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Correo    string `json:"correo"`
	Rol       string `json:"rol"`
}
