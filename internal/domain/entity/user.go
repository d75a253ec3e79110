package entity

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleCliente = "cliente"
)

// User representa un usuario de la tienda. Aquí solo se lee; el CRUD vive fuera de este servicio.
type User struct {
	ID           int64
	Name         string
	LastName     string
	Email        string
	PasswordHash string // bcrypt
	Role         string
	Address      string
	Phone        string
	Status       string
}

// FullName nombre y apellido separados por espacio.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.Name
	}
	return u.Name + " " + u.LastName
}
