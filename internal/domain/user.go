package domain

// Role selects the application a session belongs to.
type Role string

const (
	RoleClient Role = "cliente"
	RoleSeller Role = "vendedor"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleClient, "":
		return RoleClient, true
	case RoleSeller:
		return RoleSeller, true
	}
	return "", false
}

type Credentials struct {
	Email    string `json:"correo"`
	Password string `json:"contrasena"`
}

// Registration is the signup body for both clients and sellers. Zone only
// applies to sellers, Address only to clients.
type Registration struct {
	Name     string `json:"nombre"`
	Email    string `json:"correo"`
	Password string `json:"contrasena"`
	Phone    string `json:"telefono,omitempty"`
	Address  string `json:"direccion,omitempty"`
	Zone     string `json:"zona,omitempty"`
}

func (r Registration) Credentials() Credentials {
	return Credentials{Email: r.Email, Password: r.Password}
}

type Profile struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"nombre" db:"name"`
	Email   string `json:"correo" db:"email"`
	Phone   string `json:"telefono,omitempty" db:"phone"`
	Address string `json:"direccion,omitempty" db:"address"`
	Zone    string `json:"zona,omitempty" db:"zone"`
	Role    Role   `json:"rol,omitempty" db:"role"`
}
