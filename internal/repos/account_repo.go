package repos

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"ccp/internal/domain"
)

var ErrDuplicateEmail = errors.New("email already registered")

type AccountRepo struct{ DB *sqlx.DB }

func NewAccountRepo(db *sqlx.DB) *AccountRepo { return &AccountRepo{DB: db} }

// Account is a stored client or seller with its password hash.
type Account struct {
	domain.Profile
	Hash     string         `db:"password_hash"`
	SellerID sql.NullString `db:"seller_id"`
}

const accountCols = `id, role, email, name, phone, address, zone, password_hash, seller_id`

func (r *AccountRepo) ByEmail(role domain.Role, email string) (*Account, error) {
	var a Account
	err := r.DB.Get(&a, `SELECT `+accountCols+` FROM accounts WHERE role = ? AND LOWER(email) = LOWER(?)`, role, email)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) ByID(role domain.Role, id string) (*Account, error) {
	var a Account
	err := r.DB.Get(&a, `SELECT `+accountCols+` FROM accounts WHERE role = ? AND id = ?`, role, id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create stores a new account and returns its id.
func (r *AccountRepo) Create(role domain.Role, reg domain.Registration, hash string) (string, error) {
	if _, err := r.ByEmail(role, reg.Email); err == nil {
		return "", ErrDuplicateEmail
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	id := uuid.NewString()
	_, err := r.DB.Exec(`
		INSERT INTO accounts(id, role, email, name, phone, address, zone, password_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, role, reg.Email, reg.Name, reg.Phone, reg.Address, reg.Zone, hash)
	if err != nil {
		return "", err
	}
	return id, nil
}

// AssignSeller links a client account to the seller that visits it.
func (r *AccountRepo) AssignSeller(clientID, sellerID string) error {
	_, err := r.DB.Exec(`UPDATE accounts SET seller_id = ? WHERE id = ? AND role = 'cliente'`, sellerID, clientID)
	return err
}

// CustomersOf lists the clients assigned to a seller.
func (r *AccountRepo) CustomersOf(sellerID string) ([]domain.Customer, error) {
	out := []domain.Customer{}
	err := r.DB.Select(&out, `
		SELECT id, name, address, phone, email
		FROM accounts
		WHERE role = 'cliente' AND seller_id = ?
		ORDER BY name
	`, sellerID)
	return out, err
}
