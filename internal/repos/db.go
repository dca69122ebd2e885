package repos

import (
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// OpenDB opens the SQLite database and makes sure every table exists.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Each connection to :memory: is its own database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Device preferences (gateway)
CREATE TABLE IF NOT EXISTS preferences(
  device_id TEXT PRIMARY KEY,
  theme TEXT NOT NULL DEFAULT 'light',
  font_size TEXT NOT NULL DEFAULT 'medium',
  language TEXT NOT NULL DEFAULT 'es',
  updated_at TEXT
);

-- Accounts (mock auth services). Clients may be assigned to a seller.
CREATE TABLE IF NOT EXISTS accounts(
  id TEXT PRIMARY KEY,
  role TEXT NOT NULL CHECK (role IN ('cliente','vendedor')),
  email TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  zone TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  seller_id TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_role_email ON accounts(role, LOWER(email));
CREATE INDEX IF NOT EXISTS idx_accounts_seller ON accounts(seller_id);

-- Inventory (mock inventory service)
CREATE TABLE IF NOT EXISTS inventory(
  product_id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  sku INTEGER NOT NULL UNIQUE,
  qty INTEGER NOT NULL DEFAULT 0 CHECK (qty >= 0),
  updated_at TEXT
);

-- Orders (mock orders service)
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  client_id TEXT NOT NULL,
  seller_id TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL,
  latitude REAL,
  longitude REAL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDIENTE',
  idempotency_key TEXT UNIQUE,
  created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_lines(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  sku INTEGER NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, sku)
);
`
	_, err := db.Exec(schema)
	return err
}

// SeedDemo fills the mock backend tables with demo sellers, clients and
// stock. It does nothing when inventory already has rows.
func SeedDemo(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM inventory`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo accounts/inventory")

	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO accounts(id,role,email,name,phone,address,zone,password_hash,seller_id) VALUES
	  ('v-001','vendedor','ana.vendedora@ccp.test','Ana Vendedora','3001112233','','norte',?,NULL),
	  ('v-002','vendedor','luis.vendedor@ccp.test','Luis Vendedor','3004445566','','sur',?,NULL),
	  ('c-001','cliente','tienda.aurora@ccp.test','Tienda Aurora','6017654321','Calle 80 #12-34. Bogotá','',?,'v-001'),
	  ('c-002','cliente','ferreteria.sol@ccp.test','Ferretería El Sol','6011234567','Carrera 7 #45-10. Bogotá','',?,'v-001'),
	  ('c-003','cliente','drogueria.sur@ccp.test','Droguería Sur','6019876543','Avenida 68 #1-2. Bogotá','',?,'v-002')`,
		string(hash), string(hash), string(hash), string(hash), string(hash))

	tx.MustExec(`INSERT INTO inventory(product_id,name,price,sku,qty) VALUES
	  ('p-001','Tornillo hexagonal 1/4',10000,1001,120),
	  ('p-002','Tuerca de seguridad',20000,1002,40),
	  ('p-003','Arandela plana',1500,1003,500),
	  ('p-004','Taladro percutor',350000,1004,3),
	  ('p-005','Cinta aislante',4500,1005,0)`)

	return tx.Commit()
}
