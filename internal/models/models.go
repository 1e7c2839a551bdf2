package models

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"

	OrderStatusPending = "pending"
	OrderStatusShipped = "shipt"
)

type Account struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Email        string `gorm:"uniqueIndex;not null"      json:"email"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"not null;default:customer" json:"role"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string  `gorm:"not null"                  json:"name"`
	Description string  `gorm:"not null"                  json:"description"`
	Price       float64 `gorm:"not null"                  json:"price"`
	Count       uint    `json:"count"`
}

type Review struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string `gorm:"index"                    json:"email"`
	Name      string `json:"name"`
	Rating    uint   `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt int64  `json:"created_at"`
}

type Order struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email         string  `gorm:"index;not null"           json:"email"`
	Product       string  `gorm:"not null"                 json:"product"`
	Price         float64 `gorm:"not null"                 json:"price"`
	Paid          bool    `gorm:"default:false"            json:"paid"`
	Status        string  `gorm:"not null"                 json:"status"`
	TransactionID string  `json:"transactionId"`
	CreatedAt     int64   `json:"created_at"`
}

// Payment rows are append-only: written once per confirmed charge, never
// updated or deleted. The unique index on TransactionID keeps a repeated
// confirmation from producing a second ledger entry.
type Payment struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID string  `gorm:"uniqueIndex;not null"     json:"transactionId"`
	OrderID       uint    `gorm:"index;not null"           json:"order_id"`
	Amount        float64 `gorm:"not null"                 json:"amount"`
	CreatedAt     int64   `gorm:"not null"                 json:"created_at"`
}
