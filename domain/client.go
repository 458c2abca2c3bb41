package domain

type Client struct {
	ID              int64  `db:"id" json:"id"`
	FullName        string `db:"full_name" json:"fullName" validate:"required"`
	BirthDate       string `db:"birth_date" json:"birthDate"`
	PhoneNumber     string `db:"phone_number" json:"phoneNumber"`
	Address         string `db:"address" json:"address"`
	PurchaseHistory string `db:"purchase_history" json:"purchaseHistory"`
}
