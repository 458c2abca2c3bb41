package domain

type Supply struct {
	ID           int64  `db:"id" json:"id"`
	SupplyNumber string `db:"supply_number" json:"supplyNumber" validate:"required"`
	SupplyDate   string `db:"supply_date" json:"supplyDate"`
	MedicineList string `db:"medicine_list" json:"medicineList"`
	Quantity     int64  `db:"quantity" json:"quantity"`
	Supplier     string `db:"supplier" json:"supplier"`
}
