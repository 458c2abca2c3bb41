package csvio

import (
	"encoding/json"
	"fmt"
	"strconv"

	"pharmacy/m/domain"
	"pharmacy/m/internal/sales"
)

// Column sets follow the browser UI field names. Only sales keep the id so a
// sale export can be matched back to its row.
var (
	MedicineHeader = []string{"name", "form", "dosage", "manufacturer", "expiryDate", "quantity", "price"}
	ClientHeader   = []string{"fullName", "birthDate", "phoneNumber", "address", "purchaseHistory"}
	RecipeHeader   = []string{"recipeNumber", "issueDate", "patientName", "prescribedMedicines", "expiryDate"}
	SupplyHeader   = []string{"supplyNumber", "supplyDate", "medicineList", "quantity", "supplier"}
	SaleHeader     = []string{"id", "saleDate", "medicines", "quantities", "totalAmount"}
)

func MedicineRow(m domain.Medicine) []string {
	return []string{m.Name, m.Form, m.Dosage, m.Manufacturer, m.ExpiryDate, strconv.FormatInt(m.Quantity, 10), m.Price.String()}
}

func ParseMedicine(r Record) (domain.Medicine, error) {
	qty, err := r.Int("quantity")
	if err != nil {
		return domain.Medicine{}, err
	}
	price, err := r.Decimal("price")
	if err != nil {
		return domain.Medicine{}, err
	}
	return domain.Medicine{
		Name:         r.Get("name"),
		Form:         r.Get("form"),
		Dosage:       r.Get("dosage"),
		Manufacturer: r.Get("manufacturer"),
		ExpiryDate:   r.Get("expiryDate"),
		Quantity:     qty,
		Price:        price,
	}, nil
}

func ClientRow(c domain.Client) []string {
	return []string{c.FullName, c.BirthDate, c.PhoneNumber, c.Address, c.PurchaseHistory}
}

func ParseClient(r Record) (domain.Client, error) {
	return domain.Client{
		FullName:        r.Get("fullName"),
		BirthDate:       r.Get("birthDate"),
		PhoneNumber:     r.Get("phoneNumber"),
		Address:         r.Get("address"),
		PurchaseHistory: r.Get("purchaseHistory"),
	}, nil
}

func RecipeRow(rc domain.Recipe) []string {
	return []string{rc.RecipeNumber, rc.IssueDate, rc.PatientName, rc.PrescribedMedicines, rc.ExpiryDate}
}

func ParseRecipe(r Record) (domain.Recipe, error) {
	return domain.Recipe{
		RecipeNumber:        r.Get("recipeNumber"),
		IssueDate:           r.Get("issueDate"),
		PatientName:         r.Get("patientName"),
		PrescribedMedicines: r.Get("prescribedMedicines"),
		ExpiryDate:          r.Get("expiryDate"),
	}, nil
}

func SupplyRow(s domain.Supply) []string {
	return []string{s.SupplyNumber, s.SupplyDate, s.MedicineList, strconv.FormatInt(s.Quantity, 10), s.Supplier}
}

func ParseSupply(r Record) (domain.Supply, error) {
	qty, err := r.Int("quantity")
	if err != nil {
		return domain.Supply{}, err
	}
	return domain.Supply{
		SupplyNumber: r.Get("supplyNumber"),
		SupplyDate:   r.Get("supplyDate"),
		MedicineList: r.Get("medicineList"),
		Quantity:     qty,
		Supplier:     r.Get("supplier"),
	}, nil
}

// SaleRow encodes the item columns as JSON, as the UI does.
func SaleRow(s domain.Sale) ([]string, error) {
	medicines, err := s.Medicines.Value()
	if err != nil {
		return nil, err
	}
	quantities, err := s.Quantities.Value()
	if err != nil {
		return nil, err
	}
	return []string{
		strconv.FormatInt(s.ID, 10),
		s.SaleDate,
		medicines.(string),
		quantities.(string),
		s.TotalAmount.String(),
	}, nil
}

// ParseSale decodes a sale row into engine input. The id and total columns
// are ignored: imported rows become new sales priced at current prices.
func ParseSale(r Record) (sales.Input, error) {
	in := sales.Input{SaleDate: r.Get("saleDate")}
	if raw := r.Get("medicines"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Medicines); err != nil {
			return sales.Input{}, fmt.Errorf("medicines: %w", err)
		}
	}
	if raw := r.Get("quantities"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Quantities); err != nil {
			return sales.Input{}, fmt.Errorf("quantities: %w", err)
		}
	}
	return in, nil
}
