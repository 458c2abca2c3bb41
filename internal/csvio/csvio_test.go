package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pharmacy/m/domain"
)

func TestWriteUsesBOMAndSemicolons(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, MedicineHeader, [][]string{
		MedicineRow(domain.Medicine{Name: "Аспирин; 100", Form: "таблетки", Quantity: 20, Price: decimal.RequireFromString("4.5")}),
	})
	require.NoError(t, err)

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"))
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\ufeff")), "\n")
	require.Equal(t, "name;form;dosage;manufacturer;expiryDate;quantity;price", lines[0])
	require.Equal(t, `"Аспирин; 100";таблетки;;;;20;4.5`, lines[1])
}

func TestReadDetectsDelimiterAndSkipsBlankRows(t *testing.T) {
	comma := "name,quantity,price\nАнальгин,5,\"3,5\"\n,,\nЦитрамон,7,2\n"
	records, err := Read(strings.NewReader(comma))
	require.NoError(t, err)
	require.Len(t, records, 2)

	m, err := ParseMedicine(records[0])
	require.NoError(t, err)
	require.Equal(t, "Анальгин", m.Name)
	require.Equal(t, int64(5), m.Quantity)
	require.True(t, m.Price.Equal(decimal.RequireFromString("3.5")))

	semicolon := "\ufeffFullName;phoneNumber\n Иванов ;+7\n"
	records, err = Read(strings.NewReader(semicolon))
	require.NoError(t, err)
	require.Len(t, records, 1)
	c, err := ParseClient(records[0])
	require.NoError(t, err)
	require.Equal(t, "Иванов", c.FullName)
	require.Equal(t, "+7", c.PhoneNumber)
}

func TestReadRoundTripsWrite(t *testing.T) {
	supply := domain.Supply{SupplyNumber: "S-1", SupplyDate: "2024-01-10", MedicineList: "A, B", Quantity: 40, Supplier: "Протек"}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, SupplyHeader, [][]string{SupplyRow(supply)}))

	records, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	got, err := ParseSupply(records[0])
	require.NoError(t, err)
	require.Equal(t, supply, got)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	require.Error(t, err)

	records, err := Read(strings.NewReader("name;quantity\nX;lots\nY;10.0\n"))
	require.NoError(t, err)
	_, err = ParseMedicine(records[0])
	require.ErrorContains(t, err, "quantity")
	m, err := ParseMedicine(records[1])
	require.NoError(t, err)
	require.Equal(t, int64(10), m.Quantity)
}

func TestIntRejectsOutOfRange(t *testing.T) {
	rec := Record{"quantity": "9223372036854775807", "neg": "-1000000001", "max": "1000000000"}

	_, err := rec.Int("quantity")
	require.ErrorContains(t, err, "outside")
	_, err = rec.Int("neg")
	require.Error(t, err)
	n, err := rec.Int("max")
	require.NoError(t, err)
	require.Equal(t, int64(domain.MaxQuantity), n)
}

func TestSaleColumns(t *testing.T) {
	row, err := SaleRow(domain.Sale{
		ID:          7,
		SaleDate:    "2024-02-02",
		Medicines:   domain.MedicineIDs{2, 1},
		Quantities:  domain.Quantities{1: 1, 2: 3},
		TotalAmount: decimal.NewFromInt(31),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"7", "2024-02-02", "[2,1]", `{"1":1,"2":3}`, "31"}, row)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, SaleHeader, [][]string{row}))
	records, err := Read(&buf)
	require.NoError(t, err)
	in, err := ParseSale(records[0])
	require.NoError(t, err)
	require.Equal(t, "2024-02-02", in.SaleDate)
	require.Equal(t, []int64{2, 1}, in.Medicines)
	require.Equal(t, domain.Quantities{1: 1, 2: 3}, in.Quantities)

	_, err = ParseSale(Record{"saleDate": "2024-02-02", "medicines": "[oops"})
	require.ErrorContains(t, err, "medicines")
}
