package domain

// Recipe is a prescription issued to a patient.
type Recipe struct {
	ID                  int64  `db:"id" json:"id"`
	RecipeNumber        string `db:"recipe_number" json:"recipeNumber" validate:"required"`
	IssueDate           string `db:"issue_date" json:"issueDate"`
	PatientName         string `db:"patient_name" json:"patientName"`
	PrescribedMedicines string `db:"prescribed_medicines" json:"prescribedMedicines"`
	ExpiryDate          string `db:"expiry_date" json:"expiryDate"`
}
