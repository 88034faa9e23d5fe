package core

import (
	"errors"
	"testing"
)

const testUser = "6f2a3bb0-5c4e-4f3a-9d0e-111122223333"

func TestIncomeTemplate_Validate(t *testing.T) {
	valid := IncomeTemplate{
		UserID:     testUser,
		Amount:     Money{Cents: 300000},
		DayOfMonth: 25,
		Memo:       "salary",
	}

	tests := []struct {
		name    string
		mutate  func(*IncomeTemplate)
		wantErr error
	}{
		{name: "valid", mutate: func(*IncomeTemplate) {}, wantErr: nil},
		{name: "missing user", mutate: func(tpl *IncomeTemplate) { tpl.UserID = " " }, wantErr: ErrEmptyUserID},
		{name: "day too low", mutate: func(tpl *IncomeTemplate) { tpl.DayOfMonth = 0 }, wantErr: ErrInvalidDay},
		{name: "day too high", mutate: func(tpl *IncomeTemplate) { tpl.DayOfMonth = 32 }, wantErr: ErrInvalidDay},
		{name: "day 31 is nominal and allowed", mutate: func(tpl *IncomeTemplate) { tpl.DayOfMonth = 31 }, wantErr: nil},
		{name: "zero amount", mutate: func(tpl *IncomeTemplate) { tpl.Amount = Money{} }, wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := valid
			tt.mutate(&tpl)
			if err := tpl.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFixedCostTemplate_Validate(t *testing.T) {
	valid := FixedCostTemplate{
		UserID:     testUser,
		Memo:       "rent",
		Category:   "HOUSE",
		Amount:     Money{Cents: 50000},
		DayOfMonth: 31,
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	noCategory := valid
	noCategory.Category = ""
	if err := noCategory.Validate(); !errors.Is(err, ErrEmptyCategory) {
		t.Errorf("Validate() = %v, want %v", err, ErrEmptyCategory)
	}

	negative := valid
	negative.Amount = Money{Cents: -1}
	if err := negative.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Validate() = %v, want %v", err, ErrInvalidAmount)
	}
}

func TestIncome_Validate(t *testing.T) {
	dated := Income{UserID: testUser, Amount: Money{Cents: 1000}, IncomeDay: "2024-04-30"}
	if err := dated.Validate(); err != nil {
		t.Errorf("Validate() dated income: %v", err)
	}

	// An empty IncomeDay marks the user's initial balance row.
	initial := Income{UserID: testUser, Amount: Money{Cents: 1000}}
	if err := initial.Validate(); err != nil {
		t.Errorf("Validate() initial balance income: %v", err)
	}

	malformed := Income{UserID: testUser, Amount: Money{Cents: 1000}, IncomeDay: "31"}
	if err := malformed.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Validate() = %v, want %v", err, ErrInvalidDate)
	}
}

func TestExpense_Validate(t *testing.T) {
	valid := Expense{
		UserID:      testUser,
		PaymentDate: "2024-02-29",
		Memo:        "rent",
		Category:    "HOUSE",
		Amount:      Money{Cents: 50000},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	badDate := valid
	badDate.PaymentDate = "2024-2-29"
	if err := badDate.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Validate() = %v, want %v", err, ErrInvalidDate)
	}
}

func TestCategory_Validate(t *testing.T) {
	valid := Category{UserID: testUser, Name: "FOOD", Budget: Money{Cents: 40000}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	// Zero budget is allowed: the category then has no budget-vs-actual row.
	zeroBudget := Category{UserID: testUser, Name: "MISC"}
	if err := zeroBudget.Validate(); err != nil {
		t.Errorf("Validate() zero budget: %v", err)
	}

	unnamed := Category{UserID: testUser}
	if err := unnamed.Validate(); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Validate() = %v, want %v", err, ErrEmptyName)
	}
}
