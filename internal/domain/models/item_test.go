package models

import "testing"

func TestFormatDisplayID(t *testing.T) {
	cases := []struct {
		seq  int64
		want string
	}{
		{1, "INV-001"},
		{25, "INV-025"},
		{999, "INV-999"},
		{1000, "INV-1000"},
		{12345, "INV-12345"},
	}

	for _, tc := range cases {
		if got := FormatDisplayID(tc.seq); got != tc.want {
			t.Errorf("FormatDisplayID(%d) = %q, want %q", tc.seq, got, tc.want)
		}
	}
}

func TestCreateItemInputNormalize(t *testing.T) {
	in := CreateItemInput{
		ProductName:   "  USB Cable  ",
		Category:      " Electronics ",
		Supplier:      "Acme ",
		WarehouseCode: " wh-1 ",
	}
	in.Normalize()

	if in.ProductName != "USB Cable" {
		t.Errorf("ProductName = %q, want trimmed", in.ProductName)
	}
	if in.Category != "Electronics" {
		t.Errorf("Category = %q, want trimmed", in.Category)
	}
	if in.WarehouseCode != "WH-1" {
		t.Errorf("WarehouseCode = %q, want uppercased %q", in.WarehouseCode, "WH-1")
	}
}

func TestUpdateItemInputNormalize(t *testing.T) {
	code := "wh-west"
	name := " Desk "
	in := UpdateItemInput{WarehouseCode: &code, ProductName: &name}
	in.Normalize()

	if *in.WarehouseCode != "WH-WEST" {
		t.Errorf("WarehouseCode = %q, want %q", *in.WarehouseCode, "WH-WEST")
	}
	if *in.ProductName != "Desk" {
		t.Errorf("ProductName = %q, want trimmed", *in.ProductName)
	}
}

func TestUpdateItemInputEmpty(t *testing.T) {
	var in UpdateItemInput
	if !in.Empty() {
		t.Error("zero patch should be empty")
	}

	name := "Desk"
	in.ProductName = &name
	if in.Empty() {
		t.Error("patch with a field should not be empty")
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) != 7 {
		t.Fatalf("expected 7 categories, got %d", len(cats))
	}
}
