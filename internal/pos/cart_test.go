package pos

import "testing"

var (
	kopi  = Product{ID: "p1", SKU: "KP-01", Name: "Kopi Susu", Price: 10000}
	teh   = Product{ID: "p2", SKU: "TH-01", Name: "Teh Manis", Price: 5000}
	gula  = Product{ID: "p3", SKU: "GL-01", Name: "Gula 1kg", Price: 15000}
)

func TestAddItemMergesSameProduct(t *testing.T) {
	c := NewCart()
	c.AddItem(kopi, 1)
	c.AddItem(teh, 2)
	c.AddItem(kopi, 3)

	if c.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", c.Len())
	}
	lines := c.Lines()
	if lines[0].ProductID != "p1" || lines[0].Qty != 4 {
		t.Errorf("expected first line p1 qty 4, got %s qty %d", lines[0].ProductID, lines[0].Qty)
	}
	if lines[1].ProductID != "p2" || lines[1].Qty != 2 {
		t.Errorf("expected second line p2 qty 2, got %s qty %d", lines[1].ProductID, lines[1].Qty)
	}
}

func TestAddItemCapturesPriceAtAddTime(t *testing.T) {
	c := NewCart()
	c.AddItem(kopi, 1)

	changed := kopi
	changed.Price = 99999
	c.AddItem(changed, 1)

	lines := c.Lines()
	if lines[0].UnitPrice != 10000 {
		t.Errorf("unit price must stay at add-time value, got %v", lines[0].UnitPrice)
	}
}

func TestItemsSubtotalSumsLines(t *testing.T) {
	c := NewCart()
	c.AddItem(kopi, 2)
	c.AddItem(teh, 3)
	c.UpdateLineDiscount("p2", 1000)

	// 2*10000 + (3*5000 - 1000)
	if got := c.ItemsSubtotal(); got != 34000 {
		t.Errorf("items subtotal = %v, want 34000", got)
	}
}

func TestRemoveItem(t *testing.T) {
	c := NewCart()
	c.AddItem(kopi, 1)
	c.AddItem(teh, 1)
	c.RemoveItem("p1")
	c.RemoveItem("missing")

	if c.Len() != 1 {
		t.Fatalf("expected 1 line, got %d", c.Len())
	}
	if c.Lines()[0].ProductID != "p2" {
		t.Errorf("remaining line should be p2")
	}
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	c := NewCart()
	c.AddItem(kopi, 5)
	c.AddItem(teh, 1)
	c.UpdateQuantity("p1", 0)

	want := NewCart()
	want.AddItem(kopi, 5)
	want.AddItem(teh, 1)
	want.RemoveItem("p1")

	if c.Len() != want.Len() || c.ItemsSubtotal() != want.ItemsSubtotal() {
		t.Errorf("updateQuantity(p,0) must behave like removeItem(p)")
	}

	c.UpdateQuantity("p2", -3)
	if c.Len() != 0 {
		t.Errorf("negative quantity must remove the line")
	}
}

func TestUpdateQuantitySetsValue(t *testing.T) {
	c := NewCart()
	c.AddItem(gula, 1)
	c.UpdateQuantity("p3", 7)

	if got := c.Lines()[0].Qty; got != 7 {
		t.Errorf("qty = %d, want 7", got)
	}
}

func TestSubtotalFlooredAtZero(t *testing.T) {
	c := NewCart()
	c.AddItem(teh, 1)
	c.SetGlobalDiscount(999999)

	if got := c.Subtotal(); got != 0 {
		t.Errorf("subtotal = %v, want 0 when discount exceeds items subtotal", got)
	}
	if got := c.Total(); got != 0 {
		t.Errorf("total = %v, want 0", got)
	}
}

func TestTotalAppliesTaxOnDiscountedSubtotal(t *testing.T) {
	c := NewCart()
	c.AddItem(kopi, 2)
	c.SetGlobalDiscount(2000)
	c.SetTaxRate(11)

	// (20000-2000) * 1.11
	base := c.Subtotal()
	if base != 18000 {
		t.Fatalf("subtotal = %v, want 18000", base)
	}
	if got, want := c.Total(), base+base*11/100; got != want {
		t.Errorf("total = %v, want %v", got, want)
	}
}

func TestCartTotalsWithDiscountAndTax(t *testing.T) {
	c := NewCart()
	c.AddItem(kopi, 2)
	c.SetTaxRate(10)

	if got := c.ItemsSubtotal(); got != 20000 {
		t.Errorf("items subtotal = %v, want 20000", got)
	}
	if got := c.Subtotal(); got != 20000 {
		t.Errorf("subtotal = %v, want 20000", got)
	}
	if got := c.Total(); got != 22000 {
		t.Errorf("total = %v, want 22000", got)
	}
}

func TestClearKeepsTaxRate(t *testing.T) {
	c := NewCart()
	c.AddItem(kopi, 1)
	c.SetGlobalDiscount(500)
	c.SetTaxRate(11)

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("clear must empty the lines")
	}
	if c.GlobalDiscount() != 0 {
		t.Errorf("clear must reset the global discount")
	}
	if c.TaxRate() != 11 {
		t.Errorf("clear must keep the tax rate, got %v", c.TaxRate())
	}
}

func TestLinesReturnsCopy(t *testing.T) {
	c := NewCart()
	c.AddItem(kopi, 1)

	lines := c.Lines()
	lines[0].Qty = 100

	if c.Lines()[0].Qty != 1 {
		t.Errorf("mutating the returned slice must not affect the cart")
	}
}
