package pos

// Product is the slice of the catalog the cart needs. The unit price is
// captured at add time and is not re-read from the catalog afterwards.
type Product struct {
	ID    string
	SKU   string
	Name  string
	Price float64
}

// Line is one cart entry. At most one line exists per product; re-adding a
// product increments the quantity of the existing line.
type Line struct {
	ProductID string
	Name      string
	Qty       int
	UnitPrice float64
	Discount  float64
}

// Total is the line amount after the per-line discount.
func (l Line) Total() float64 {
	return float64(l.Qty)*l.UnitPrice - l.Discount
}

// Cart holds the in-progress sale for a single cashier session. Lines keep
// insertion order. The model does not validate negative discounts or tax
// rates; the HTTP boundary rejects those before they reach the cart.
type Cart struct {
	lines          []Line
	globalDiscount float64
	taxRate        float64
}

func NewCart() *Cart {
	return &Cart{}
}

// AddItem appends a line for the product, or bumps the quantity when the
// product is already in the cart.
func (c *Cart) AddItem(p Product, qty int) {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Qty += qty
			return
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Qty:       qty,
		UnitPrice: p.Price,
	})
}

// RemoveItem deletes the product's line. No-op when absent.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the line quantity. Zero or negative removes the line.
func (c *Cart) UpdateQuantity(productID string, qty int) {
	if qty <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Qty = qty
			return
		}
	}
}

// UpdateLineDiscount sets the per-line discount. No-op when absent.
func (c *Cart) UpdateLineDiscount(productID string, discount float64) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Discount = discount
			return
		}
	}
}

func (c *Cart) SetGlobalDiscount(v float64) { c.globalDiscount = v }

func (c *Cart) SetTaxRate(percent float64) { c.taxRate = percent }

func (c *Cart) GlobalDiscount() float64 { return c.globalDiscount }

func (c *Cart) TaxRate() float64 { return c.taxRate }

// Clear resets the lines and the global discount. The tax rate deliberately
// carries over to the next sale.
func (c *Cart) Clear() {
	c.lines = nil
	c.globalDiscount = 0
}

func (c *Cart) Len() int { return len(c.lines) }

// Lines returns a copy; mutating it does not affect the cart.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// ItemsSubtotal is the sum of line totals before the global discount.
func (c *Cart) ItemsSubtotal() float64 {
	var sum float64
	for _, l := range c.lines {
		sum += l.Total()
	}
	return sum
}

// Subtotal applies the global discount, floored at zero. This is the tax base.
func (c *Cart) Subtotal() float64 {
	s := c.ItemsSubtotal() - c.globalDiscount
	if s < 0 {
		return 0
	}
	return s
}

// Tax is the tax amount on the discounted subtotal.
func (c *Cart) Tax() float64 {
	return c.Subtotal() * c.taxRate / 100
}

// Total is the discounted subtotal plus tax.
func (c *Cart) Total() float64 {
	return c.Subtotal() + c.Tax()
}
