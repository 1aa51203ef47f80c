package handler

import (
	"encoding/json"
	"net/http"

	"warungpos-backend/internal/domain"
	"warungpos-backend/internal/pos"
	"warungpos-backend/internal/repository"
	"warungpos-backend/internal/service"

	"github.com/go-chi/chi/v5"
)

type POSHandler struct {
	Checkout  *service.CheckoutService
	Employees repository.EmployeeRepository
}

func (h POSHandler) RegisterRoutes(r chi.Router) {
	r.Post("/pos/checkout", h.checkout)
}

type checkoutPayload struct {
	Items          []checkoutLine `json:"items"`
	GlobalDiscount float64        `json:"globalDiscount"`
	TaxRate        float64        `json:"taxRate"`
	PaymentMethod  string         `json:"paymentMethod"`
	CashReceived   *float64       `json:"cashReceived"`
}

type checkoutLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
	Discount  float64 `json:"discount"`
}

func (h POSHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	// The model does not validate signs; the boundary does.
	if req.GlobalDiscount < 0 || req.TaxRate < 0 {
		writeError(w, http.StatusBadRequest, "discount and tax rate must be non-negative")
		return
	}
	for _, it := range req.Items {
		if it.Discount < 0 || it.UnitPrice < 0 {
			writeError(w, http.StatusBadRequest, "line price and discount must be non-negative")
			return
		}
	}

	emp, err := resolveEmployee(r.Context(), h.Employees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cart := pos.NewCart()
	for _, it := range req.Items {
		qty := it.Qty
		if qty < 1 {
			qty = 1
		}
		cart.AddItem(pos.Product{ID: it.ProductID, Name: it.Name, Price: it.UnitPrice}, qty)
		if it.Discount > 0 {
			cart.UpdateLineDiscount(it.ProductID, it.Discount)
		}
	}
	cart.SetGlobalDiscount(req.GlobalDiscount)
	cart.SetTaxRate(req.TaxRate)

	res, err := h.Checkout.Checkout(r.Context(), cart, service.CheckoutInput{
		OutletID:      emp.OutletID,
		EmployeeID:    emp.ID,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		CashReceived:  req.CashReceived,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":                res.TransactionID,
		"transactionNumber": res.TransactionNumber,
		"subtotal":          res.Subtotal,
		"discount":          res.Discount,
		"tax":               res.Tax,
		"total":             res.Total,
		"change":            res.Change,
	})
}
