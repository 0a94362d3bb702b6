package fixtures

import (
	"time"

	"github.com/smartpos/pos-engine/internal/model"
)

var (
	TestProductCoffee = model.ProductWriteRequest{
		Name:  "Coffee",
		Price: 12000,
		Qty:   10,
	}

	TestProductSugar = model.ProductWriteRequest{
		Name:  "Sugar",
		Price: 3000,
		Qty:   50,
	}

	TestProductLowStock = model.ProductWriteRequest{
		Name:  "Syrup",
		Price: 25000,
		Qty:   1,
	}
)

func NewCartItem(name string, qty, price float64, productID *int64) model.CartItem {
	return model.CartItem{
		Name:      name,
		Qty:       qty,
		Price:     price,
		ProductID: productID,
	}
}

// CoffeeCart is the standard two-line cart: one stocked line and one
// ad-hoc line without a product reference. Subtotal is 30000.
func CoffeeCart(coffeeID int64) model.SaveTransactionRequest {
	return model.SaveTransactionRequest{
		Items: []model.CartItem{
			NewCartItem("Coffee", 2, 12000, &coffeeID),
			NewCartItem("Sugar", 2, 3000, nil),
		},
	}
}

func EmptyCart() model.SaveTransactionRequest {
	return model.SaveTransactionRequest{}
}

func CartWithQty(productID int64, name string, qty, price float64) model.SaveTransactionRequest {
	return model.SaveTransactionRequest{
		Items: []model.CartItem{
			NewCartItem(name, qty, price, &productID),
		},
	}
}

func SettingsUpdate(storeName string, taxEnabled bool, taxRate float64) model.SettingsUpdateRequest {
	return model.SettingsUpdateRequest{
		StoreName:     storeName,
		TaxEnabled:    taxEnabled,
		TaxRate:       taxRate,
		ReceiptFooter: "Thank you",
	}
}

func DateRangeFor(from, to time.Time) model.DateRange {
	return model.DateRange{From: &from, To: &to}
}

func DayOf(t time.Time) model.DateRange {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	to := from.Add(24*time.Hour - time.Nanosecond)
	return model.DateRange{From: &from, To: &to}
}
