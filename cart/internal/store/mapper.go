package store

import "github.com/Alturino/storefront/cart/pkg/response"

func (s Snapshot) Response() response.Cart {
	lines := make([]response.CartLine, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = response.CartLine{
			ProductID: l.ProductID,
			Title:     l.Title,
			Price:     l.Price,
			Image:     l.Image,
			Category:  l.Category,
			Quantity:  l.Quantity,
			Total:     l.Total(),
		}
	}
	return response.Cart{Lines: lines, TotalItems: s.TotalItems, TotalPrice: s.TotalPrice}
}

func (s Snapshot) Badge() response.Badge {
	return response.Badge{Version: s.Version, TotalItems: s.TotalItems, TotalPrice: s.TotalPrice}
}

func (s Summary) Response() response.Summary {
	return response.Summary{
		TotalItems: s.TotalItems,
		Subtotal:   s.Subtotal,
		Shipping:   s.Shipping,
		Tax:        s.Tax,
		Total:      s.Total,
	}
}
