package view

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/safar/artprint/internal/checkout"
)

type CheckoutSummary struct {
	Name     string
	Price    string
	Stock    int
	Quantity int
	Total    string
	State    string
	Message  string
}

func NewCheckoutSummary(flow *checkout.Flow, quantity int) CheckoutSummary {
	p := flow.Product()
	return CheckoutSummary{
		Name:     p.DisplayName(),
		Price:    FormatPrice(p),
		Stock:    p.Quantity,
		Quantity: quantity,
		Total:    fmt.Sprintf("%s %s", flow.Total(quantity).StringFixed(2), Currency),
		State:    flow.State().String(),
		Message:  flow.Message(),
	}
}

func RenderCheckout(w io.Writer, s CheckoutSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Product\t%s\n", s.Name)
	fmt.Fprintf(tw, "Price\t%s\n", s.Price)
	fmt.Fprintf(tw, "Available\t%d\n", s.Stock)
	fmt.Fprintf(tw, "Quantity\t%d\n", s.Quantity)
	fmt.Fprintf(tw, "Total\t%s\n", s.Total)
	if s.Message != "" {
		fmt.Fprintf(tw, "Status\t%s: %s\n", s.State, s.Message)
	}
	return tw.Flush()
}
