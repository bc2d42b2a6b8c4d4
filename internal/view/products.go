package view

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/safar/artprint/internal/models"
	"github.com/safar/artprint/internal/store"
)

const (
	MsgNoProducts     = "No products yet!"
	MsgProductsFailed = "Failed to fetch products"
	MsgSaveFailed     = "Failed to save Product"
	MsgDeleteFailed   = "Failed to delete Product"
	Currency          = "BHD"
)

type ProductCard struct {
	ID       string
	Name     string
	Price    string
	Stock    int
	ImageURL string
	Selected bool
	BuyPath  string
}

func NewProductCard(p *models.Product, selectedID string) ProductCard {
	return ProductCard{
		ID:       p.ID,
		Name:     p.DisplayName(),
		Price:    FormatPrice(p),
		Stock:    p.Quantity,
		ImageURL: p.MainImageURL(),
		Selected: p.ID != "" && p.ID == selectedID,
		BuyPath:  CheckoutPath(p.ID),
	}
}

func FormatPrice(p *models.Product) string {
	return fmt.Sprintf("%s %s", p.Price.String(), Currency)
}

func RenderProducts(w io.Writer, page store.OffsetPage[*models.Product], selectedID string) error {
	if page.Total == 0 {
		_, err := fmt.Fprintln(w, MsgNoProducts)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, " \tID\tNAME\tPRICE\tQUANTITY\tIMAGE")
	for _, p := range page.Items {
		card := NewProductCard(p, selectedID)
		marker := " "
		if card.Selected {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", marker, card.ID, card.Name, card.Price, card.Stock, card.ImageURL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if page.TotalPages > 1 {
		_, err := fmt.Fprintf(w, "page %d of %d (%d products)\n", page.Page, page.TotalPages, page.Total)
		return err
	}
	return nil
}

func RenderProduct(w io.Writer, p *models.Product) error {
	card := NewProductCard(p, "")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", card.ID)
	fmt.Fprintf(tw, "Name\t%s\n", card.Name)
	fmt.Fprintf(tw, "Category\t%s\n", p.Category)
	fmt.Fprintf(tw, "Price\t%s\n", card.Price)
	fmt.Fprintf(tw, "Size\t%d\n", p.Size)
	fmt.Fprintf(tw, "Quantity\t%d\n", card.Stock)
	fmt.Fprintf(tw, "Image\t%s\n", card.ImageURL)
	fmt.Fprintf(tw, "Buy\t%s\n", card.BuyPath)
	return tw.Flush()
}
