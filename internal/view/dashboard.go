package view

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/safar/artprint/internal/models"
)

const (
	MsgNoOrders     = "You don't have any art print orders yet."
	MsgNoOrdersHint = "Start shopping to see your orders here!"
)

type Tone string

const (
	ToneYellow Tone = "yellow"
	ToneBlue   Tone = "blue"
	TonePurple Tone = "purple"
	ToneGreen  Tone = "green"
	ToneGray   Tone = "gray"
)

func StatusTone(s models.Status) Tone {
	switch s {
	case models.StatusPending:
		return ToneYellow
	case models.StatusProcessing:
		return ToneBlue
	case models.StatusShipped:
		return TonePurple
	case models.StatusCompleted:
		return ToneGreen
	default:
		return ToneGray
	}
}

type DashboardRow struct {
	ID        string
	Product   string
	Quantity  int
	Status    string
	Tone      Tone
	Total     string
	Estimated bool
}

// ProductLookup finds a product for orders whose product reference is bare.
type ProductLookup func(id string) (*models.Product, bool)

func NewDashboardRow(o *models.Order, lookup ProductLookup) DashboardRow {
	product := o.Product.Product
	if product == nil && lookup != nil {
		if p, ok := lookup(o.Product.ID); ok {
			product = p
		}
	}

	row := DashboardRow{
		ID:       o.ID,
		Product:  o.Product.ID,
		Quantity: o.Quantity,
		Status:   o.Status.String(),
		Tone:     StatusTone(o.Status),
	}
	if product != nil {
		row.Product = product.DisplayName()
	}

	switch total, authoritative := o.Total(); {
	case authoritative:
		row.Total = fmt.Sprintf("%s %s", total.StringFixed(2), Currency)
	case product != nil:
		row.Total = fmt.Sprintf("~%s %s", product.EstimateTotal(o.Quantity).StringFixed(2), Currency)
		row.Estimated = true
	default:
		row.Total = "-"
		row.Estimated = true
	}
	return row
}

func RenderDashboard(w io.Writer, orders []*models.Order, lookup ProductLookup) error {
	if len(orders) == 0 {
		_, err := fmt.Fprintf(w, "%s\n%s\n", MsgNoOrders, MsgNoOrdersHint)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tPRODUCT\tQUANTITY\tSTATUS\tTOTAL")
	for _, o := range orders {
		row := NewDashboardRow(o, lookup)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s (%s)\t%s\n", row.ID, row.Product, row.Quantity, row.Status, row.Tone, row.Total)
	}
	return tw.Flush()
}
