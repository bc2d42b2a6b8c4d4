package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const PlaceholderImageURL = "https://via.placeholder.com/400x400?text=No+Image"

type Image struct {
	URL          string `json:"url"`
	CloudinaryID string `json:"cloudinary_id,omitempty"`
}

type Product struct {
	ID       string          `json:"_id"`
	Name     string          `json:"ProductName"`
	Category string          `json:"Category"`
	Price    decimal.Decimal `json:"Price"`
	Size     int             `json:"Size"`
	Quantity int             `json:"Quantity"`
	Image    *Image          `json:"image,omitempty"`
	Images   []Image         `json:"images,omitempty"`
}

func (p *Product) Identifier() string {
	return p.ID
}

func (p *Product) DisplayName() string {
	if p.Name == "" {
		return "Untitled"
	}
	return p.Name
}

// MainImage returns the primary image, falling back to the first gallery image.
func (p *Product) MainImage() (Image, bool) {
	if p.Image != nil && p.Image.URL != "" {
		return *p.Image, true
	}
	if len(p.Images) > 0 && p.Images[0].URL != "" {
		return p.Images[0], true
	}
	return Image{}, false
}

func (p *Product) MainImageURL() string {
	if img, ok := p.MainImage(); ok {
		return img.URL
	}
	return PlaceholderImageURL
}

// EstimateTotal is unit price times quantity. It is advisory only.
func (p *Product) EstimateTotal(quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

type Status int

const StatusUnknown Status = -1

const (
	StatusPending Status = iota
	StatusProcessing
	StatusShipped
	StatusCompleted
)

var statusNames = []string{"pending", "processing", "shipped", "completed"}

func (s Status) String() string {
	if s.Valid() {
		return statusNames[s]
	}
	return "unknown"
}

func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusCompleted
}

func ParseStatus(v string) (Status, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for i, name := range statusNames {
		if name == v {
			return Status(i), nil
		}
	}
	if n, err := strconv.Atoi(v); err == nil && Status(n).Valid() {
		return Status(n), nil
	}
	return 0, fmt.Errorf("unknown order status %q", v)
}

// MarshalJSON writes the numeric index, which is what the order endpoint expects.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(s))), nil
}

// UnmarshalJSON accepts the numeric index or the status name. Values it does
// not recognise are kept and report "unknown" rather than failing the decode.
func (s *Status) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = StatusPending
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParseStatus(name)
		if err != nil {
			parsed = StatusUnknown
		}
		*s = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode order status: %w", err)
	}
	*s = Status(n)
	return nil
}

// ProductRef is an order's product reference. The server sends either the bare
// identifier or the populated product document.
type ProductRef struct {
	ID      string
	Product *Product
}

func (r ProductRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

func (r *ProductRef) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*r = ProductRef{}
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = ProductRef{ID: id}
		return nil
	}
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode product reference: %w", err)
	}
	*r = ProductRef{ID: p.ID, Product: &p}
	return nil
}

type Order struct {
	ID          string              `json:"_id"`
	Product     ProductRef          `json:"product"`
	Quantity    int                 `json:"Quantity"`
	Status      Status              `json:"Status"`
	TotalAmount decimal.NullDecimal `json:"TotalAmount"`
	CreatedAt   *time.Time          `json:"createdAt,omitempty"`
}

func (o *Order) Identifier() string {
	return o.ID
}

// Total returns the server-echoed total when present. Otherwise it estimates
// from the populated product and reports authoritative=false.
func (o *Order) Total() (total decimal.Decimal, authoritative bool) {
	if o.TotalAmount.Valid {
		return o.TotalAmount.Decimal, true
	}
	if o.Product.Product != nil {
		return o.Product.Product.EstimateTotal(o.Quantity), false
	}
	return decimal.Zero, false
}

type OrderInput struct {
	Quantity int    `json:"Quantity"`
	Status   Status `json:"Status"`
}

// ImageFile is an image uploaded alongside a product form.
type ImageFile struct {
	Name    string
	Content io.Reader
}

type ProductInput struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Size     int
	Quantity int
	Image    *Image
	File     *ImageFile
}

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}
	if in.Size < 1 {
		return fmt.Errorf("size must be at least 1")
	}
	if in.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}
	return nil
}
