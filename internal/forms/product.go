package forms

import (
	"strconv"

	"github.com/safar/artprint/internal/errs"
	"github.com/safar/artprint/internal/models"
	"github.com/shopspring/decimal"
)

const (
	FieldName         = "ProductName"
	FieldCategory     = "Category"
	FieldPrice        = "Price"
	FieldSize         = "Size"
	FieldQuantity     = "Quantity"
	FieldImageURL     = "imageUrl"
	FieldCloudinaryID = "cloudinary_id"

	MsgChooseImage = "Please choose an image"
)

var ProductSchema = Schema{
	Title: "Product",
	Fields: []Field{
		{Name: FieldName, Label: "Name", Kind: KindText, Required: true, Placeholder: "Enter name"},
		{Name: FieldCategory, Label: "Category", Kind: KindText, Required: true, Default: "Art", Placeholder: "Art"},
		{Name: FieldPrice, Label: "Price", Kind: KindDecimal, Required: true, Placeholder: "0.00", HasMin: true},
		{Name: FieldSize, Label: "Size", Kind: KindInteger, Required: true, Default: "1", Min: 1, HasMin: true},
		{Name: FieldQuantity, Label: "Quantity", Kind: KindInteger, Required: true, HasMin: true},
		{Name: FieldImageURL, Label: "Image URL", Kind: KindURL},
		{Name: FieldCloudinaryID, Label: "Image ID", Kind: KindText},
	},
}

var OrderSchema = Schema{
	Title: "Order",
	Fields: []Field{
		{Name: FieldQuantity, Label: "Quantity", Kind: KindInteger, Required: true, Default: "1", Min: 1, HasMin: true},
	},
}

// ProductInputFrom validates v and builds the create or update request. A new
// product needs an image, either an uploaded file or a hosted URL.
func ProductInputFrom(v Values, editing bool, file *models.ImageFile) (models.ProductInput, error) {
	if err := ProductSchema.Validate(v); err != nil {
		return models.ProductInput{}, err
	}
	if !editing && file == nil && v.Get(FieldImageURL) == "" {
		return models.ProductInput{}, errs.Validation(MsgChooseImage)
	}

	price, _ := decimal.NewFromString(v.Get(FieldPrice))
	size, _ := strconv.Atoi(v.Get(FieldSize))
	quantity, _ := strconv.Atoi(v.Get(FieldQuantity))

	in := models.ProductInput{
		Name:     v.Get(FieldName),
		Category: v.Get(FieldCategory),
		Price:    price,
		Size:     size,
		Quantity: quantity,
		File:     file,
	}
	if u := v.Get(FieldImageURL); u != "" {
		in.Image = &models.Image{URL: u, CloudinaryID: v.Get(FieldCloudinaryID)}
	}
	return in, nil
}

// ProductValues pre-fills the edit form from an existing product.
func ProductValues(p *models.Product) Values {
	v := ProductSchema.Defaults()
	if p.Name != "" {
		v[FieldName] = p.Name
	}
	if p.Category != "" {
		v[FieldCategory] = p.Category
	}
	v[FieldPrice] = p.Price.String()
	if p.Size > 0 {
		v[FieldSize] = strconv.Itoa(p.Size)
	}
	v[FieldQuantity] = strconv.Itoa(p.Quantity)
	if img, ok := p.MainImage(); ok {
		v[FieldImageURL] = img.URL
		v[FieldCloudinaryID] = img.CloudinaryID
	}
	return v
}

// OrderQuantity validates the order form and returns its quantity.
func OrderQuantity(v Values) (int, error) {
	if err := OrderSchema.Validate(v); err != nil {
		return 0, err
	}
	n, _ := strconv.Atoi(v.Get(FieldQuantity))
	return n, nil
}
