package validators

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrProductFieldsMissing = errors.New("please fill in all fields")
	ErrQuantityInvalid      = errors.New("quantity must be a whole number of at least 0")
	ErrPriceInvalid         = errors.New("price must be a number of at least 0")
)

type ProductFields struct {
	Name        string
	Category    string
	Quantity    string
	Price       string
	Description string
}

// ProductValidator checks a product form. With partial set only the
// non-empty fields are checked, which is what an update needs.
func ProductValidator(p *ProductFields, partial bool) (quantity int, price float64, err error) {
	if !partial {
		for _, v := range []string{p.Name, p.Category, p.Quantity, p.Price, p.Description} {
			if strings.TrimSpace(v) == "" {
				return 0, 0, ErrProductFieldsMissing
			}
		}
	}

	if p.Quantity != "" {
		quantity, err = strconv.Atoi(strings.TrimSpace(p.Quantity))
		if err != nil || quantity < 0 {
			return 0, 0, ErrQuantityInvalid
		}
	}

	if p.Price != "" {
		price, err = strconv.ParseFloat(strings.TrimSpace(p.Price), 64)
		if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			return 0, 0, ErrPriceInvalid
		}
	}

	return quantity, price, nil
}
