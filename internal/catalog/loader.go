package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// LoadFile reads and validates the product listing. Unknown fields and
// duplicate ids are rejected; all per-product failures are reported together.
func LoadFile(path string) ([]Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) ([]Product, error) {
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.DisallowUnknownFields()

	var products []Product
	if err := decoder.Decode(&products); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	var errs []error
	seen := make(map[int]struct{}, len(products))
	for i, product := range products {
		if err := validate.Struct(product); err != nil {
			errs = append(errs, fmt.Errorf("product[%d]: %w", i, err))
			continue
		}
		if _, dup := seen[product.ID]; dup {
			errs = append(errs, fmt.Errorf("product[%d]: duplicate id %d", i, product.ID))
			continue
		}
		seen[product.ID] = struct{}{}
	}
	if combined := multierr.Combine(errs...); combined != nil {
		return nil, fmt.Errorf("invalid catalog: %w", combined)
	}

	return products, nil
}
