package extract

import "github.com/sells-group/extractify/internal/model"

// Patterns runs every pattern extractor over text and returns the
// resulting field map. Fields that no extractor matched hold NA.
func Patterns(text string) model.FieldMap {
	m := model.NewFieldMap()
	m[model.FieldEmail] = Email(text)
	m[model.FieldPhone] = Phone(text)
	m[model.FieldZipCode] = ZipCode(text)
	m[model.FieldOrderID] = OrderID(text)
	m[model.FieldCustomerName] = CustomerName(text)
	return m
}
