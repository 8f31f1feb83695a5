package services

import (
	"regexp"

	"datamart-etl/models"
)

// productColumns is the ordered allow-list of source columns together
// with their display names. Source columns not on this list are dropped;
// allow-listed columns absent from the input are silently omitted.
var productColumns = []struct{ src, dst string }{
	{"id", "ID"},
	{"prices.amountMax", "MaxPrice"},
	{"prices.amountMin", "MinPrice"},
	{"prices.availability", "Availability"},
	{"prices.condition", "Condition"},
	{"prices.merchant", "Merchant"},
	{"prices.dateSeen", "DateSeen"},
	{"prices.isSale", "isSale"},
	{"prices.shipping", "Shipping"},
	{"brand", "Brand"},
	{"categories", "SubCategories"},
	{"dateAdded", "DateAdded"},
	{"dateUpdated", "DateUpdated"},
	{"primaryCategories", "MainCategories"},
}

// Categorical remaps. Values not present in a table pass through
// unchanged — an open vocabulary leak we report in logs rather than
// silently normalize.
var (
	availabilityMap = map[string]string{
		"Yes":              "In Stock",
		"In Stock":         "In Stock",
		"TRUE":             "In Stock",
		"undefined":        "Sold",
		"yes":              "In Stock",
		"Out Of Stock":     "Sold",
		"Special Order":    "In Stock",
		"No":               "Sold",
		"More on the Way":  "Sold",
		"sold":             "Sold",
		"FALSE":            "Sold",
		"Retired":          "Sold",
		"32 available:":    "In Stock",
		"7 available":      "In Stock",
	}

	conditionMap = map[string]string{
		"New":                      "New",
		"new":                      "New",
		"Seller refurbished":       "Used",
		"Used":                     "Used",
		"pre-owned":                "Used",
		"Refurbished":              "Used",
		"Manufacturer refurbished": "Used",
	}

	isSaleMap = map[string]string{
		"False": "No",
		"false": "No",
		"FALSE": "No",
		"True":  "Yes",
		"true":  "Yes",
		"TRUE":  "Yes",
	}

	shippingMap = map[string]string{
		"Expedited":                                           "Charges Apply",
		"Value":                                               "Charges Apply",
		"Standard":                                            "Charges Apply",
		"Freight":                                             "Charges Apply",
		"Shipping Charges Apply":                              "Charges Apply",
		"FREE":                                                "Free Shipping",
		"Free Shipping on orders 35 and up":                   "Free Shipping",
		"Free Expedited Shipping":                             "Free Shipping",
		"Free Expedited Shipping for most orders over $49":    "Free Shipping",
		"Free Shipping for this Item":                         "Free Shipping",
		"Free Standard Shipping on Orders Over $49":           "Free Shipping",
		"Free Delivery":                                       "Free Shipping",
		"Free Standard Shipping":                              "Free Shipping",
		"Free Next Day Delivery (USA)":                        "Free Shipping",
	}
)

// shippingChargeRegexp matches shipping values quoting a concrete price,
// e.g. "5.99 USD" or "CAD 7.00". Case-sensitive, whole word.
var shippingChargeRegexp = regexp.MustCompile(`\bUSD\b|\bCAD\b`)

// productDateColumns are coerced to timestamps and backward-filled.
var productDateColumns = []string{"DateAdded", "DateUpdated", "DateSeen"}

// TransformProducts selects the allow-listed product columns, renames
// them to display names, remaps the categorical columns into a closed
// vocabulary, and coerces the date columns. Missing Shipping values and
// unparseable dates are backward-filled from the next valid value in
// record order.
func (t *Transformer) TransformProducts(tbl models.Table) models.Table {
	out := selectAndRename(tbl)

	remapColumn(&out, "Availability", availabilityMap)
	remapColumn(&out, "Condition", conditionMap)
	remapColumn(&out, "isSale", isSaleMap)
	remapColumn(&out, "Shipping", shippingMap)

	if idx := out.ColumnIndex("Shipping"); idx != -1 {
		for _, row := range out.Rows {
			if shippingChargeRegexp.MatchString(row[idx]) {
				row[idx] = "Charges Apply"
			}
		}
		backwardFillColumn(&out, idx)
	}

	for _, name := range productDateColumns {
		idx := out.ColumnIndex(name)
		if idx == -1 {
			continue
		}
		for _, row := range out.Rows {
			ts, ok := parseTimestamp(row[idx])
			if !ok {
				row[idx] = ""
				continue
			}
			row[idx] = ts.Format(timeLayout)
		}
		backwardFillColumn(&out, idx)
	}

	t.logger.Info("[transform] products: kept %d of %d columns, %d rows",
		out.NumColumns(), tbl.NumColumns(), out.NumRows())
	return out
}

// selectAndRename keeps the intersection of the allow-list and the input
// columns, in allow-list order, under their display names.
func selectAndRename(tbl models.Table) models.Table {
	type pick struct {
		srcIdx int
		dst    string
	}
	var picks []pick
	for _, col := range productColumns {
		if idx := tbl.ColumnIndex(col.src); idx != -1 {
			picks = append(picks, pick{srcIdx: idx, dst: col.dst})
		}
	}

	out := models.Table{Columns: make([]string, len(picks))}
	for i, p := range picks {
		out.Columns[i] = p.dst
	}
	out.Rows = make([][]string, len(tbl.Rows))
	for r, row := range tbl.Rows {
		newRow := make([]string, len(picks))
		for i, p := range picks {
			newRow[i] = row[p.srcIdx]
		}
		out.Rows[r] = newRow
	}
	return out
}

func remapColumn(tbl *models.Table, name string, mapping map[string]string) {
	idx := tbl.ColumnIndex(name)
	if idx == -1 {
		return
	}
	for _, row := range tbl.Rows {
		if mapped, ok := mapping[row[idx]]; ok {
			row[idx] = mapped
		}
	}
}

func backwardFillColumn(tbl *models.Table, idx int) {
	values := make([]string, len(tbl.Rows))
	for i, row := range tbl.Rows {
		values[i] = row[idx]
	}
	backwardFill(values)
	for i, row := range tbl.Rows {
		row[idx] = values[i]
	}
}
