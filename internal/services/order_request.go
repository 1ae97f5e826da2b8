package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"storefront/internal/apperr"
)

// orderLine is one entry of a cart payload after shape checks. Zero
// productID or quantity means that field already failed validation.
type orderLine struct {
	index     int
	productID uint
	quantity  int
}

func (l orderLine) field(name string) string {
	return fmt.Sprintf("items.%d.%s", l.index, name)
}

// parseOrderLines checks the shape of a cart payload. It never stops at the
// first problem: every failing field is reported.
func parseOrderLines(payload map[string]any) ([]orderLine, *apperr.ValidationError) {
	verr := apperr.NewValidationError()

	raw, ok := payload["items"]
	if !ok || isBlank(raw) {
		verr.Add("items", "The items field is required.")
		return nil, verr
	}
	entries, ok := raw.([]any)
	if !ok {
		verr.Add("items", "The items field must be an array.")
		return nil, verr
	}
	if len(entries) == 0 {
		verr.Add("items", "The items field is required.")
		return nil, verr
	}

	lines := make([]orderLine, 0, len(entries))
	for i, entry := range entries {
		line := orderLine{index: i}
		obj, _ := entry.(map[string]any)

		if pid, present := obj["product_id"]; !present || isBlank(pid) {
			verr.Add(line.field("product_id"), fmt.Sprintf("The %s field is required.", line.field("product_id")))
		} else if id, ok := asInt(pid); ok && id >= 1 && uint64(id) <= math.MaxUint32 {
			line.productID = uint(id)
		} else {
			verr.Add(line.field("product_id"), fmt.Sprintf("The selected %s is invalid.", line.field("product_id")))
		}

		if q, present := obj["quantity"]; !present || isBlank(q) {
			verr.Add(line.field("quantity"), fmt.Sprintf("The %s field is required.", line.field("quantity")))
		} else if n, ok := asInt(q); !ok {
			verr.Add(line.field("quantity"), fmt.Sprintf("The %s field must be an integer.", line.field("quantity")))
		} else if n < 1 {
			verr.Add(line.field("quantity"), fmt.Sprintf("The %s field must be at least 1.", line.field("quantity")))
		} else if n > math.MaxInt32 {
			verr.Add(line.field("quantity"), fmt.Sprintf("The %s field must not be greater than %d.", line.field("quantity"), math.MaxInt32))
		} else {
			line.quantity = int(n)
		}

		lines = append(lines, line)
	}
	return lines, verr
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

// asInt accepts JSON numbers without a fractional part and numeric strings.
func asInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || t > math.MaxInt64 || t < math.MinInt64 {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}
