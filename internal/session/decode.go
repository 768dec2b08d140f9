package session

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Values arriving from storage or from the catalog service are loosely
// shaped: fields may be missing, null, or strings where numbers belong.
// The helpers here turn them into the strict types once, at the boundary,
// so Apply never has to guess.

// object decodes data as a JSON object. It reports false for anything else,
// including null, arrays, numbers and strings.
func object(data []byte) (map[string]json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// number reads a JSON number or numeric string, returning 0 when the value
// is missing or not numeric.
func number(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

// maxCount bounds every decoded quantity, rating and review count.
const maxCount = math.MaxInt32

// integer is number truncated toward zero and clamped to ±maxCount, with
// non-finite values as 0.
func integer(raw json.RawMessage) int {
	f := number(raw)
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0
	case f > maxCount:
		return maxCount
	case f < -maxCount:
		return -maxCount
	}
	return int(f)
}

// ParseQuantity reads a requested quantity given as a JSON number or numeric
// string. It reports false for anything else, including fractions, null and
// non-finite values. Results are clamped to ±maxCount.
func ParseQuantity(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || strings.TrimSpace(string(raw)) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return integer(raw), true
}

// addCounts adds two non-negative counts, saturating at maxCount.
func addCounts(a, b int) int {
	if a > maxCount-b {
		return maxCount
	}
	return a + b
}

// text reads a JSON string, returning "" for anything else.
func text(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// productID reads the "id" field. Objects that carry a Mongo-style "_id"
// instead are accepted as long as it is numeric.
func productID(obj map[string]json.RawMessage) (ProductID, bool) {
	raw, ok := obj["id"]
	if !ok {
		raw, ok = obj["_id"]
	}
	if !ok {
		return 0, false
	}
	var id ProductID
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0, false
	}
	return id, true
}

// DecodeProduct decodes one Product-shaped JSON object. Missing or
// non-numeric price, rating and reviews become 0. It reports false when the
// value is not an object or has no usable id.
func DecodeProduct(data []byte) (Product, bool) {
	obj, ok := object(data)
	if !ok {
		return Product{}, false
	}
	id, ok := productID(obj)
	if !ok {
		return Product{}, false
	}
	return normalizeProduct(Product{
		ID:      id,
		Title:   text(obj["title"]),
		Price:   number(obj["price"]),
		Image:   text(obj["image"]),
		Rating:  integer(obj["rating"]),
		Reviews: integer(obj["reviews"]),
	}), true
}

// DecodeProducts decodes a JSON array of products, skipping entries that
// DecodeProduct rejects. It returns the number skipped.
func DecodeProducts(data []byte) ([]Product, int, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, 0, fmt.Errorf("session: decode products: %w", err)
	}
	products := make([]Product, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		p, ok := DecodeProduct(raw)
		if !ok {
			skipped++
			continue
		}
		products = append(products, p)
	}
	return products, skipped, nil
}

// DecodeLine decodes one CartLine-shaped JSON object. It reports false when
// the value is not an object, has no usable id, or its quantity is below 1.
func DecodeLine(data []byte) (CartLine, bool) {
	obj, ok := object(data)
	if !ok {
		return CartLine{}, false
	}
	id, ok := productID(obj)
	if !ok {
		return CartLine{}, false
	}
	l := CartLine{
		ID:       id,
		Title:    text(obj["title"]),
		Price:    amount(number(obj["price"])),
		Image:    text(obj["image"]),
		Quantity: integer(obj["quantity"]),
	}
	if l.Quantity < 1 {
		return CartLine{}, false
	}
	return l, true
}

// DecodeLines decodes a JSON array of cart lines into a Cart. Rejected lines
// are dropped, lines sharing an id are merged into the first, and the
// aggregates are recomputed.
func DecodeLines(data []byte) (Cart, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return Cart{}, fmt.Errorf("session: decode cart lines: %w", err)
	}
	return Summarize(mergeLines(raws)), nil
}

func mergeLines(raws []json.RawMessage) []CartLine {
	lines := make([]CartLine, 0, len(raws))
	index := make(map[ProductID]int, len(raws))
	for _, raw := range raws {
		l, ok := DecodeLine(raw)
		if !ok {
			continue
		}
		if i, dup := index[l.ID]; dup {
			lines[i].Quantity = addCounts(lines[i].Quantity, l.Quantity)
			continue
		}
		index[l.ID] = len(lines)
		lines = append(lines, l)
	}
	return lines
}

// decodeCart reads a persisted cart object. Persisted aggregates are ignored
// and recomputed from the lines.
func decodeCart(data []byte) (Cart, bool) {
	obj, ok := object(data)
	if !ok {
		return Cart{}, false
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(obj["items"], &raws); err != nil {
		raws = nil
	}
	return Summarize(mergeLines(raws)), true
}

// decodeUser reads a persisted user. null is a valid signed-out value; any
// other non-object reports false.
func decodeUser(data []byte) (*User, bool) {
	if strings.TrimSpace(string(data)) == "null" {
		return nil, true
	}
	obj, ok := object(data)
	if !ok {
		return nil, false
	}
	return &User{Email: text(obj["email"]), Name: text(obj["name"])}, true
}
