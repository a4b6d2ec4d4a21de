package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type LineItem struct {
	Enabled bool    `json:"enabled"`
	Value   float64 `json:"value"`
}

type QuantityItem struct {
	Enabled  bool    `json:"enabled"`
	Quantity int     `json:"quantity"`
	Value    float64 `json:"value"`
}

// ExtraServices is the single in-memory shape of itemized extras. Records written before
// the nested format used flat booleans with separate "_valor" fields; UnmarshalJSON
// accepts both.
type ExtraServices struct {
	Overnight    LineItem     `json:"pernoite"`
	BathGrooming LineItem     `json:"banho_tosa"`
	BathOnly     LineItem     `json:"so_banho"`
	Trainer      LineItem     `json:"adestrador"`
	Medical      LineItem     `json:"despesa_medica"`
	ExtraDays    QuantityItem `json:"dia_extra"`
}

func (e *ExtraServices) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeExtraServices(data)
	if err != nil {
		return err
	}
	*e = decoded
	return nil
}

// DecodeExtraServices normalizes either stored shape. Missing keys and null input
// decode to zero values.
func DecodeExtraServices(data []byte) (ExtraServices, error) {
	var out ExtraServices

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return out, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return out, fmt.Errorf("extra services: %w", err)
	}

	items := []struct {
		key string
		dst *LineItem
	}{
		{"pernoite", &out.Overnight},
		{"banho_tosa", &out.BathGrooming},
		{"so_banho", &out.BathOnly},
		{"adestrador", &out.Trainer},
		{"despesa_medica", &out.Medical},
	}

	for _, it := range items {
		item, err := decodeLineItem(raw, it.key)
		if err != nil {
			return out, err
		}
		*it.dst = item
	}

	days, err := decodeExtraDays(raw)
	if err != nil {
		return out, err
	}
	out.ExtraDays = days

	return out, nil
}

func decodeLineItem(raw map[string]json.RawMessage, key string) (LineItem, error) {
	var item LineItem

	v, ok := raw[key]
	if !ok || isNull(v) {
		return item, nil
	}

	if isObject(v) {
		if err := json.Unmarshal(v, &struct {
			Enabled *bool    `json:"enabled"`
			Value   *float64 `json:"value"`
		}{&item.Enabled, &item.Value}); err != nil {
			return item, fmt.Errorf("extra services %s: %w", key, err)
		}
		return item, nil
	}

	if err := json.Unmarshal(v, &item.Enabled); err != nil {
		return item, fmt.Errorf("extra services %s: %w", key, err)
	}
	if err := numberField(raw, key+"_valor", &item.Value); err != nil {
		return item, err
	}
	return item, nil
}

func decodeExtraDays(raw map[string]json.RawMessage) (QuantityItem, error) {
	var item QuantityItem

	if v, ok := raw["dia_extra"]; ok && isObject(v) {
		if err := json.Unmarshal(v, &struct {
			Enabled  *bool    `json:"enabled"`
			Quantity *int     `json:"quantity"`
			Value    *float64 `json:"value"`
		}{&item.Enabled, &item.Quantity, &item.Value}); err != nil {
			return item, fmt.Errorf("extra services dia_extra: %w", err)
		}
		return item, nil
	}

	var qty float64
	if err := numberField(raw, "dias_extras", &qty); err != nil {
		return item, err
	}
	if err := numberField(raw, "dia_extra_valor", &item.Value); err != nil {
		return item, err
	}
	item.Quantity = int(qty)
	item.Enabled = item.Quantity > 0
	return item, nil
}

func numberField(raw map[string]json.RawMessage, key string, dst *float64) error {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("extra services %s: %w", key, err)
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func isObject(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && v[0] == '{'
}

// Sum adds every enabled item at its recorded value.
func (e ExtraServices) Sum() float64 {
	total := 0.0
	for _, it := range e.lineItems() {
		if it.Enabled {
			total += it.Value
		}
	}
	if e.ExtraDays.Enabled && e.ExtraDays.Quantity > 0 {
		total += float64(e.ExtraDays.Quantity) * e.ExtraDays.Value
	}
	return roundCents(total)
}

func (e ExtraServices) lineItems() []LineItem {
	return []LineItem{e.Overnight, e.BathGrooming, e.BathOnly, e.Trainer, e.Medical}
}
