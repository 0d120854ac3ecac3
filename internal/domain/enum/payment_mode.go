package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMode represents how an invoice was settled
type PaymentMode string

const (
	PaymentModeCash     PaymentMode = "cash"
	PaymentModeTransfer PaymentMode = "transfer"
	PaymentModeCard     PaymentMode = "card"
	PaymentModeMixed    PaymentMode = "mixed"
)

func (m PaymentMode) String() string {
	return string(m)
}

// Valid reports whether m is one of the known payment modes.
func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCash, PaymentModeTransfer, PaymentModeCard, PaymentModeMixed:
		return true
	}
	return false
}

func (m PaymentMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *PaymentMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*m = PaymentMode(str)
	return nil
}

func (m PaymentMode) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMode) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentModeCash
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = PaymentMode(v)
	case []byte:
		*m = PaymentMode(string(v))
	}
	return nil
}
