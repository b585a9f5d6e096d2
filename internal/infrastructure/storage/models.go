package storage

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/GabRuby/calcTacos/internal/domain/menu"
)

// TableStatus is whether a table is serving customers.
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
)

// Table is a dining table and its open order.
type Table struct {
	ID           string           `json:"id"`
	Number       int              `json:"number"`
	Name         string           `json:"name"`
	Status       TableStatus      `json:"status"`
	Order        []menu.OrderLine `json:"order"`
	StartTime    *time.Time       `json:"startTime,omitempty"`
	CustomerName string           `json:"customerName,omitempty"`
	Observations string           `json:"observations,omitempty"`
}

// DisplayName is the table's name, or "Mesa N" when it has none.
func (t *Table) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return "Mesa " + strconv.Itoa(t.Number)
}

// Release clears the order and customer details and marks the table available.
func (t *Table) Release() {
	t.Status = TableAvailable
	t.Order = nil
	t.StartTime = nil
	t.CustomerName = ""
	t.Observations = ""
}

// EncodeLines serializes order lines for a JSON column.
func EncodeLines(lines []menu.OrderLine) (string, error) {
	if lines == nil {
		lines = []menu.OrderLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeLines parses a JSON column written by EncodeLines.
func DecodeLines(data string) ([]menu.OrderLine, error) {
	if data == "" {
		return nil, nil
	}
	var lines []menu.OrderLine
	if err := json.Unmarshal([]byte(data), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
