package domain

import "fmt"

type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
	TableStatusReserved  TableStatus = "reserved"
)

func ParseTableStatus(s string) (TableStatus, error) {
	switch st := TableStatus(s); st {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved:
		return st, nil
	}
	return "", fmt.Errorf("unknown table status %q", s)
}

type Table struct {
	ID           string      `json:"id"`
	Number       int         `json:"number"`
	Zone         Zone        `json:"zone"`
	Seats        int         `json:"seats"`
	Status       TableStatus `json:"status"`
	CurrentOrder *string     `json:"current_order,omitempty"`
}
