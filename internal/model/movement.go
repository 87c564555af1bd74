package model

import "time"

// Movement statuses.
const (
	MovementCheckedOut = "Checked Out"
	MovementReturned   = "Returned"
)

// Movement is a borrow record linking a tool and an employee.
type Movement struct {
	ID             string     `json:"id,omitempty" yaml:"id,omitempty"`
	ToolID         string     `json:"tool_id" yaml:"tool_id"`
	EmployeeID     string     `json:"employee_id" yaml:"employee_id"`
	BorrowDate     *time.Time `json:"borrow_date,omitempty" yaml:"borrow_date,omitempty"`
	ExpectedReturn *time.Time `json:"expected_return,omitempty" yaml:"expected_return,omitempty"`
	ReturnDate     *time.Time `json:"return_date,omitempty" yaml:"return_date,omitempty"`
	Status         string     `json:"status" yaml:"status"`
}

// Open reports whether the tool has not been returned yet.
func (m Movement) Open() bool {
	return m.ReturnDate == nil
}

// RawMovement is a movement record as served by /api/movements.
type RawMovement struct {
	ID             Flex `json:"id"`
	ToolID         Flex `json:"tool_id"`
	EmployeeID     Flex `json:"employee_id"`
	BorrowDate     Flex `json:"date_emprunt"`
	ExpectedReturn Flex `json:"expected_return"`
	ReturnDate     Flex `json:"return_date"`
	Status         Flex `json:"status"`
}
