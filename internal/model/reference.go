package model

// Category groups tools.
type Category struct {
	ID          Flex   `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Employee is a person who can borrow tools.
type Employee struct {
	ID         Flex   `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Department string `json:"department,omitempty" yaml:"department,omitempty"`
}

// NewCategory holds the fields submitted when creating a category.
type NewCategory struct {
	Name        string
	Description string
}
