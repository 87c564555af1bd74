package model

import "time"

// Tool is the canonical in-memory representation of a server tool record.
type Tool struct {
	ID              string     `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	CategoryID      string     `json:"category_id,omitempty" yaml:"category_id,omitempty"`
	Category        string     `json:"category,omitempty" yaml:"category,omitempty"`
	Location        Location   `json:"location" yaml:"location"`
	Description     string     `json:"description,omitempty" yaml:"description,omitempty"`
	DateAdded       *time.Time `json:"date_added,omitempty" yaml:"date_added,omitempty"`
	PurchaseDate    *time.Time `json:"purchase_date,omitempty" yaml:"purchase_date,omitempty"`
	LastMaintenance *time.Time `json:"last_maintenance,omitempty" yaml:"last_maintenance,omitempty"`
	LastCheckedOut  *time.Time `json:"last_checked_out,omitempty" yaml:"last_checked_out,omitempty"`
	Price           Flex       `json:"price,omitempty" yaml:"price,omitempty"`
	Status          string     `json:"status,omitempty" yaml:"status,omitempty"`
	Photo           string     `json:"photo,omitempty" yaml:"photo,omitempty"`
}

// Location is the physical storage slot of a tool. Each part is optional.
type Location struct {
	Row   string `json:"row,omitempty" yaml:"row,omitempty"`
	Col   string `json:"col,omitempty" yaml:"col,omitempty"`
	Shelf string `json:"shelf,omitempty" yaml:"shelf,omitempty"`
}

// Tool statuses as stored by the backend. Both the French labels and the
// English ones appear in practice; comparison is always exact.
const (
	StatusAvailable   = "Disponible"
	StatusBorrowed    = "Emprunté"
	StatusCheckedOut  = "Checked Out"
	StatusInRepair    = "En réparation"
	StatusMaintenance = "Maintenance"
	StatusBroken      = "Cassé"
)

// Statuses lists the known tool statuses in display order.
var Statuses = []string{
	StatusAvailable,
	StatusBorrowed,
	StatusCheckedOut,
	StatusInRepair,
	StatusMaintenance,
	StatusBroken,
}

// IsBorrowed reports whether status means the tool is checked out.
func IsBorrowed(status string) bool {
	return status == StatusBorrowed || status == StatusCheckedOut
}

// IsInRepair reports whether status means the tool is being maintained.
func IsInRepair(status string) bool {
	return status == StatusInRepair || status == StatusMaintenance
}

// RawTool is a tool record as served by /api/tools and /find-tools.
type RawTool struct {
	ID              Flex `json:"id"`
	Name            Flex `json:"name"`
	CategoryID      Flex `json:"category_id"`
	Category        Flex `json:"category"`
	LocRow          Flex `json:"loc_row"`
	LocCol          Flex `json:"loc_col"`
	LocShelf        Flex `json:"loc_shelf"`
	Description     Flex `json:"description"`
	DateAdded       Flex `json:"date_ajout"`
	PurchaseDate    Flex `json:"purchase_date"`
	LastMaintenance Flex `json:"last_maintenance"`
	LastCheckedOut  Flex `json:"last_checked_out"`
	Price           Flex `json:"price"`
	Status          Flex `json:"status"`
	Photo           Flex `json:"photo"`
}

// ToolPage is one page of /api/tools.
type ToolPage struct {
	Items []RawTool `json:"items"`
	Page  int       `json:"page"`
}

// NewTool holds the fields submitted when creating a tool.
type NewTool struct {
	Name         string
	CategoryID   string
	LocRow       string
	LocCol       string
	LocShelf     string
	Description  string
	PurchaseDate string
	Price        string
	Status       string

	// Photo is optional; when set it is uploaded as a multipart file part.
	Photo *Photo
}

// Photo is an encoded image attached to a new tool.
type Photo struct {
	Name string
	MIME string
	Data []byte
}
